package repository

import (
	"errors"
	"fmt"

	"github.com/yz4230/hookdeploy/internal/entity"
	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// translate maps storage errors onto entity errors.
func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", entity.ErrNotFound, err)
	}
	return err
}
