package entity

import (
	"fmt"
	"strconv"
)

// ID is the string form of a numeric database key.
type ID string

func NewID(id uint) ID { return ID(strconv.FormatUint(uint64(id), 10)) }

// ParseID validates a user supplied identifier.
func ParseID(s string) (ID, error) {
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return "", fmt.Errorf("%w: id %q", ErrInvalid, s)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

func (id ID) Uint() uint {
	n, err := strconv.ParseUint(id.String(), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
