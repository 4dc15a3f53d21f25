package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yz4230/hookdeploy/internal/entity"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	// ModeSubstring treats a service as declared when any line of the file
	// contains its name. Names that are substrings of other identifiers match too.
	ModeSubstring Mode = "substring"
	// ModeServices requires the name to be a key of the top-level services mapping.
	ModeServices Mode = "services"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModeServices:
		return m, nil
	}
	return "", fmt.Errorf("%w: descriptor mode %q", entity.ErrInvalid, s)
}

// Descriptor is the compose file that enumerates deployable services.
type Descriptor struct {
	Path string
	Mode Mode
}

func New(path string, mode Mode) *Descriptor {
	return &Descriptor{Path: path, Mode: mode}
}

// Declares reports whether service is declared in the descriptor. It returns
// entity.ErrConfigMissing when the file does not exist.
func (d *Descriptor) Declares(service string) (bool, error) {
	data, err := os.ReadFile(d.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %s", entity.ErrConfigMissing, d.Path)
	}
	if err != nil {
		return false, fmt.Errorf("read descriptor: %w", err)
	}
	if service == "" {
		return false, nil
	}

	if d.Mode == ModeServices {
		return declaresService(data, service)
	}
	for line := range strings.Lines(string(data)) {
		if strings.Contains(line, service) {
			return true, nil
		}
	}
	return false, nil
}

func declaresService(data []byte, service string) (bool, error) {
	var doc struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parse descriptor: %w", err)
	}
	_, ok := doc.Services[service]
	return ok, nil
}
