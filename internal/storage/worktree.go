package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// WorkTrees locates the git working copy of each service.
type WorkTrees interface {
	Dir(service string) string
	Exists(service string) bool
}

// ValidName reports whether service can name a directory directly below the
// work directory.
func ValidName(service string) bool {
	return service != "" && service != "." && service != ".." && !strings.ContainsAny(service, `/\`)
}

type WorkTreesImpl struct {
	rootDir string
	log     zerolog.Logger
}

// Dir implements WorkTrees.
func (w *WorkTreesImpl) Dir(service string) string {
	return lo.Must(filepath.Abs(filepath.Join(w.rootDir, filepath.Base(service))))
}

// Exists implements WorkTrees.
func (w *WorkTreesImpl) Exists(service string) bool {
	if !ValidName(service) {
		w.log.Warn().Str("service", service).Msg("invalid service name")
		return false
	}
	dir := w.Dir(service)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		w.log.Debug().Str("dir", dir).Err(err).Msg("no git working copy")
		return false
	}
	return true
}

func NewWorkTrees(root string, log zerolog.Logger) WorkTrees {
	return &WorkTreesImpl{
		rootDir: root,
		log:     log,
	}
}
