// Package output builds file names for issue maps and writes them to disk.
package output

import (
	"os"
	"path/filepath"
	"strings"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// MaxNameRunes is how many characters of an issue survive into its file name.
const MaxNameRunes = 40

// Extension is appended to every saved map.
const Extension = ".jpeg"

//nolint:gochecknoglobals // Immutable replacer
var nameReplacer = strings.NewReplacer(" ", "_", "/", "_")

// SafeName truncates issue to MaxNameRunes characters, then replaces spaces
// and slashes with underscores. Nothing else is escaped, so distinct issues
// may collide.
func SafeName(issue string) string {
	runes := []rune(issue)
	if len(runes) > MaxNameRunes {
		runes = runes[:MaxNameRunes]
	}
	return nameReplacer.Replace(string(runes))
}

// Storage writes map images into a single output directory.
type Storage struct {
	dir string
}

// NewStorage creates the output directory if needed.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, domainerrors.InvalidInput("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeWrite, "create output directory %s", dir)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns where the map for issue is written.
func (s *Storage) Path(issue string) string {
	return filepath.Join(s.dir, SafeName(issue)+Extension)
}

// Save writes data as the map for issue, replacing any existing file, and
// returns the path written.
func (s *Storage) Save(issue string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domainerrors.Wrapf(domainerrors.ErrInvalidInput, domainerrors.CodeWrite, "empty image for %q", issue)
	}

	// The directory may have been removed since construction.
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domainerrors.Wrapf(err, domainerrors.CodeWrite, "create output directory %s", s.dir)
	}

	path := s.Path(issue)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Maps are meant to be shared
		return "", domainerrors.Wrapf(err, domainerrors.CodeWrite, "write %s", path)
	}
	return path, nil
}
