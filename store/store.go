// Package store owns the upload directory: safe filenames, the
// original/detected naming pair, and disk writes.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxNameLen bounds sanitized filenames so the prefixed pair names stay
// comfortably inside filesystem limits.
const maxNameLen = 100

// Store writes uploads into a single flat directory.
type Store struct {
	dir string
	log *zap.Logger
}

// New creates the upload directory if needed and returns a store over it.
func New(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &Store{dir: dir, log: log.Named("store")}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a stored file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save streams r into a new file under the upload directory.
func (s *Store) Save(name string, r io.Reader) error {
	dst := s.Path(name)
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close %s", name)
	}

	s.log.Debug("upload saved", zap.String("file", name))
	return nil
}

// Pair names the two files one upload produces: the original bytes and the
// annotated copy. Both carry the same random ID so they sort together.
type Pair struct {
	ID       string
	Original string
	Detected string
}

// NewPair draws a fresh 16-hex-character ID and derives the pair names for
// an already-sanitized filename.
func NewPair(name string) (Pair, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Pair{}, errors.Wrap(err, "generate upload id")
	}
	id := hex.EncodeToString(buf[:])
	return Pair{
		ID:       id,
		Original: "original_" + id + "_" + name,
		Detected: "detected_" + id + "_" + name,
	}, nil
}

// SaveOriginal draws a fresh pair for an already-sanitized filename and
// streams the upload into the pair's original path. The detected file is the
// caller's to produce.
func (s *Store) SaveOriginal(name string, r io.Reader) (Pair, error) {
	pair, err := NewPair(name)
	if err != nil {
		return Pair{}, err
	}
	if err := s.Save(pair.Original, r); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

// SanitizeFilename flattens a client-supplied filename into something safe
// to join onto the upload directory. Directory components are stripped,
// whitespace becomes underscores, and everything outside [A-Za-z0-9._-] is
// dropped. A name with nothing left becomes "upload".
func SanitizeFilename(name string) string {
	// Windows clients send backslash-separated paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.TrimLeft(b.String(), "._")
	if out == "" {
		return "upload"
	}
	if len(out) > maxNameLen {
		ext := filepath.Ext(out)
		if len(ext) > maxNameLen/2 {
			ext = ""
		}
		out = out[:maxNameLen-len(ext)] + ext
	}
	return out
}
