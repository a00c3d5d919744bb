// Package storage keeps uploaded résumé files on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when a requested file does not exist.
var ErrNotFound = errors.New("file not found")

// allowedExtensions are the résumé formats kept on upload.
var allowedExtensions = map[string]bool{"pdf": true, "doc": true, "docx": true}

// AllowedExtension reports whether filename has an accepted résumé extension.
// The check is case-insensitive.
func AllowedExtension(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext, allowedExtensions[ext]
}

// SafeName reduces s to ASCII letters, digits, '_', '.' and '-'. Accents are
// stripped and whitespace runs become a single '_'.
func SafeName(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(folded) {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte('_')
			}
			space = true
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'):
			b.WriteRune(r)
		}
		space = false
	}
	return strings.Trim(b.String(), "._")
}

// ResumeName builds "<candidate>_<postingID>_<6 hex>.<ext>".
func ResumeName(candidate string, postingID uint, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s_%d_%s.%s", SafeName(candidate), postingID, suffix, ext)
}

// Local stores files in a single flat directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the upload directory.
func (l *Local) Dir() string { return l.dir }

// Path resolves name inside the upload directory. Directory components are
// dropped, so "../../etc/passwd" resolves to "<dir>/passwd".
func (l *Local) Path(name string) (string, bool) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if base == "/" || base == "." || base == ".." {
		return "", false
	}
	return filepath.Join(l.dir, base), true
}

// Save writes r under name and returns the stored base name.
func (l *Local) Save(name string, r io.Reader) (string, error) {
	path, ok := l.Path(name)
	if !ok {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return filepath.Base(path), nil
}

// Open returns the stored file for reading.
func (l *Local) Open(name string) (*os.File, error) {
	path, ok := l.Path(name)
	if !ok {
		return nil, ErrNotFound
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

// Remove deletes name. Missing files are not an error.
func (l *Local) Remove(name string) error {
	path, ok := l.Path(name)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Count returns the number of regular files stored.
func (l *Local) Count() (int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n, nil
}
