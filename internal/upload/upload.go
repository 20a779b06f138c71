// Package upload stores user-submitted files (gallery images and admission
// form documents) on local disk under the data directory and maps them to
// stable public URL paths served by the HTTP layer.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// ImagePrefix is the public URL prefix for stored gallery images.
	ImagePrefix = "/uploads/"
	// FormPrefix is the public URL prefix for stored admission forms.
	FormPrefix = "/uploads/admission-forms/"

	formsSubdir = "admission-forms"
	maxBaseName = 120
)

var unsafeChars = regexp.MustCompile(`[^\w.\-() ]+`)

// Store writes uploaded files beneath a single root directory and hands out
// the public URL paths they are reachable at.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the filesystem directory backing the store, for static serving.
func (s *Store) Root() string {
	return s.root
}

// SaveImage stores a gallery image under a collision-free generated name and
// returns its public URL path.
func (s *Store) SaveImage(src io.Reader, originalName string) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), strings.ToLower(filepath.Ext(originalName)))

	if err := s.write(s.root, name, src); err != nil {
		return "", err
	}
	return ImagePrefix + name, nil
}

// SaveForm stores an admission form document, keeping a sanitized version of
// the original base name, and returns its public URL path.
func (s *Store) SaveForm(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := sanitizeFileName(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "admission-form"
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), base, ext)

	if err := s.write(filepath.Join(s.root, formsSubdir), name, src); err != nil {
		return "", err
	}
	return FormPrefix + name, nil
}

// Delete removes the file behind a public URL path. Unknown prefixes are
// rejected; a file that is already gone is not an error.
func (s *Store) Delete(publicPath string) error {
	abs, err := s.resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a public URL path back to an absolute file path, refusing
// anything outside the store root.
func (s *Store) resolve(publicPath string) (string, error) {
	normalized := strings.ReplaceAll(publicPath, "\\", "/")
	var dir, rest string
	switch {
	case strings.HasPrefix(normalized, FormPrefix):
		dir, rest = filepath.Join(s.root, formsSubdir), strings.TrimPrefix(normalized, FormPrefix)
	case strings.HasPrefix(normalized, ImagePrefix):
		dir, rest = s.root, strings.TrimPrefix(normalized, ImagePrefix)
	default:
		return "", fmt.Errorf("path %q is not inside the upload store", publicPath)
	}

	name := path.Base(rest)
	if name == "" || name == "." || name == ".." || name != rest {
		return "", fmt.Errorf("invalid upload path %q", publicPath)
	}
	return filepath.Join(dir, name), nil
}

func (s *Store) write(dir, name string, src io.Reader) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}

func sanitizeFileName(name string) string {
	clean := strings.TrimSpace(unsafeChars.ReplaceAllString(name, ""))
	if len(clean) > maxBaseName {
		clean = clean[:maxBaseName]
	}
	return clean
}
