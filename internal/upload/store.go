package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix the upload directory is served under and the
// leading segment of every stored reference ("uploads/<file>").
const PublicPrefix = "uploads"

var (
	ErrInvalidRef = errors.New("upload: invalid file reference")
	ErrNotImage   = errors.New("upload: file is not a supported image")
)

// maxNameBytes bounds the client part of a stored name so the whole reference
// fits a varchar(255) column.
const maxNameBytes = 200

const sniffLen = 512

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps activity images on the local filesystem.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("upload: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: ensure directory: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes the uploaded file as "<unix-millis>-<short-uuid>-<original name>"
// and returns its reference relative to the public root. Only image files
// (by extension and by content) are accepted; anything else is ErrNotImage.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	clean := cleanName(fh.Filename)
	if !imageExts[strings.ToLower(filepath.Ext(clean))] {
		return "", ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("upload: read: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotImage
	}

	name := fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], clean)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("upload: create: %w", err)
	}

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload: write: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("upload: close: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes the file behind a reference returned by Save.
func (s *Store) Remove(ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// resolve maps "uploads/<name>" to a path inside dir, refusing anything that
// would escape it.
func (s *Store) resolve(ref string) (string, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "\\", "/")
	ref = strings.TrimPrefix(ref, "/")
	rest, ok := strings.CutPrefix(ref, PublicPrefix+"/")
	if !ok {
		return "", ErrInvalidRef
	}
	cleaned := path.Clean(rest)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.dir, cleaned), nil
}

func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '/' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	if len(name) <= maxNameBytes {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	cut := maxNameBytes - len(ext)
	for cut > 0 && !utf8.RuneStart(stem[cut]) {
		cut--
	}
	return stem[:cut] + ext
}
