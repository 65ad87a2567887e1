// Package upload stores files from multipart requests under the upload
// directory and returns the public /uploads URL for each.
//
// Files are staged in <dir>/temp, checked against the allow list by both
// extension and sniffed content type, then either optimized (JPEG/PNG are
// fit inside 1920x1080 and re-encoded as JPEG) or moved into place. When any
// file of a request fails, every file already stored for it is removed.
package upload

import (
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// URLPrefix is where the upload directory is served.
const URLPrefix = "/uploads/"

const (
	maxImageWidth  = 1920
	maxImageHeight = 1080
	jpegQuality    = 85
)

var allowedTypes = regexp.MustCompile(`jpeg|jpg|png|gif|pdf|mp4|webm`)

// ErrFileType is returned for files outside the allow list.
var ErrFileType = errs.NewBadRequestError("Only images, PDFs, and videos are allowed", true, nil, nil, nil)

// Field declares a multipart file field and how many files it accepts.
type Field struct {
	Name     string
	MaxCount int
}

// File is one stored upload.
type File struct {
	Field    string
	Filename string
	URL      string
	Path     string
	MIME     string
	Size     int64
}

func (f File) IsVideo() bool {
	return strings.HasPrefix(f.MIME, "video/")
}

// Result holds the stored files keyed by field name.
type Result map[string][]File

// URL returns the first URL stored for field, or "".
func (r Result) URL(field string) string {
	if files := r[field]; len(files) > 0 {
		return files[0].URL
	}
	return ""
}

// URLs returns every URL stored for field.
func (r Result) URLs(field string) []string {
	urls := make([]string, 0, len(r[field]))
	for _, f := range r[field] {
		urls = append(urls, f.URL)
	}
	return urls
}

// All returns every URL in the result.
func (r Result) All() []string {
	var urls []string
	for field := range r {
		urls = append(urls, r.URLs(field)...)
	}
	return urls
}

// Manager owns the upload directory.
type Manager struct {
	dir         string
	tempDir     string
	maxFileSize int64
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewManager(cfg *config.UploadConfig, logger *zerolog.Logger) (*Manager, error) {
	m := &Manager{
		dir:         cfg.Dir,
		tempDir:     filepath.Join(cfg.Dir, "temp"),
		maxFileSize: cfg.MaxFileSize,
		logger:      logger,
		now:         time.Now,
	}

	for _, dir := range []string{m.dir, m.tempDir, filepath.Join(m.dir, profileDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create upload directory %s", dir)
		}
	}

	return m, nil
}

// Dir is the directory served under URLPrefix.
func (m *Manager) Dir() string {
	return m.dir
}

// Save stores the files of the declared fields. A nil form or a form
// without files yields an empty Result.
func (m *Manager) Save(form *multipart.Form, fields ...Field) (result Result, err error) {
	result = Result{}
	if form == nil || len(form.File) == 0 {
		return result, nil
	}

	limits := make(map[string]int, len(fields))
	for _, f := range fields {
		limits[f.Name] = f.MaxCount
	}

	for name, headers := range form.File {
		limit, ok := limits[name]
		if !ok {
			return nil, errs.NewBadRequestError(fmt.Sprintf("Unexpected file field %s", name), true, nil, nil, nil)
		}
		if len(headers) > limit {
			return nil, errs.NewBadRequestError(fmt.Sprintf("Too many files for %s, at most %d allowed", name, limit), true, nil, nil, nil)
		}
	}

	defer func() {
		if err != nil {
			m.Discard(result)
			result = nil
		}
	}()

	for _, f := range fields {
		for _, fh := range form.File[f.Name] {
			stored, err := m.saveOne(f.Name, fh)
			if err != nil {
				return result, err
			}
			result[f.Name] = append(result[f.Name], *stored)
		}
	}

	return result, nil
}

func (m *Manager) saveOne(field string, fh *multipart.FileHeader) (*File, error) {
	if fh.Size > m.maxFileSize {
		return nil, errs.NewRequestEntityTooLargeError("File too large")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedTypes.MatchString(strings.TrimPrefix(ext, ".")) {
		return nil, ErrFileType
	}

	base := m.filename(field)
	tempPath := filepath.Join(m.tempDir, base+ext)

	size, err := stage(fh, tempPath, m.maxFileSize)
	if err != nil {
		return nil, err
	}

	mt, err := mimetype.DetectFile(tempPath)
	if err != nil {
		os.Remove(tempPath)
		return nil, errors.Wrap(err, "failed to detect upload type")
	}
	if !allowedTypes.MatchString(mt.String()) {
		os.Remove(tempPath)
		return nil, ErrFileType
	}

	var name string
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/png"):
		name = base + ".jpg"
		err = optimizeImage(tempPath, filepath.Join(m.dir, name))
		os.Remove(tempPath)
	default:
		name = base + ext
		err = os.Rename(tempPath, filepath.Join(m.dir, name))
		if err != nil {
			os.Remove(tempPath)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store upload %s", fh.Filename)
	}

	m.logger.Debug().
		Str("field", field).
		Str("file", name).
		Str("mime", mt.String()).
		Int64("size", size).
		Msg("stored upload")

	return &File{
		Field:    field,
		Filename: name,
		URL:      URLPrefix + name,
		Path:     filepath.Join(m.dir, name),
		MIME:     mt.String(),
		Size:     size,
	}, nil
}

// stage copies the upload into dst, refusing more than limit bytes even if
// the header under-reports the size.
func stage(fh *multipart.FileHeader, dst string, limit int64) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, errors.Wrap(err, "failed to open upload")
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create staging file")
	}

	n, err := io.Copy(out, io.LimitReader(src, limit+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return 0, errors.Wrap(err, "failed to stage upload")
	}
	if n > limit {
		os.Remove(dst)
		return 0, errs.NewRequestEntityTooLargeError("File too large")
	}

	return n, nil
}

func optimizeImage(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return errors.Wrap(err, "failed to decode image")
	}

	img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)

	if err := imaging.Save(img, dst, imaging.JPEGQuality(jpegQuality)); err != nil {
		return errors.Wrap(err, "failed to encode image")
	}
	return nil
}

// filename returns "<field>-<unixMillis>-<random>" without extension.
func (m *Manager) filename(field string) string {
	return fmt.Sprintf("%s-%d-%d", field, m.now().UnixMilli(), randSuffix())
}

func randSuffix() int64 {
	return rand.Int64N(1e9)
}

// Discard removes every file in r. It is used when the request that
// uploaded them fails.
func (m *Manager) Discard(r Result) {
	for _, files := range r {
		for _, f := range files {
			if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
				m.logger.Warn().Err(err).Str("file", f.Path).Msg("failed to discard upload")
			}
		}
	}
}

// Remove deletes the files behind the given /uploads URLs. URLs outside
// the upload directory are ignored. It returns the first error seen.
func (m *Manager) Remove(urls ...string) error {
	var firstErr error
	for _, url := range urls {
		path, ok := m.pathFor(url)
		if !ok {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to remove %s", url)
		}
	}
	return firstErr
}

func (m *Manager) pathFor(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(url, URLPrefix)))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", false
	}

	return filepath.Join(m.dir, rel), true
}

// SweepTemp deletes staging files older than maxAge and returns how many
// were removed.
func (m *Manager) SweepTemp(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.tempDir)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read temp upload directory")
	}

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.tempDir, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}
