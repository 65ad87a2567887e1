package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	field, filename string
	body            []byte
}

func newManager(t *testing.T, maxSize int64) *Manager {
	t.Helper()
	logger := zerolog.Nop()
	m, err := NewManager(&config.UploadConfig{Dir: t.TempDir(), MaxFileSize: maxSize}, &logger)
	require.NoError(t, err)
	return m
}

func multipartForm(t *testing.T, parts ...part) *multipart.Form {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		for y := 0; y < h; y += 5 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.Equal(t, status, httpErr.Status)
}

func TestSaveOptimizesLargeImage(t *testing.T) {
	m := newManager(t, 20<<20)
	form := multipartForm(t, part{"banner", "Banner.PNG", pngBytes(t, 3000, 1000)})

	res, err := m.Save(form, Field{Name: "banner", MaxCount: 1})
	require.NoError(t, err)

	url := res.URL("banner")
	assert.True(t, strings.HasPrefix(url, "/uploads/banner-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	img, err := imaging.Open(res["banner"][0].Path)
	require.NoError(t, err)
	assert.Equal(t, 1920, img.Bounds().Dx())
	assert.Equal(t, 640, img.Bounds().Dy())

	temp, err := os.ReadDir(filepath.Join(m.Dir(), "temp"))
	require.NoError(t, err)
	assert.Empty(t, temp)
}

func TestSaveDoesNotEnlargeSmallImage(t *testing.T) {
	m := newManager(t, 5<<20)
	res, err := m.Save(multipartForm(t, part{"image", "a.png", pngBytes(t, 100, 50)}), Field{Name: "image", MaxCount: 1})
	require.NoError(t, err)

	img, err := imaging.Open(res["image"][0].Path)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestSaveMovesPDFUnchanged(t *testing.T) {
	m := newManager(t, 5<<20)
	res, err := m.Save(multipartForm(t, part{"schedulePDF", "plan.pdf", pdfBytes}), Field{Name: "schedulePDF", MaxCount: 1})
	require.NoError(t, err)

	f := res["schedulePDF"][0]
	assert.Equal(t, "application/pdf", f.MIME)
	assert.True(t, strings.HasSuffix(f.URL, ".pdf"))
	assert.False(t, f.IsVideo())

	stored, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)
}

func TestSaveRejectsSpoofedContent(t *testing.T) {
	m := newManager(t, 5<<20)
	_, err := m.Save(multipartForm(t, part{"image", "evil.png", []byte("#!/bin/sh\necho hi\n")}), Field{Name: "image", MaxCount: 1})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSaveRejectsExtension(t *testing.T) {
	m := newManager(t, 5<<20)
	_, err := m.Save(multipartForm(t, part{"image", "doc.exe", pdfBytes}), Field{Name: "image", MaxCount: 1})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSaveRejectsTooLarge(t *testing.T) {
	m := newManager(t, 16)
	_, err := m.Save(multipartForm(t, part{"schedulePDF", "plan.pdf", pdfBytes}), Field{Name: "schedulePDF", MaxCount: 1})
	requireStatus(t, err, http.StatusRequestEntityTooLarge)
}

func TestSaveRejectsUnknownFieldAndTooMany(t *testing.T) {
	m := newManager(t, 5<<20)

	_, err := m.Save(multipartForm(t, part{"other", "a.pdf", pdfBytes}), Field{Name: "image", MaxCount: 1})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = m.Save(multipartForm(t,
		part{"image", "a.pdf", pdfBytes},
		part{"image", "b.pdf", pdfBytes},
	), Field{Name: "image", MaxCount: 1})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSaveDiscardsEarlierFilesOnFailure(t *testing.T) {
	m := newManager(t, 5<<20)
	form := multipartForm(t,
		part{"images", "a.pdf", pdfBytes},
		part{"certificates", "bad.pdf", []byte("plain text")},
	)

	_, err := m.Save(form, Field{Name: "images", MaxCount: 2}, Field{Name: "certificates", MaxCount: 2})
	require.Error(t, err)

	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, e.IsDir(), "unexpected file %s left behind", e.Name())
	}
}

func TestSaveNilForm(t *testing.T) {
	res, err := newManager(t, 1).Save(nil)
	require.NoError(t, err)
	assert.Empty(t, res.All())
}

func TestRemoveIgnoresForeignPaths(t *testing.T) {
	m := newManager(t, 5<<20)
	res, err := m.Save(multipartForm(t, part{"image", "a.pdf", pdfBytes}), Field{Name: "image", MaxCount: 1})
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(m.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.NoError(t, m.Remove(res.URL("image"), "/uploads/../keep.txt", "https://cdn.example.com/a.jpg", "/uploads/missing.jpg"))

	_, err = os.Stat(res["image"][0].Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestSweepTemp(t *testing.T) {
	m := newManager(t, 5<<20)
	oldFile := filepath.Join(m.tempDir, "old")
	newFile := filepath.Join(m.tempDir, "new")
	require.NoError(t, os.WriteFile(oldFile, nil, 0o644))
	require.NoError(t, os.WriteFile(newFile, nil, 0o644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	n, err := m.SweepTemp(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(newFile)
	assert.NoError(t, err)
}

func TestSaveProfilePicture(t *testing.T) {
	m := newManager(t, 5<<20)
	form := multipartForm(t, part{"profilePicture", "me.png", pngBytes(t, 800, 600)})

	url, err := m.SaveProfilePicture(form.File["profilePicture"][0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/profiles/profile-"))

	path, ok := m.pathFor(url)
	require.True(t, ok)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(profileTargetBytes))

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 400), img.Bounds())
}

func TestSaveProfilePictureRejectsPDF(t *testing.T) {
	m := newManager(t, 5<<20)
	form := multipartForm(t, part{"profilePicture", "me.pdf", pdfBytes})

	_, err := m.SaveProfilePicture(form.File["profilePicture"][0])
	requireStatus(t, err, http.StatusBadRequest)
}

func profileHeader(t *testing.T, filename string, body []byte) *multipart.FileHeader {
	t.Helper()
	form := multipartForm(t, part{field: "profilePicture", filename: filename, body: body})
	return form.File["profilePicture"][0]
}

func noisyImage(w, h int) *image.NRGBA {
	r := rand.New(rand.NewPCG(7, 11))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(r.IntN(256))
	}
	return img
}

func TestSaveProfilePictureRejectsWrongType(t *testing.T) {
	m := newManager(t, 1<<20)

	_, err := m.SaveProfilePicture(profileHeader(t, "cv.pdf", pdfBytes))
	requireStatus(t, err, http.StatusBadRequest)

	entries, err := os.ReadDir(filepath.Join(m.Dir(), profileDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveProfilePictureRejectsOversize(t *testing.T) {
	m := newManager(t, 1<<20)

	_, err := m.SaveProfilePicture(profileHeader(t, "huge.png", make([]byte, MaxProfilePictureSize+1)))
	requireStatus(t, err, http.StatusRequestEntityTooLarge)
}

func TestSaveProfilePictureCropsToSquare(t *testing.T) {
	m := newManager(t, 1<<20)

	url, err := m.SaveProfilePicture(profileHeader(t, "wide.png", pngBytes(t, 800, 300)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix+profileDir+"/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	path, ok := m.pathFor(url)
	require.True(t, ok)
	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, profileSize, img.Bounds().Dx())
	assert.Equal(t, profileSize, img.Bounds().Dy())
}

func TestCompressSquareStopsAtTargetOrFloor(t *testing.T) {
	src := noisyImage(1200, 900)

	out, err := compressSquare(src)
	require.NoError(t, err)

	var floor bytes.Buffer
	square := imaging.Fill(src, profileSize, profileSize, imaging.Center, imaging.Lanczos)
	require.NoError(t, imaging.Encode(&floor, square, imaging.JPEG, imaging.JPEGQuality(profileMinQuality)))

	if len(out) > profileTargetBytes {
		assert.Equal(t, floor.Bytes(), out, "over target must mean the quality floor was reached")
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, profileSize, profileSize), img.Bounds())
}

func TestCompressSquareKeepsStartQualityForSmallImages(t *testing.T) {
	flat := imaging.New(640, 480, color.RGBA{R: 10, G: 200, B: 90, A: 255})

	out, err := compressSquare(flat)
	require.NoError(t, err)

	var first bytes.Buffer
	square := imaging.Fill(flat, profileSize, profileSize, imaging.Center, imaging.Lanczos)
	require.NoError(t, imaging.Encode(&first, square, imaging.JPEG, imaging.JPEGQuality(profileStartQuality)))
	assert.Equal(t, first.Bytes(), out)
	assert.LessOrEqual(t, len(out), profileTargetBytes)
}
