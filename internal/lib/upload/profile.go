package upload

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// MaxProfilePictureSize is the largest profile picture accepted before
// compression.
const MaxProfilePictureSize = 10 * 1024 * 1024

const (
	profileDir          = "profiles"
	profileSize         = 400
	profileTargetBytes  = 200 * 1024
	profileStartQuality = 80
	profileMinQuality   = 20
	profileQualityStep  = 10
)

var profileTypes = []string{"image/jpeg", "image/png", "image/webp"}

// SaveProfilePicture crops the image to a centered square, shrinks it to
// 400x400 and re-encodes it as JPEG, lowering quality until the file is at
// most 200 KB or the quality floor is reached.
func (m *Manager) SaveProfilePicture(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxProfilePictureSize {
		return "", errs.NewRequestEntityTooLargeError("File too large")
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "failed to open upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxProfilePictureSize+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}
	if len(data) > MaxProfilePictureSize {
		return "", errs.NewRequestEntityTooLargeError("File too large")
	}

	if !mimetype.EqualsAny(mimetype.Detect(data).String(), profileTypes...) {
		return "", errs.NewBadRequestError("Only JPEG, PNG and WebP images are allowed", true, nil, nil, nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errs.NewBadRequestError("Could not read image", true, nil, nil, nil)
	}

	encoded, err := compressSquare(img)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("profile-%d-%d.jpg", m.now().UnixMilli(), randSuffix())
	path := filepath.Join(m.dir, profileDir, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write profile picture")
	}

	return URLPrefix + profileDir + "/" + name, nil
}

func compressSquare(img image.Image) ([]byte, error) {
	square := imaging.Fill(img, profileSize, profileSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	for quality := profileStartQuality; ; quality -= profileQualityStep {
		buf.Reset()
		if err := imaging.Encode(&buf, square, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, errors.Wrap(err, "failed to encode profile picture")
		}
		if buf.Len() <= profileTargetBytes || quality-profileQualityStep < profileMinQuality {
			return buf.Bytes(), nil
		}
	}
}
