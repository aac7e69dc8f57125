// Package media stores uploaded post and avatar images on local disk.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ripple/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMaxUploadSizeMB = 10
	MaxImageDimension      = 2048
	JPEGQuality            = 82
	WebPQuality            = 70
)

// ImageStore persists uploaded images and returns publicly servable URLs.
type ImageStore interface {
	Store(filename, contentType string, content []byte) (string, error)
	Remove(url string) error
}

// LocalImageStore writes normalized images under a base directory. Every
// accepted upload is re-encoded, so stored files never contain the original
// bytes.
type LocalImageStore struct {
	baseDir            string
	baseURL            string
	maxUploadSizeBytes int64
}

// NewLocalImageStore returns a store rooted at baseDir, serving files under baseURL.
func NewLocalImageStore(baseDir, baseURL string) *LocalImageStore {
	return &LocalImageStore{
		baseDir:            baseDir,
		baseURL:            strings.TrimRight(baseURL, "/"),
		maxUploadSizeBytes: DefaultMaxUploadSizeMB * 1024 * 1024,
	}
}

// Store validates, normalizes and writes the image, returning its URL.
// The declared content type must agree with the sniffed one when both
// identify an image format.
func (s *LocalImageStore) Store(filename, contentType string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, formatToMime(format)) {
		return "", models.NewValidationError("Image content type mismatch")
	}

	normalized := resizeToFit(decoded, MaxImageDimension, MaxImageDimension)

	var encoded []byte
	name := uuid.NewString()
	if strings.EqualFold(format, "webp") {
		encoded, err = encodeWebP(normalized, WebPQuality)
		name += ".webp"
	} else {
		encoded, err = encodeJPEG(normalized, JPEGQuality)
		name += ".jpg"
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}

	if err := writeBytesToFile(filepath.Join(s.baseDir, name), encoded); err != nil {
		return "", models.NewInternalError(err)
	}
	return s.baseURL + "/" + name, nil
}

// Remove deletes the stored file for a URL previously returned by Store.
// Unknown URLs are ignored.
func (s *LocalImageStore) Remove(url string) error {
	name := strings.TrimPrefix(url, s.baseURL+"/")
	if name == url || name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func formatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
