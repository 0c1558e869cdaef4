// Package media converts images between files, inline payloads and the
// data URLs the app displays and stores on challenges and chat messages.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/abhisek/skillforge/internal/llm"
)

var (
	// ErrNoImage is returned when no image was provided.
	ErrNoImage = errors.New("no image selected")

	// ErrUnsupportedImage is returned for files that are not a supported image format.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// supported lists the image types every backend accepts as inline input.
var supported = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

// placeholderBase renders a square, text-labeled stand-in image.
const placeholderBase = "https://placehold.co/1024x1024/1e1e2e/cdd6f4/png"

// Image is an inline image payload with its MIME type.
type Image struct {
	MIMEType string
	Data     []byte
}

// Load reads an image file from disk. The MIME type is sniffed from the
// content, not the file extension.
func Load(path string) (Image, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Image{}, ErrNoImage
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return FromBytes(data)
}

// FromBytes wraps raw image bytes, detecting the MIME type.
func FromBytes(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}

	mtype := mimetype.Detect(data).String()
	if !supported[mtype] {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mtype)
	}
	return Image{MIMEType: mtype, Data: data}, nil
}

// FromLLM converts a backend image part. Parts without a MIME type are sniffed.
func FromLLM(img llm.Image) Image {
	mtype := img.MIMEType
	if mtype == "" {
		mtype = mimetype.Detect(img.Data).String()
	}
	return Image{MIMEType: mtype, Data: img.Data}
}

// LLM returns the image as a backend content part.
func (i Image) LLM() llm.Image {
	return llm.Image{MIMEType: i.MIMEType, Data: i.Data}
}

// IsZero reports whether the image carries no data.
func (i Image) IsZero() bool {
	return len(i.Data) == 0
}

// DataURL encodes the image as a base64 data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// WriteFile saves the raw image bytes to path.
func (i Image) WriteFile(path string) error {
	if i.IsZero() {
		return ErrNoImage
	}
	return os.WriteFile(path, i.Data, 0o644)
}

// IsDataURL reports whether s is an embedded image payload rather than a
// remote reference.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// ParseDataURL decodes a base64 image data URL.
func ParseDataURL(s string) (Image, bool) {
	if !IsDataURL(s) {
		return Image{}, false
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return Image{}, false
	}
	mtype, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 || mtype == "" {
		return Image{}, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return Image{}, false
	}
	return Image{MIMEType: mtype, Data: data}, true
}

// PlaceholderURL returns a remote placeholder image labeled with text.
func PlaceholderURL(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return placeholderBase
	}
	return placeholderBase + "?text=" + url.QueryEscape(label)
}
