package cards

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMaxLogoSize is the logo limit used when the caller passes none (2MB).
const DefaultMaxLogoSize = 2 * 1024 * 1024

// ErrInvalidLogo is returned when uploaded logo bytes are not a usable image.
var ErrInvalidLogo = errors.New("invalid logo image")

// ErrLogoTooLarge is returned when the logo exceeds the size limit.
var ErrLogoTooLarge = errors.New("logo too large")

var logoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// LogoDataURL validates an uploaded logo and returns it as a data: URL so it
// can be embedded directly in the printed sheet. maxSize <= 0 means
// DefaultMaxLogoSize.
func LogoDataURL(data []byte, maxSize int64) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxLogoSize
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no image data", ErrInvalidLogo)
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrLogoTooLarge, len(data), maxSize)
	}

	mt := mimetype.Detect(data)
	if !logoTypes[mt.String()] {
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidLogo, mt.String())
	}

	// Header check only; the browser does the full decode.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}

	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
