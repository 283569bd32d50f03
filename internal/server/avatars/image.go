package avatars

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"golang.org/x/image/draw"
)

const (
	// FormField is the multipart field carrying the upload.
	FormField = "uploadAvatar"
	// MaxUploadSize bounds the raw upload in bytes.
	MaxUploadSize = 1 << 20
	// Size is the edge of the stored square image in pixels.
	Size = 250
	// ContentType of every stored avatar.
	ContentType = "image/png"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// CheckUpload accepts png, jpg and jpeg files of at most MaxUploadSize bytes.
func CheckUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return common.NewValidationError("avatar", "please upload an image (png, jpg, jpeg)")
	}
	if size > MaxUploadSize {
		return common.NewValidationError("avatar", fmt.Sprintf("file must not exceed %d bytes", MaxUploadSize))
	}
	return nil
}

// Normalize decodes a png or jpeg image, scales it to Size×Size and
// re-encodes it as PNG.
func Normalize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, common.NewValidationError("avatar", "unsupported image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
