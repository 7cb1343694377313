package products

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/nfnt/resize"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// PlaceholderImage is shown for products without a usable image.
const PlaceholderImage = "https://placehold.co/300x200/e9ecef/6c757d?text=Sin+Imagen"

// Uploads are rejected before decoding when their header declares more pixels
// than this or a side longer than maxImageSide.
const (
	maxImagePixels = 40_000_000
	maxImageSide   = 12_000
)

// ImageURL resolves a stored image reference for display. Absolute URLs are
// kept, server-relative paths are joined to base and anything else yields the
// placeholder.
func ImageURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return strings.TrimRight(base, "/") + ref
	default:
		return PlaceholderImage
	}
}

// downscale shrinks an image wider than maxWidth, keeping its aspect ratio and
// format. Smaller images and formats other than PNG or JPEG pass unchanged.
func downscale(upload *models.ImageUpload, maxWidth uint) (*models.ImageUpload, error) {
	if upload == nil || maxWidth == 0 {
		return upload, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable image %q: %v", models.ErrValidation, upload.Filename, err)
	}
	if cfg.Width > maxImageSide || cfg.Height > maxImageSide || cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%w: image %q is %dx%d, too large", models.ErrValidation, upload.Filename, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable image %q: %v", models.ErrValidation, upload.Filename, err)
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return upload, nil
	}

	resized := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	contentType := upload.ContentType
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
		contentType = "image/png"
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
		contentType = "image/jpeg"
	default:
		return upload, nil
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s image: %w", format, err)
	}

	return &models.ImageUpload{
		Filename:    upload.Filename,
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

func isImageName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
