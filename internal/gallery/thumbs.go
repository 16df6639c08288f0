package gallery

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nmurali/pixvault/internal/errs"

	// Decoders for the recognized extension set. jpeg is imported above
	// for encoding and registers its decoder as a side effect.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"
)

// Variant selects a thumbnail size/quality profile.
type Variant string

const (
	// VariantPreview is the small grid thumbnail.
	VariantPreview Variant = "preview"
	// VariantFullscreen is the large single-image view.
	VariantFullscreen Variant = "fullscreen"
)

// ParseVariant validates a variant name from the presentation layer.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantPreview, VariantFullscreen:
		return Variant(s), nil
	default:
		return "", errs.New(errs.ErrKindInvalidInput, "unknown thumbnail variant: "+s)
	}
}

// JPEG re-encode quality per variant; the fullscreen view keeps more detail.
const (
	previewQuality    = 85
	fullscreenQuality = 95
)

// Thumbnail returns the JPEG-encoded thumbnail for (bucket, key, variant),
// generating and caching it when absent or expired. Generation is
// deterministic for fixed input bytes and variant.
//
// Failures return ErrKindDecode (unprocessable bytes) or a gateway error
// kind; the caller must render a placeholder rather than propagate — one
// corrupt object must never abort the rest of the page.
func (s *Service) Thumbnail(ctx context.Context, bucket, key string, variant Variant) ([]byte, error) {
	return s.thumbs.do(cacheKey(bucket, key, string(variant)), func() ([]byte, error) {
		raw, err := s.fetch(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return s.render(raw, variant)
	})
}

// DataURI returns the text-safe embedding form of JPEG thumbnail bytes.
func DataURI(jpegBytes []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}

// fetch reads the full object and rejects empty payloads.
func (s *Service) fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	rc, err := s.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindTransport, "failed to read object body", err)
	}
	if len(raw) == 0 {
		return nil, errs.New(errs.ErrKindDecode, "empty object: "+key)
	}
	return raw, nil
}

// render decodes, bounds, and re-encodes raw image bytes for the variant.
func (s *Service) render(raw []byte, variant Variant) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindDecode, "cannot decode image", err)
	}

	bound := s.cfg.PreviewBound
	quality := previewQuality
	if variant == VariantFullscreen {
		bound = s.cfg.FullscreenBound
		quality = fullscreenQuality
	}

	// Fit resizes preserving aspect ratio so neither dimension exceeds
	// the bound, without upscaling smaller sources. It also normalizes
	// indexed-palette and alpha sources to NRGBA, which the JPEG encoder
	// flattens to RGB.
	thumb := imaging.Fit(img, bound, bound, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errs.Wrap(errs.ErrKindDecode, "cannot encode thumbnail", err)
	}
	return buf.Bytes(), nil
}
