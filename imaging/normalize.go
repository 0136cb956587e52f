// Package imaging re-encodes images for storage without losing visual
// quality. Normalization must never fail an upload: every error path
// degrades to the original bytes.
package imaging

import (
	"bytes"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

// Inputs that are already lossless and under this size pass through
// untouched.
const passthroughLimit = 5 * 1024 * 1024

// Normalized output smaller than this fraction of the input is treated as
// suspect recompression and discarded in favor of the original.
const minSizeRatio = 0.8

// Result is the outcome of a normalization attempt.
type Result struct {
	Data        []byte
	ContentType string
	Reencoded   bool
}

// Normalize re-encodes an image for storage. PNG inputs under the
// passthrough limit are returned unchanged; lossy inputs are decoded and
// re-encoded to PNG at full fidelity, preserving exact pixel dimensions.
// Decode or encode failures return the original bytes unchanged.
func Normalize(data []byte, contentType string) Result {
	original := Result{Data: data, ContentType: contentType}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Msg("image decode failed, keeping original bytes")
		return original
	}

	if format == "png" && len(data) < passthroughLimit {
		original.ContentType = "image/png"
		return original
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Warn().Err(err).Str("format", format).Msg("image re-encode failed, keeping original bytes")
		return original
	}

	return Result{Data: buf.Bytes(), ContentType: "image/png", Reencoded: true}
}

// UseNormalized reports whether a normalized output should replace the
// original upload. Output shrinking below the size floor suggests quality
// was silently destroyed, so the original wins.
func UseNormalized(original, normalized []byte) bool {
	return float64(len(normalized)) >= float64(len(original))*minSizeRatio
}
