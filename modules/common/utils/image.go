package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG 디코더 등록
	_ "image/png"  // PNG 디코더 등록

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog"
)

// DefaultWebPQuality is used for download transcoding.
const DefaultWebPQuality float32 = 90

// ConvertToWebP - PNG/JPEG 바이너리를 WebP로 변환
func ConvertToWebP(data []byte, quality float32, logger zerolog.Logger) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// WebP 인코딩
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	logger.Info().
		Str("source_format", format).
		Int("source_bytes", len(data)).
		Int("webp_bytes", len(webpData)).
		Msg("✅ Image converted to WebP")

	return webpData, nil
}
