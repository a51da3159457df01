package generator

import (
	"fmt"
	"image"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize renders 10 pixels per QR module. Negative sizes are passed to
// go-qrcode as a per-module scale; positive sizes are the image side length.
const DefaultSize = -10

// ParseRecovery maps a recovery level name to its go-qrcode constant.
func ParseRecovery(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "low", "l":
		return qrcode.Low, nil
	case "", "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown recovery level %q", name)
	}
}

// Encode renders text as a black-on-white QR code image.
func Encode(text string, level qrcode.RecoveryLevel, size int) (image.Image, error) {
	q, err := qrcode.New(text, level)
	if err != nil {
		return nil, fmt.Errorf("encode QR code: %w", err)
	}
	return q.Image(size), nil
}
