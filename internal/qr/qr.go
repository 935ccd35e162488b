// Package qr renders the public display URL as a QR code image so operators
// can print or show a scan-to-open link.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// DisplayURL builds the public display URL for a slug.
func DisplayURL(baseURL, slug string) string {
	return strings.TrimSuffix(baseURL, "/") + "/display/" + slug
}

// PNG encodes the display URL for a slug as a PNG QR code. High recovery
// level, since these codes end up on printed table cards.
func PNG(baseURL, slug string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	png, err := qrcode.Encode(DisplayURL(baseURL, slug), qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
