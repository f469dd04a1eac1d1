package components

import (
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// RenderQRCode renders content as a half-block QR code, two modules per
// terminal row. An empty content renders nothing.
func RenderQRCode(content string) string {
	if content == "" {
		return ""
	}

	var b strings.Builder
	qrterminal.GenerateHalfBlock(content, qrterminal.L, &b)
	return strings.TrimRight(b.String(), "\n")
}
