package views

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// renderQR converts a string to a compact QR code using Unicode half-block
// characters. Two bitmap rows become one terminal line.
func renderQR(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", err
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString("  ")
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			sb.WriteRune(halfBlock(top, bot))
		}
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}

func halfBlock(top, bot bool) rune {
	switch {
	case top && bot:
		return '█'
	case top:
		return '▀'
	case bot:
		return '▄'
	default:
		return ' '
	}
}
