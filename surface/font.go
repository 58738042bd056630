package surface

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	labelFontSize = 16.0
	gridFontSize  = 12.0
)

var (
	fontOnce sync.Once
	boldFont *truetype.Font
	fontErr  error
)

// newFace returns a bold Go font face of the given size. Faces are not
// safe for concurrent use, so each surface gets its own.
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		boldFont, fontErr = truetype.Parse(gobold.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", fontErr)
	}
	return truetype.NewFace(boldFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
