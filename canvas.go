package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// maxCachedCells bounds the style cache; antialiased edges keep producing
// new color pairs.
const maxCachedCells = 4096

// Canvas turns surface frames into terminal lines. Every cell shows
// cellW×cellH pixels as an upper half block: the foreground is the average
// of the top half and the background the average of the bottom half.
type Canvas struct {
	cellW, cellH int
	cells        map[[2]color.RGBA]string
}

func NewCanvas(cellW, cellH int) *Canvas {
	return &Canvas{
		cellW: max(cellW, 1),
		cellH: max(cellH, 2),
		cells: make(map[[2]color.RGBA]string),
	}
}

// Size returns the number of cells needed to show a w×h pixel frame.
func (c *Canvas) Size(w, h int) (cols, rows int) {
	return (w + c.cellW - 1) / c.cellW, (h + c.cellH - 1) / c.cellH
}

// CellCenter returns the pixel at the center of cell (col, row).
func (c *Canvas) CellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * float64(c.cellW), (float64(row) + 0.5) * float64(c.cellH)
}

// Render converts img into one string per terminal row.
func (c *Canvas) Render(img image.Image) []string {
	b := img.Bounds()
	cols, rows := c.Size(b.Dx(), b.Dy())
	half := c.cellH / 2
	lines := make([]string, rows)
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		sb.Reset()
		y0 := b.Min.Y + row*c.cellH
		for col := 0; col < cols; col++ {
			x0 := b.Min.X + col*c.cellW
			top := average(img, image.Rect(x0, y0, x0+c.cellW, y0+half))
			bottom := average(img, image.Rect(x0, y0+half, x0+c.cellW, y0+c.cellH))
			sb.WriteString(c.cell(top, bottom))
		}
		lines[row] = sb.String()
	}
	return lines
}

func (c *Canvas) cell(top, bottom color.RGBA) string {
	key := [2]color.RGBA{top, bottom}
	if s, ok := c.cells[key]; ok {
		return s
	}
	if len(c.cells) >= maxCachedCells {
		clear(c.cells)
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor(top))).
		Background(lipgloss.Color(hexColor(bottom))).
		Render(halfBlock)
	c.cells[key] = s
	return s
}

// average returns the mean color of r clipped to img, composited on white.
// Empty areas are white.
func average(img image.Image, r image.Rectangle) color.RGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	var sr, sg, sb, n uint64
	if rgba, ok := img.(*image.RGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := rgba.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x++ {
				a := uint64(rgba.Pix[i+3])
				sr += uint64(rgba.Pix[i]) + 0xff - a
				sg += uint64(rgba.Pix[i+1]) + 0xff - a
				sb += uint64(rgba.Pix[i+2]) + 0xff - a
				n++
				i += 4
			}
		}
	} else {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				cr, cg, cb, ca := img.At(x, y).RGBA()
				a := uint64(ca >> 8)
				sr += uint64(cr>>8) + 0xff - a
				sg += uint64(cg>>8) + 0xff - a
				sb += uint64(cb>>8) + 0xff - a
				n++
			}
		}
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xff}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
