package raster

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/lectern/model"
)

// BaseDPI is the resolution at which document units map 1:1 to pixels.
const BaseDPI = 72

// Page layout constants in document units (points). The glyph metrics
// match basicfont.Face7x13.
const (
	pageMargin  = 54
	lineHeight  = 16
	glyphWidth  = 7
	glyphAscent = 11
)

// DefaultPageSize is US Letter in points, used when a provider cannot
// report a real page size.
var DefaultPageSize = model.Size{Width: 612, Height: 792}

var (
	pageBackground = color.White
	pageBorder     = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
)

// MaxLineChars returns how many fixed-width glyphs fit on one line of a
// page of the given size.
func MaxLineChars(size model.Size) int {
	if !size.IsValid() {
		size = DefaultPageSize
	}

	chars := int((size.Width - 2*pageMargin) / glyphWidth)
	if chars < 1 {
		chars = 1
	}
	return chars
}

// LinesPerPage returns how many text lines fit on one page of the given
// size.
func LinesPerPage(size model.Size) int {
	if !size.IsValid() {
		size = DefaultPageSize
	}

	lines := int((size.Height - 2*pageMargin) / lineHeight)
	if lines < 1 {
		lines = 1
	}
	return lines
}

// WrapText breaks text into lines of at most maxChars characters, wrapping
// greedily on word boundaries. Existing newlines are preserved as line
// breaks; blank lines survive as empty entries. Words longer than a line
// are hard-split.
func WrapText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimRight(paragraph, " \t")
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range strings.Fields(paragraph) {
			// Hard-split words that cannot fit on any line.
			for len(word) > maxChars {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}

			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxChars:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}

	return lines
}

// Paginate wraps text to the page width and splits the wrapped lines into
// pages of the page height. Empty text produces a single empty page.
func Paginate(text string, size model.Size) [][]string {
	wrapped := WrapText(text, MaxLineChars(size))
	perPage := LinesPerPage(size)

	if len(wrapped) == 0 {
		return [][]string{nil}
	}

	var pages [][]string
	for start := 0; start < len(wrapped); start += perPage {
		end := start + perPage
		if end > len(wrapped) {
			end = len(wrapped)
		}
		pages = append(pages, wrapped[start:end])
	}
	return pages
}

// RenderPage draws text lines onto a white page of the given size and
// scales the result to the requested resolution. Lines beyond the bottom
// margin are clipped.
func RenderPage(lines []string, size model.Size, dpi int) *image.RGBA {
	if !size.IsValid() {
		size = DefaultPageSize
	}
	if dpi <= 0 {
		dpi = BaseDPI
	}

	baseW := int(size.Width)
	baseH := int(size.Height)
	page := image.NewRGBA(image.Rect(0, 0, baseW, baseH))

	draw.Draw(page, page.Bounds(), image.NewUniform(pageBackground), image.Point{}, draw.Src)
	drawBorder(page)

	drawer := font.Drawer{
		Dst:  page,
		Src:  image.Black,
		Face: basicfont.Face7x13,
	}

	y := pageMargin + glyphAscent
	for _, line := range lines {
		if y > baseH-pageMargin {
			break
		}
		if line != "" {
			drawer.Dot = fixed.P(pageMargin, y)
			drawer.DrawString(line)
		}
		y += lineHeight
	}

	if dpi == BaseDPI {
		return page
	}
	return Scale(page, baseW*dpi/BaseDPI, baseH*dpi/BaseDPI)
}

// Scale resamples an image to the given pixel dimensions, using CatmullRom
// when enlarging and the cheaper ApproxBiLinear when shrinking.
func Scale(img image.Image, width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := img.Bounds()

	if width >= src.Dx() {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}
	return dst
}

func drawBorder(page *image.RGBA) {
	b := page.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		page.Set(x, b.Min.Y, pageBorder)
		page.Set(x, b.Max.Y-1, pageBorder)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		page.Set(b.Min.X, y, pageBorder)
		page.Set(b.Max.X-1, y, pageBorder)
	}
}
