// Package sprite builds the images and fonts used by the desktop renderer. Block sprites are white
// masks; the renderer tints them per piece with ColorScale.
package sprite

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Size is the edge length in pixels of every block sprite.
const Size = 32

var (
	// Face is the flat centre of a block.
	Face *ebiten.Image
	// Highlight is the top and left bevel.
	Highlight *ebiten.Image
	// Shadow is the bottom and right bevel.
	Shadow *ebiten.Image
	// Ghost is the outline drawn where a hard drop would land.
	Ghost *ebiten.Image
)

var spriteMap = map[string]struct {
	img **ebiten.Image
	gen func(size int) *image.NRGBA
}{
	"face":      {&Face, face},
	"highlight": {&Highlight, highlight},
	"shadow":    {&Shadow, shadow},
	"ghost":     {&Ghost, ghost},
}

// Load generates the sprites and parses the fonts. Call it once before the game starts.
func Load() error {
	for name, s := range spriteMap {
		m := s.gen(Size)
		if m.Bounds().Empty() {
			return fmt.Errorf("generating %s: empty image", name)
		}
		*s.img = ebiten.NewImageFromImage(m)
	}
	if err := loadFonts(); err != nil {
		return err
	}
	return nil
}

type region int

const (
	regionFace region = iota
	regionHighlight
	regionShadow
)

// bevel returns the width of the bevelled edge for a block of the given size.
func bevel(size int) int {
	return max(1, size/8)
}

// regionAt classifies a pixel of a size x size block. The top and left strips are highlight, the
// bottom and right strips are shadow, and the diagonal splits the two corners they share.
func regionAt(x, y, size int) region {
	b := bevel(size)
	switch {
	case y < b && x < size-1-y, x < b && y < size-1-x:
		return regionHighlight
	case y >= size-b, x >= size-b:
		return regionShadow
	}
	return regionFace
}

func mask(size int, want region) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if regionAt(x, y, size) == want {
				m.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return m
}

func face(size int) *image.NRGBA      { return mask(size, regionFace) }
func highlight(size int) *image.NRGBA { return mask(size, regionHighlight) }
func shadow(size int) *image.NRGBA    { return mask(size, regionShadow) }

// ghost is a solid border over a faint fill.
func ghost(size int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	w := max(1, size/16)
	for y := range size {
		for x := range size {
			a := uint8(48)
			if x < w || y < w || x >= size-w || y >= size-w {
				a = 255
			}
			m.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: a})
		}
	}
	return m
}
