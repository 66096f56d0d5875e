// Package assets turns the source logo into every icon and banner the app
// stores need: favicons, PWA and native icon sets, and social images.
package assets

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// AlphaThreshold is the minimum alpha for a pixel to count as part of the
// logo when computing its bounding box.
const AlphaThreshold = 10

// Spec is one output image.
type Spec struct {
	Name    string
	Width   int
	Height  int
	Padding float64 // fraction of the shorter edge left clear around the logo
	BG      Background
}

// Background fills the canvas behind the logo.
type Background struct {
	Top    color.NRGBA
	Bottom color.NRGBA // equal to Top for a solid fill
}

var (
	brandPurple = color.NRGBA{R: 0x6d, G: 0x28, B: 0xd9, A: 0xff}
	brandDark   = color.NRGBA{R: 0x1e, G: 0x1b, B: 0x4b, A: 0xff}
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func solid(c color.NRGBA) Background { return Background{Top: c, Bottom: c} }

func gradient(t, b color.NRGBA) Background { return Background{Top: t, Bottom: b} }

// Catalog is the fixed platform size table.
var Catalog = []Spec{
	{"favicon-16.png", 16, 16, 0.05, solid(white)},
	{"favicon-32.png", 32, 32, 0.05, solid(white)},
	{"favicon-48.png", 48, 48, 0.05, solid(white)},
	{"pwa-192.png", 192, 192, 0.1, solid(white)},
	{"pwa-512.png", 512, 512, 0.1, solid(white)},
	{"ios-120.png", 120, 120, 0.12, gradient(brandPurple, brandDark)},
	{"ios-152.png", 152, 152, 0.12, gradient(brandPurple, brandDark)},
	{"ios-167.png", 167, 167, 0.12, gradient(brandPurple, brandDark)},
	{"ios-180.png", 180, 180, 0.12, gradient(brandPurple, brandDark)},
	{"ios-1024.png", 1024, 1024, 0.12, gradient(brandPurple, brandDark)},
	{"android-48.png", 48, 48, 0.1, solid(white)},
	{"android-72.png", 72, 72, 0.1, solid(white)},
	{"android-96.png", 96, 96, 0.1, solid(white)},
	{"android-144.png", 144, 144, 0.1, solid(white)},
	{"android-192.png", 192, 192, 0.1, solid(white)},
	{"android-512.png", 512, 512, 0.1, solid(white)},
	{"social-profile-400.png", 400, 400, 0.15, gradient(brandPurple, brandDark)},
	{"social-banner-1500x500.png", 1500, 500, 0.2, gradient(brandPurple, brandDark)},
	{"splash-1080x1920.png", 1080, 1920, 0.3, gradient(brandPurple, brandDark)},
}

// BoundingBox scans the image and returns the tight rectangle of pixels
// whose alpha exceeds the threshold. A fully transparent image returns the
// zero rectangle.
func BoundingBox(img image.Image, threshold uint8) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if uint8(a>>8) > threshold {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// IsWide reports whether a cropped logo is a wordmark: wider than 1.5x its
// height, where the left square holds the glyph.
func IsWide(r image.Rectangle) bool {
	return r.Dy() > 0 && r.Dx() > r.Dy()*3/2
}

// LeftSquare returns the left square portion of a wide bounding box.
func LeftSquare(r image.Rectangle) image.Rectangle {
	side := r.Dy()
	return image.Rect(r.Min.X, r.Min.Y, r.Min.X+side, r.Min.Y+side)
}

// CropLogo tightens the source to its visible pixels and, for wordmark
// inputs, keeps only the left glyph square.
func CropLogo(src image.Image) image.Image {
	box := BoundingBox(src, AlphaThreshold)
	if box.Empty() {
		return src
	}
	if IsWide(box) {
		box = LeftSquare(box)
	}
	return imaging.Crop(src, box)
}

// RenderBackground fills a canvas with a solid color or vertical gradient.
func RenderBackground(width, height int, bg Background) *image.NRGBA {
	canvas := imaging.New(width, height, bg.Top)
	if bg.Top == bg.Bottom {
		return canvas
	}
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		c := lerpColor(bg.Top, bg.Bottom, t)
		for x := 0; x < width; x++ {
			canvas.SetNRGBA(x, y, c)
		}
	}
	return canvas
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: 0xff,
	}
}

// Compose scales the cropped logo into the spec's canvas, centered, with the
// spec's padding on the shorter edge.
func Compose(logo image.Image, spec Spec) *image.NRGBA {
	canvas := RenderBackground(spec.Width, spec.Height, spec.BG)

	shorter := spec.Width
	if spec.Height < shorter {
		shorter = spec.Height
	}
	inset := int(float64(shorter) * spec.Padding)
	maxW := spec.Width - 2*inset
	maxH := spec.Height - 2*inset

	fitted := imaging.Fit(logo, maxW, maxH, imaging.Lanczos)
	return imaging.PasteCenter(canvas, fitted)
}
