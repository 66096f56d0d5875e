package assets

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// logoAt paints an opaque rectangle onto a transparent canvas.
func logoAt(canvasW, canvasH int, box image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x6d, G: 0x28, B: 0xd9, A: 0xff})
		}
	}
	return img
}

func TestBoundingBox(t *testing.T) {
	img := logoAt(100, 100, image.Rect(20, 30, 60, 70))
	assert.Equal(t, image.Rect(20, 30, 60, 70), BoundingBox(img, AlphaThreshold))
}

func TestBoundingBoxIgnoresFaintPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.SetNRGBA(1, 1, color.NRGBA{A: 5})  // below threshold
	img.SetNRGBA(4, 4, color.NRGBA{A: 200})
	assert.Equal(t, image.Rect(4, 4, 5, 5), BoundingBox(img, AlphaThreshold))
}

func TestBoundingBoxEmptyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.True(t, BoundingBox(img, AlphaThreshold).Empty())
}

func TestIsWide(t *testing.T) {
	assert.True(t, IsWide(image.Rect(0, 0, 300, 100)), "wordmark")
	assert.False(t, IsWide(image.Rect(0, 0, 100, 100)), "square glyph")
	assert.False(t, IsWide(image.Rect(0, 0, 140, 100)), "slightly wide still kept whole")
}

func TestLeftSquare(t *testing.T) {
	assert.Equal(t, image.Rect(10, 20, 110, 120), LeftSquare(image.Rect(10, 20, 400, 120)))
}

func TestCropLogoKeepsGlyphOfWordmark(t *testing.T) {
	// Opaque band 300 wide, 100 tall: a wordmark. Only its left square survives.
	img := logoAt(400, 200, image.Rect(50, 50, 350, 150))
	cropped := CropLogo(img)
	assert.Equal(t, 100, cropped.Bounds().Dx())
	assert.Equal(t, 100, cropped.Bounds().Dy())
}

func TestRenderBackgroundSolid(t *testing.T) {
	bg := RenderBackground(8, 8, solid(white))
	assert.Equal(t, white, bg.NRGBAAt(0, 0))
	assert.Equal(t, white, bg.NRGBAAt(7, 7))
}

func TestRenderBackgroundGradient(t *testing.T) {
	bg := RenderBackground(4, 64, gradient(brandPurple, brandDark))
	assert.Equal(t, brandPurple, bg.NRGBAAt(0, 0))
	assert.Equal(t, brandDark, bg.NRGBAAt(0, 63))

	mid := bg.NRGBAAt(0, 32)
	assert.NotEqual(t, brandPurple, mid)
	assert.NotEqual(t, brandDark, mid)
}

func TestComposeOutputDimensions(t *testing.T) {
	logo := logoAt(100, 100, image.Rect(0, 0, 100, 100))
	for _, spec := range Catalog {
		out := Compose(logo, spec)
		assert.Equal(t, spec.Width, out.Bounds().Dx(), spec.Name)
		assert.Equal(t, spec.Height, out.Bounds().Dy(), spec.Name)
	}
}

func TestComposeRespectsPadding(t *testing.T) {
	logo := logoAt(100, 100, image.Rect(0, 0, 100, 100))
	spec := Spec{Name: "test.png", Width: 100, Height: 100, Padding: 0.2, BG: solid(white)}
	out := Compose(logo, spec)

	// Corners sit inside the padding band, so they keep the background color.
	assert.Equal(t, white, out.NRGBAAt(1, 1))
	assert.Equal(t, white, out.NRGBAAt(98, 98))
	// The center is covered by the logo.
	assert.NotEqual(t, white, out.NRGBAAt(50, 50))
}
