package service

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualizeSinglePixelOther(t *testing.T) {
	seg := NewSegmentation(1, 1)
	seg.Assign(0, 0, CategoryOther)

	out := NewMaskCompositor().Visualize(seg)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, out.RGBAAt(0, 0))
}

func TestVisualizeCategoryColors(t *testing.T) {
	seg := NewSegmentation(2, 2)
	seg.Assign(0, 0, CategorySubject)
	seg.Assign(1, 0, CategorySky)
	seg.Assign(0, 1, CategoryGround)
	seg.Assign(1, 1, CategoryOther)

	out := NewMaskCompositor().Visualize(seg)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 255, A: 255}, out.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 165, B: 0, A: 255}, out.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, out.RGBAAt(1, 1))
}

func TestVisualizePaintOrderOnOverlap(t *testing.T) {
	// 掩码正常情况下互斥；若出现重叠，后绘制的类别必须覆盖先绘制的
	seg := NewSegmentation(1, 1)
	seg.Subject.Set(0, 0, true)
	seg.Sky.Set(0, 0, true)

	out := NewMaskCompositor().Visualize(seg)
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
}

func TestCutoutAllBackgroundTransparent(t *testing.T) {
	img := uniformImage(2, 2, 135, 206, 235)
	seg := NewSegmentation(2, 2)
	seg.Assign(0, 0, CategorySky)
	seg.Assign(1, 0, CategorySky)
	seg.Assign(0, 1, CategoryGround)
	seg.Assign(1, 1, CategoryOther)

	out := NewMaskCompositor().Cutout(img, seg)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			px := out.NRGBAAt(x, y)
			assert.Equal(t, uint8(0), px.A)
			// RGB保持原值
			assert.Equal(t, uint8(135), px.R)
			assert.Equal(t, uint8(206), px.G)
			assert.Equal(t, uint8(235), px.B)
		}
	}
}

func TestCutoutSubjectOpaque(t *testing.T) {
	img := uniformImage(2, 1, 200, 150, 120)
	seg := NewSegmentation(2, 1)
	seg.Assign(0, 0, CategorySubject)
	seg.Assign(1, 0, CategoryOther)

	out := NewMaskCompositor().Cutout(img, seg)
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), out.NRGBAAt(1, 0).A)
}
