package service

import (
	"image"
	"image/color"
)

// RGBImage 丢弃alpha通道后的紧凑RGB像素缓冲
type RGBImage struct {
	Width  int
	Height int
	pix    []uint8
}

// NewRGBImage 把任意解码结果统一转为RGB。
// alpha通道直接丢弃，不与底色合成，保留像素本身的颜色值。
func NewRGBImage(img image.Image) *RGBImage {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	p := &RGBImage{
		Width:  width,
		Height: height,
		pix:    make([]uint8, 3*width*height),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p.pix[i] = c.R
			p.pix[i+1] = c.G
			p.pix[i+2] = c.B
			i += 3
		}
	}
	return p
}

// RGB 返回像素的三个通道值
func (p *RGBImage) RGB(x, y int) (r, g, b uint8) {
	i := 3 * (y*p.Width + x)
	return p.pix[i], p.pix[i+1], p.pix[i+2]
}

// image.Image 实现，便于直接送入模型推理

func (p *RGBImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

func (p *RGBImage) At(x, y int) color.Color {
	r, g, b := p.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
