package service

import (
	"image"
	"image/color"
)

// 各类别的可视化颜色
var (
	colorSubject = color.RGBA{R: 255, G: 0, B: 255, A: 255}   // 品红
	colorSky     = color.RGBA{R: 0, G: 255, B: 255, A: 255}   // 青色
	colorGround  = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // 橙色
	colorOther   = color.RGBA{R: 255, G: 255, B: 0, A: 255}   // 黄色
)

// MaskCompositor 把四类掩码合成为输出图像，无内部状态
type MaskCompositor struct{}

func NewMaskCompositor() *MaskCompositor {
	return &MaskCompositor{}
}

// Visualize 输出伪彩色分割图。
// 绘制顺序固定为subject→sky→ground→other，掩码若有重叠以后写为准。
func (mc *MaskCompositor) Visualize(seg *Segmentation) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, seg.Width, seg.Height))

	paint := func(mask *Mask, c color.RGBA) {
		for y := 0; y < seg.Height; y++ {
			for x := 0; x < seg.Width; x++ {
				if mask.At(x, y) {
					out.SetRGBA(x, y, c)
				}
			}
		}
	}
	paint(seg.Subject, colorSubject)
	paint(seg.Sky, colorSky)
	paint(seg.Ground, colorGround)
	paint(seg.Other, colorOther)

	return out
}

// Cutout 输出背景透明的RGBA抠图：原色保留，所有背景类别alpha置0
func (mc *MaskCompositor) Cutout(img *RGBImage, seg *Segmentation) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, seg.Width, seg.Height))

	for y := 0; y < seg.Height; y++ {
		for x := 0; x < seg.Width; x++ {
			r, g, b := img.RGB(x, y)
			a := uint8(255)
			if seg.Sky.At(x, y) || seg.Ground.At(x, y) || seg.Other.At(x, y) {
				a = 0
			}
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}
