package service

import (
	"image"
	"image/draw"

	"github.com/TIANLI0/SegKit/utils"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// NeuralRefinementAdapter 用模型结果锁定前景，再用颜色规则细分背景。
// 模型路径上的任何故障都在此吸收，整体降级为纯规则分类，不向上传播。
type NeuralRefinementAdapter struct {
	segmenter     Segmenter
	classifier    *RuleBasedClassifier
	personClassID uint8
}

func NewNeuralRefinementAdapter(segmenter Segmenter, classifier *RuleBasedClassifier, personClassID int) *NeuralRefinementAdapter {
	return &NeuralRefinementAdapter{
		segmenter:     segmenter,
		classifier:    classifier,
		personClassID: uint8(personClassID),
	}
}

// Refine 对图像做模型细分分类
func (a *NeuralRefinementAdapter) Refine(img *RGBImage) *Segmentation {
	if a.segmenter == nil || !a.segmenter.Available() {
		return a.classifier.Classify(img)
	}

	grid, err := a.segmenter.Infer(img)
	if err != nil {
		utils.Logger.Warn("model inference failed, falling back to color rules",
			zap.Error(err))
		return a.classifier.Classify(img)
	}

	grid = resampleGrid(grid, img.Width, img.Height)

	seg := NewSegmentation(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			// 模型判定的人物像素无条件归入主体
			if grid.GrayAt(x, y).Y == a.personClassID {
				seg.Assign(x, y, CategorySubject)
				continue
			}
			r, g, b := img.RGB(x, y)
			seg.Assign(x, y, a.classifier.ClassifyPixel(r, g, b, ModeRefinement))
		}
	}
	return seg
}

// resampleGrid 把类别网格缩放到目标尺寸。
// 必须用最近邻，双线性/双三次会在类别边界上插出不存在的类别ID。
func resampleGrid(grid *image.Gray, width, height int) *image.Gray {
	bounds := grid.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return grid
	}

	resized := resize.Resize(uint(width), uint(height), grid, resize.NearestNeighbor)
	if g, ok := resized.(*image.Gray); ok {
		return g
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return out
}
