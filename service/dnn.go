package service

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/TIANLI0/SegKit/config"
	"github.com/TIANLI0/SegKit/utils"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Segmenter 语义分割模型的抽象能力：输入图像，输出逐像素类别网格。
// 网格尺寸允许与输入不一致，由调用方负责重采样。
type Segmenter interface {
	Infer(img image.Image) (*image.Gray, error)
	Available() bool
}

// DNNSegmenter 基于gocv dnn模块的DeepLabV3分割实现。
// 模型在启动时加载一次，之后只读；加载失败不报错，仅表现为不可用。
type DNNSegmenter struct {
	mu        sync.Mutex // dnn.Net 不保证并发安全，推理需要串行化
	net       gocv.Net
	inputSize int
	loaded    bool
}

func NewDNNSegmenter(cfg *config.ModelConfig) *DNNSegmenter {
	s := &DNNSegmenter{inputSize: cfg.InputSize}

	net := gocv.ReadNet(cfg.Path, "")
	if net.Empty() {
		utils.Logger.Warn("failed to load segmentation model",
			zap.String("path", cfg.Path))
		return s
	}

	if cfg.Backend == "cuda" {
		if err := net.SetPreferableBackend(gocv.NetBackendCUDA); err != nil {
			utils.Logger.Warn("cuda backend unavailable, using default", zap.Error(err))
		} else if err := net.SetPreferableTarget(gocv.NetTargetCUDA); err != nil {
			utils.Logger.Warn("cuda target unavailable, using default", zap.Error(err))
		}
	}

	s.net = net
	s.loaded = true
	return s
}

func (s *DNNSegmenter) Available() bool {
	return s.loaded
}

func (s *DNNSegmenter) Close() error {
	if !s.loaded {
		return nil
	}
	return s.net.Close()
}

// Infer 返回inputSize×inputSize的类别网格
func (s *DNNSegmenter) Infer(img image.Image) (*image.Gray, error) {
	if !s.loaded {
		return nil, fmt.Errorf("segmentation model not loaded")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	// torchvision的mean/std归一化，std取三通道均值近似为统一缩放系数
	blob := gocv.BlobFromImage(mat, 1.0/(0.226*255.0),
		image.Pt(s.inputSize, s.inputSize),
		gocv.NewScalar(0.485*255.0, 0.456*255.0, 0.406*255.0, 0),
		false, false)
	defer blob.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.net.SetInput(blob, "")
	prob := s.net.Forward("")
	defer prob.Close()

	return argmaxGrid(&prob, s.inputSize, s.inputSize)
}

// argmaxGrid 对形如[1,C,H,W]的模型输出逐像素取得分最高的类别
func argmaxGrid(prob *gocv.Mat, width, height int) (*image.Gray, error) {
	data, err := prob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	pixels := width * height
	if pixels == 0 || len(data) == 0 || len(data)%pixels != 0 {
		return nil, fmt.Errorf("unexpected model output size %d for %dx%d", len(data), width, height)
	}
	channels := len(data) / pixels

	grid := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := 0
			bestScore := data[y*width+x]
			for c := 1; c < channels; c++ {
				if v := data[(c*height+y)*width+x]; v > bestScore {
					best = c
					bestScore = v
				}
			}
			grid.SetGray(x, y, color.Gray{Y: uint8(best)})
		}
	}
	return grid, nil
}
