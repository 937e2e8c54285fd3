package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/TIANLI0/SegKit/config"
	"github.com/TIANLI0/SegKit/utils"
	"go.uber.org/zap"
)

// ErrBusy 处理队列已满
var ErrBusy = errors.New("处理队列已满，请稍后重试")

// SegmentService 编排特征提取、分类与合成的完整流水线
type SegmentService struct {
	segmenter    Segmenter
	classifier   *RuleBasedClassifier
	adapter      *NeuralRefinementAdapter
	compositor   *MaskCompositor
	semaphore    chan struct{}
	queueTimeout time.Duration
}

func NewSegmentService(cfg *config.Config, segmenter Segmenter) *SegmentService {
	classifier := NewRuleBasedClassifier()
	return &SegmentService{
		segmenter:    segmenter,
		classifier:   classifier,
		adapter:      NewNeuralRefinementAdapter(segmenter, classifier, cfg.Model.PersonClassID),
		compositor:   NewMaskCompositor(),
		semaphore:    make(chan struct{}, cfg.Segment.MaxConcurrent),
		queueTimeout: time.Duration(cfg.Segment.QueueTimeout) * time.Second,
	}
}

// Segment 生成伪彩色分割图的PNG字节
func (s *SegmentService) Segment(ctx context.Context, img image.Image) ([]byte, error) {
	seg, _, err := s.classify(ctx, img)
	if err != nil {
		return nil, err
	}
	return encodePNG(s.compositor.Visualize(seg))
}

// RemoveBackground 生成背景透明抠图的PNG字节
func (s *SegmentService) RemoveBackground(ctx context.Context, img image.Image) ([]byte, error) {
	seg, rgb, err := s.classify(ctx, img)
	if err != nil {
		return nil, err
	}
	return encodePNG(s.compositor.Cutout(rgb, seg))
}

// ModelAvailable 分割模型是否加载成功
func (s *SegmentService) ModelAvailable() bool {
	return s.segmenter != nil && s.segmenter.Available()
}

// Mode 当前生效的分类模式
func (s *SegmentService) Mode() string {
	if s.ModelAvailable() {
		return "refinement"
	}
	return "fallback"
}

func (s *SegmentService) classify(ctx context.Context, img image.Image) (*Segmentation, *RGBImage, error) {
	// 并发控制
	ctx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		return nil, nil, ErrBusy
	}

	start := time.Now()
	rgb := NewRGBImage(img)

	var seg *Segmentation
	if s.ModelAvailable() {
		seg = s.adapter.Refine(rgb)
	} else {
		seg = s.classifier.Classify(rgb)
	}

	utils.Logger.Info("image classified",
		zap.Int("width", rgb.Width),
		zap.Int("height", rgb.Height),
		zap.String("mode", s.Mode()),
		zap.Duration("cost", time.Since(start)))

	return seg, rgb, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
