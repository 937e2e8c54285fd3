package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/TIANLI0/SegKit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(segmenter Segmenter) *SegmentService {
	return NewSegmentService(config.New(), segmenter)
}

func TestSegmentFallbackMode(t *testing.T) {
	svc := newTestService(&stubSegmenter{available: false})
	assert.False(t, svc.ModelAvailable())
	assert.Equal(t, "fallback", svc.Mode())

	out, err := svc.Segment(context.Background(), uniformImage(3, 2, 135, 206, 235))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.Bounds().Dx())
	assert.Equal(t, 2, decoded.Bounds().Dy())

	// 全图天空 → 可视化为青色
	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestRemoveBackgroundFallbackMode(t *testing.T) {
	svc := newTestService(&stubSegmenter{available: false})

	out, err := svc.RemoveBackground(context.Background(), uniformImage(2, 2, 135, 206, 235))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// 全图背景 → alpha全0，RGB保持原值
	nrgba, ok := decoded.(*image.NRGBA)
	require.True(t, ok)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			px := nrgba.NRGBAAt(x, y)
			assert.Equal(t, uint8(0), px.A)
			assert.Equal(t, uint8(135), px.R)
			assert.Equal(t, uint8(206), px.G)
			assert.Equal(t, uint8(235), px.B)
		}
	}
}

func TestSegmentFaultingModelStillServes(t *testing.T) {
	// 模型加载成功但每次推理都失败：请求仍然成功，走纯规则分类
	stub := &stubSegmenter{available: true, err: errors.New("device error")}
	svc := newTestService(stub)

	out, err := svc.Segment(context.Background(), uniformImage(2, 2, 200, 150, 120))
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// 肤色像素在降级分类中为主体 → 品红
	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(255), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestSegmentDeterministicOutput(t *testing.T) {
	svc := newTestService(&stubSegmenter{available: false})
	img := randomImage(16, 16, 42)

	first, err := svc.Segment(context.Background(), img)
	require.NoError(t, err)
	second, err := svc.Segment(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
