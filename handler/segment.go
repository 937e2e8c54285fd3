package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	// 注册上传图片用到的解码器
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/TIANLI0/SegKit/config"
	"github.com/TIANLI0/SegKit/model"
	"github.com/TIANLI0/SegKit/service"
	"github.com/TIANLI0/SegKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SegmentHandler struct {
	cfg     *config.Config
	service *service.SegmentService
	version string
}

func NewSegmentHandler(cfg *config.Config, svc *service.SegmentService, version string) *SegmentHandler {
	return &SegmentHandler{
		cfg:     cfg,
		service: svc,
		version: version,
	}
}

// Segment 生成伪彩色分割图
func (h *SegmentHandler) Segment(c *gin.Context) {
	h.process(c, h.service.Segment)
}

// RemoveBackground 生成背景透明抠图
func (h *SegmentHandler) RemoveBackground(c *gin.Context) {
	h.process(c, h.service.RemoveBackground)
}

// Health 返回模型加载状态
func (h *SegmentHandler) Health(c *gin.Context) {
	status := "ok"
	if !h.service.ModelAvailable() {
		status = "fallback"
	}
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:      status,
		Service:     "deeplab",
		ModelLoaded: h.service.ModelAvailable(),
		Mode:        h.service.Mode(),
		Version:     h.version,
	})
}

func (h *SegmentHandler) process(c *gin.Context, op func(ctx context.Context, img image.Image) ([]byte, error)) {
	img, md5, ok := h.readImage(c)
	if !ok {
		return
	}

	out, err := op(c.Request.Context(), img)
	if err != nil {
		if errors.Is(err, service.ErrBusy) {
			c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
				Success: false,
				Message: "服务繁忙，请稍后重试",
			})
			return
		}
		utils.Logger.Error("failed to process image",
			zap.String("md5", md5), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "图片处理失败",
			Error:   err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", out)
}

// readImage 读取并解码上传的图片，校验失败时直接写好响应
func (h *SegmentHandler) readImage(c *gin.Context) (image.Image, string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "请上传图片文件",
			Error:   err.Error(),
		})
		return nil, "", false
	}

	// 验证文件大小
	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "图片文件为空",
		})
		return nil, "", false
	}
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return nil, "", false
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 JPEG/PNG/WebP",
		})
		return nil, "", false
	}

	f, err := file.Open()
	if err != nil {
		utils.Logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "读取文件失败",
			Error:   err.Error(),
		})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.Logger.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "读取文件失败",
			Error:   err.Error(),
		})
		return nil, "", false
	}

	md5 := utils.BytesMD5(data)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		utils.Logger.Warn("failed to decode uploaded image",
			zap.String("md5", md5), zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "无法解析图片内容",
			Error:   err.Error(),
		})
		return nil, "", false
	}

	utils.Logger.Info("image received",
		zap.String("md5", md5),
		zap.String("format", format),
		zap.Int64("size", file.Size))

	return img, md5, true
}

func (h *SegmentHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
