package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/TIANLI0/SegKit/config"
	"github.com/TIANLI0/SegKit/handler"
	"github.com/TIANLI0/SegKit/middleware"
	"github.com/TIANLI0/SegKit/model"
	"github.com/TIANLI0/SegKit/service"
	"github.com/TIANLI0/SegKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting SegKit server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	// 加载分割模型，失败时服务自动降级为颜色规则分类
	segmenter := service.NewDNNSegmenter(&cfg.Model)
	if segmenter.Available() {
		utils.Logger.Info("segmentation model loaded",
			zap.String("path", cfg.Model.Path),
			zap.Int("input_size", cfg.Model.InputSize))
	} else {
		utils.Logger.Warn("segmentation model unavailable, using fallback classifier")
	}
	defer segmenter.Close()

	// 初始化分割服务
	segmentService := service.NewSegmentService(cfg, segmenter)

	// 初始化Handler
	segmentHandler := handler.NewSegmentHandler(cfg, segmentService, Version)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 创建路由
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// 健康检查和版本信息
	r.GET("/health", segmentHandler.Health)

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.VersionResponse{
			Version:   Version,
			BuildTime: BuildTime,
			BuildID:   BuildID,
			GitCommit: GitCommit,
			GitBranch: GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/segment", segmentHandler.Segment)
		api.POST("/remove-background", segmentHandler.RemoveBackground)
	}

	// 启动服务器
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}
