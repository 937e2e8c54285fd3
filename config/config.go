package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Model   ModelConfig   `mapstructure:"model"`
	Segment SegmentConfig `mapstructure:"segment"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type ModelConfig struct {
	Path          string `mapstructure:"path"`
	Backend       string `mapstructure:"backend"`
	InputSize     int    `mapstructure:"input_size"`
	PersonClassID int    `mapstructure:"person_class_id"`
}

type SegmentConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
	QueueTimeout  int `mapstructure:"queue_timeout"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_types", []string{
		"image/jpeg", "image/png", "image/jpg", "image/webp",
	})

	v.SetDefault("model.path", "models/deeplabv3_resnet50.onnx")
	v.SetDefault("model.backend", "default")
	v.SetDefault("model.input_size", 520)
	// COCO-VOC 标签集中 person 的类别ID
	v.SetDefault("model.person_class_id", 15)

	v.SetDefault("segment.max_concurrent", 3)
	v.SetDefault("segment.queue_timeout", 30)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg", "image/webp"},
		},
		Model: ModelConfig{
			Path:          "models/deeplabv3_resnet50.onnx",
			Backend:       "default",
			InputSize:     520,
			PersonClassID: 15,
		},
		Segment: SegmentConfig{
			MaxConcurrent: 3,
			QueueTimeout:  30,
		},
	}
}
