package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置根结构
// 每个服务只使用自己需要的部分
type Config struct {
	DB       DBConfig       `yaml:"db"`
	MQ       MQConfig       `yaml:"mq"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Server   ServerConfig   `yaml:"server"`
	Services ServicesConfig `yaml:"services"`
}

// Load 加载配置，支持多环境
// 先读 base.yaml，再用环境特定文件覆盖，最后应用环境变量
func Load(env string, configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	cfg := &Config{}

	if err := loadYAMLFile(filepath.Join(configDir, "base.yaml"), cfg); err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
		if _, err := os.Stat(envFile); err == nil {
			if err := loadYAMLFile(envFile, cfg); err != nil {
				return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
		}
	}

	// 环境变量优先级最高
	OverrideDBFromEnv(&cfg.DB)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideRedisFromEnv(&cfg.Redis)
	OverrideJWTFromEnv(&cfg.JWT)
	OverrideServerFromEnv(&cfg.Server)
	OverrideServicesFromEnv(&cfg.Services)

	return cfg, nil
}

// MustLoad 加载失败时 panic，供 main 使用
func MustLoad(env string, configDir string) *Config {
	cfg, err := Load(env, configDir)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadYAMLFile(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// GetEnv 获取环境变量，如果未设置则返回默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv 获取配置环境（从环境变量 CONFIG_ENV，默认为 local）
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
