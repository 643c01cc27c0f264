// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Dialogue   DialogueConfig   `mapstructure:"dialogue"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// APIConfig API 服务配置
type APIConfig struct {
	Port       int              `mapstructure:"port"`
	Host       string           `mapstructure:"host"`
	Timeout    string           `mapstructure:"timeout"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enable       bool     `mapstructure:"enable"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	Auth          bool   `mapstructure:"auth"`
	RateLimit     bool   `mapstructure:"rate_limit"`
	RateLimitRPS  int    `mapstructure:"rate_limit_rps"`
	JWTKey        string `mapstructure:"jwt_key"`
	JWTTimeout    string `mapstructure:"jwt_timeout"`     // 如 "1h"
	JWTMaxRefresh string `mapstructure:"jwt_max_refresh"` // 如 "1h"
}

// DialogueConfig 对话理解管线配置。
// 布尔开关使用 *bool：未配置时取各自默认值（多数为 true）。
type DialogueConfig struct {
	EnableLLMIntentRecognition   bool    `mapstructure:"enable_llm_intent_recognition"` // false 时强制规则意图路径（无外部模型调用）
	EnableEntityExtraction       *bool   `mapstructure:"enable_entity_extraction"`      // 实体抽取总开关，默认 true
	EnableContextLearning        *bool   `mapstructure:"enable_context_learning"`       // 会话历史是否影响后续轮次，默认 true
	MaxContextHistory            int     `mapstructure:"max_context_history"`           // 每会话保留的历史轮次上限，<=0 默认 10
	IntentConfidenceThreshold    float64 `mapstructure:"intent_confidence_threshold"`   // 接受非回退意图的最小置信度，0 时默认 0.7
	EntityConfidenceThreshold    float64 `mapstructure:"entity_confidence_threshold"`   // 实体视为可信的最小置信度，0 时默认 0.5
	EnableClarificationQuestions *bool   `mapstructure:"enable_clarification_questions"` // 澄清提问总开关，默认 true
	MaxClarificationAttempts     int     `mapstructure:"max_clarification_attempts"`    // 同一会话澄清重试上限，<=0 默认 3
	FallbackIntent               string  `mapstructure:"fallback_intent"`               // 置信度不足时的意图，空时默认 general_inquiry
	EnableMultilingualSupport    *bool   `mapstructure:"enable_multilingual_support"`   // 语言检测总开关，默认 true
	DefaultLanguage              string  `mapstructure:"default_language"`              // 检测不确定时的语言，空时默认 zh
	HighConfidenceThreshold      float64 `mapstructure:"high_confidence_threshold"`     // preferredLanguage 更新所需置信度，0 时默认 0.5
	ResponseLanguageThreshold    float64 `mapstructure:"response_language_threshold"`   // 澄清问题语言选择所需置信度，独立可调，0 时默认 0.5
	ContextTTL                   string  `mapstructure:"context_ttl"`                   // 会话上下文 TTL，如 "30m"，空时默认 30m
}

// RoutingConfig 能力路由协作方配置
type RoutingConfig struct {
	Type          string `mapstructure:"type"`           // rule | http
	Endpoint      string `mapstructure:"endpoint"`       // type=http 时的路由服务地址
	Timeout       string `mapstructure:"timeout"`        // HTTP 路由调用超时，如 "10s"
	FallbackAgent string `mapstructure:"fallback_agent"` // 无匹配能力时的兜底 Agent，空时默认 general
}

// StorageConfig 存储配置
type StorageConfig struct {
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig 缓存/持久化协作方配置
type CacheConfig struct {
	Type     string `mapstructure:"type"` // memory | redis
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	replaceEnvVars(&config)

	return &config, nil
}

// replaceEnvVars 替换配置中的 ${VAR} 环境变量引用（密码等敏感项）
func replaceEnvVars(config *Config) {
	config.Storage.Cache.Password = expandEnv(config.Storage.Cache.Password)
	config.API.Middleware.JWTKey = expandEnv(config.API.Middleware.JWTKey)
	config.Routing.Endpoint = expandEnv(config.Routing.Endpoint)
}

func expandEnv(v string) string {
	if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
		if val := os.Getenv(strings.TrimSuffix(strings.TrimPrefix(v, "${"), "}")); val != "" {
			return val
		}
	}
	return v
}

// LoadAPIConfig 加载 API 配置（仅 configs/api.yaml）
func LoadAPIConfig() (*Config, error) {
	return LoadConfig("configs/api.yaml")
}
