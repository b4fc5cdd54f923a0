// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Refiner       RefinerConfig       `yaml:"refiner" mapstructure:"refiner"`
	Session       SessionConfig       `yaml:"session" mapstructure:"session"`
	Feedback      FeedbackConfig      `yaml:"feedback" mapstructure:"feedback"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// RefinerConfig 精炼模型（上游 Gemini）配置
type RefinerConfig struct {
	// Model 用于精炼对话的上游模型
	Model string `yaml:"model" mapstructure:"model"`
	// ThinkingBudget 主调用的思考 token 预算
	ThinkingBudget int32 `yaml:"thinking_budget" mapstructure:"thinking_budget"`
	// Timeout 单次上游调用超时（由 HTTP 客户端承担）
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Cache 显式缓存策略
	Cache RefinerCacheConfig `yaml:"cache" mapstructure:"cache"`
}

// RefinerCacheConfig 上游显式缓存配置
type RefinerCacheConfig struct {
	// DefaultMode 请求未指定时使用的缓存模式
	// off | implicit_only | explicit_per_request | explicit_per_conversation
	DefaultMode string `yaml:"default_mode" mapstructure:"default_mode"`
	// DefaultTTL 新建缓存对象的默认存活时长
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	// AutoDeleteOnReady 会话完结（ready）时是否清理缓存对象
	AutoDeleteOnReady bool `yaml:"auto_delete_on_ready" mapstructure:"auto_delete_on_ready"`
}

// SessionConfig BYOK 凭证会话配置
type SessionConfig struct {
	// DefaultTTL 会话默认存活时长
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	// MaxTTL 会话存活上限
	MaxTTL time.Duration `yaml:"max_ttl" mapstructure:"max_ttl"`
	// CookieName 会话 cookie 名
	CookieName string `yaml:"cookie_name" mapstructure:"cookie_name"`
	// CookieSecret 会话 cookie 签名密钥
	CookieSecret string `yaml:"cookie_secret" mapstructure:"cookie_secret"`
	// CookieSecure 仅 HTTPS 下发 cookie
	CookieSecure bool `yaml:"cookie_secure" mapstructure:"cookie_secure"`
}

// FeedbackConfig 反馈收集配置
type FeedbackConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// MaxPerHour 单 IP 每小时可提交次数
	MaxPerHour int `yaml:"max_per_hour" mapstructure:"max_per_hour"`
	// QueueKey 反馈落地的 Redis list 键
	QueueKey string `yaml:"queue_key" mapstructure:"queue_key"`
	// QueueMaxLen 队列裁剪长度
	QueueMaxLen int64 `yaml:"queue_max_len" mapstructure:"queue_max_len"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置（按客户端 IP）
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
