package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AI       AIConfig
	Chat     ChatConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret       string
	AccessTTLHours  int
	RefreshTTLHours int
}

// AIConfig 补全服务配置
type AIConfig struct {
	APIKey  string
	BaseURL string
	Timeout int
}

// ChatConfig 聊天行为配置
type ChatConfig struct {
	// ReuseAnswers 开启重复问题短路：相同问题直接复用已有回答
	ReuseAnswers bool
	// ReuseScope 复用查找范围：global（跨所有用户）或 user（仅限提问者）
	ReuseScope string
	// CacheTTLHours 回答缓存过期时间
	CacheTTLHours int
}

// 复用范围取值
const (
	ReuseScopeGlobal = "global"
	ReuseScopeUser   = "user"
)

// Load 加载配置
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtSecret is required")
	}
	if cfg.Chat.ReuseScope != ReuseScopeGlobal && cfg.Chat.ReuseScope != ReuseScopeUser {
		return nil, fmt.Errorf("invalid chat.reuseScope: %q", cfg.Chat.ReuseScope)
	}

	return &cfg, nil
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "generated-chat")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "generated_chat")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifetime", 300)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	// 密钥默认空值仅为注册配置键，使环境变量覆盖生效
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.accessTTLHours", 24)
	v.SetDefault("auth.refreshTTLHours", 168)

	// AI (Groq 暴露 OpenAI 兼容接口)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseUrl", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.timeout", 60)

	// Chat
	v.SetDefault("chat.reuseAnswers", false)
	v.SetDefault("chat.reuseScope", ReuseScopeGlobal)
	v.SetDefault("chat.cacheTTLHours", 24)
}
