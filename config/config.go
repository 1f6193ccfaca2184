package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 存储后端
const (
	BackendDatabase = "database"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// 数据库驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Backend  string         `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Profile  ProfileConfig  `mapstructure:"profile"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	Path     string `mapstructure:"path"` // sqlite 文件路径
}

// SupabaseConfig PostgREST 后端配置
type SupabaseConfig struct {
	URL            string        `mapstructure:"url"`
	APIKey         string        `mapstructure:"api_key"`
	ServiceRoleKey string        `mapstructure:"service_role_key"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ProfileConfig 用户设置默认值
type ProfileConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 仅在存在时加载，不覆盖已有环境变量
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("警告: 读取 .env 失败: %v", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/fintrack")
		externalViper.AddConfigPath("$HOME/.fintrack")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 FINTRACK_DATABASE_HOST
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireHours) * time.Hour

	if c.Supabase.TimeoutSeconds <= 0 {
		c.Supabase.TimeoutSeconds = 10
	}
	c.Supabase.Timeout = time.Duration(c.Supabase.TimeoutSeconds) * time.Second

	if c.Backend == "" {
		c.Backend = BackendDatabase
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if strings.TrimSpace(c.Profile.DefaultCurrency) == "" {
		c.Profile.DefaultCurrency = "£"
	}
}

// Validate 校验配置组合是否可用
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDatabase:
		switch c.Database.Driver {
		case DriverMySQL, DriverSQLite:
		default:
			return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
		}
	case BackendSupabase:
		if c.Supabase.URL == "" {
			return errors.New("supabase.url 不能为空")
		}
		if c.Supabase.APIKey == "" && c.Supabase.ServiceRoleKey == "" {
			return errors.New("supabase.api_key 或 supabase.service_role_key 至少配置一个")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("不支持的存储后端: %s", c.Backend)
	}
	return nil
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("当前配置:")
	log.Printf("  服务器: %s (模式: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  存储后端: %s", GlobalConfig.Backend)
	switch GlobalConfig.Backend {
	case BackendDatabase:
		if GlobalConfig.Database.Driver == DriverSQLite {
			log.Printf("  数据库: sqlite %s", GlobalConfig.Database.Path)
		} else {
			log.Printf("  数据库: %s@%s:%s/%s",
				GlobalConfig.Database.Username,
				GlobalConfig.Database.Host,
				GlobalConfig.Database.Port,
				GlobalConfig.Database.DBName)
		}
	case BackendSupabase:
		log.Printf("  Supabase: %s", GlobalConfig.Supabase.URL)
	}
	log.Printf("  邮件服务: %v", GlobalConfig.Email.Enabled)
}
