package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Server      ServerConfig
	Logger      LoggerConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	LLM         LLMConfig
	Transcriber TranscriberConfig
	Media       MediaConfig
	Pipeline    PipelineConfig
	Cache       CacheConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Service  string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// LLMConfig configures the generative model used for question generation.
type LLMConfig struct {
	GeminiAPIKey string
	Model        string
	MaxRetries   int
	Temperature  float64
}

// TranscriberConfig configures the speech-to-text backend.
type TranscriberConfig struct {
	OpenAIAPIKey string
	Model        string
}

// MediaConfig configures audio acquisition from the video source.
type MediaConfig struct {
	YTDLPPath string
	TempDir   string
}

// PipelineConfig bounds concurrent quiz-creation pipeline runs.
type PipelineConfig struct {
	MaxConcurrentRuns int64
}

type CacheConfig struct {
	QuizDetailTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("llm.model", "gemini-2.5-flash")
	viper.SetDefault("llm.max_retries", 5)
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("transcriber.model", "whisper-1")
	viper.SetDefault("media.ytdlp_path", "yt-dlp")
	viper.SetDefault("media.temp_dir", os.TempDir())
	viper.SetDefault("pipeline.max_concurrent_runs", 4)
	viper.SetDefault("cache.quiz_detail_ttl", 3600)
	viper.SetDefault("jwt.access_token_ttl", 15)
	viper.SetDefault("jwt.refresh_token_ttl", 10080)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Log the config file being used
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Env: viper.GetString("env"),
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("env"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			Service:  viper.GetString("db.service"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl") * time.Minute,
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl") * time.Minute,
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     viper.GetString("google_oauth.client_id"),
			ClientSecret: viper.GetString("google_oauth.client_secret"),
			RedirectURL:  viper.GetString("google_oauth.redirect_url"),
		},
		LLM: LLMConfig{
			GeminiAPIKey: viper.GetString("llm.gemini_api_key"),
			Model:        viper.GetString("llm.model"),
			MaxRetries:   viper.GetInt("llm.max_retries"),
			Temperature:  viper.GetFloat64("llm.temperature"),
		},
		Transcriber: TranscriberConfig{
			OpenAIAPIKey: viper.GetString("transcriber.openai_api_key"),
			Model:        viper.GetString("transcriber.model"),
		},
		Media: MediaConfig{
			YTDLPPath: viper.GetString("media.ytdlp_path"),
			TempDir:   viper.GetString("media.temp_dir"),
		},
		Pipeline: PipelineConfig{
			MaxConcurrentRuns: viper.GetInt64("pipeline.max_concurrent_runs"),
		},
		Cache: CacheConfig{
			QuizDetailTTL: viper.GetDuration("cache.quiz_detail_ttl") * time.Second,
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if service := os.Getenv("DB_SERVICE"); service != "" {
		config.DB.Service = service
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		config.LLM.GeminiAPIKey = geminiKey
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.Transcriber.OpenAIAPIKey = openAIKey
	}
	if jwtSecret := os.Getenv("JWT_SECRET_KEY"); jwtSecret != "" {
		config.JWT.SecretKey = jwtSecret
	}

	return config, nil
}

// GetDSN builds the godror connect string from the DB section.
func (c *Config) GetDSN() string {
	connectString := fmt.Sprintf("%s:%d/%s", c.DB.Host, c.DB.Port, c.DB.Service)
	return fmt.Sprintf("user=\"%s\" password=\"%s\" connectString=\"%s\"", c.DB.User, c.DB.Password, connectString)
}

// GetMigrateDSN builds the go-ora connect string used by the migration runner.
func (c *Config) GetMigrateDSN() string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s", c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Service)
}
