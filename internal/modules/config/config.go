package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_BOT_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	webhookSecretENV  = "TV_WEBHOOK_SECRET"
	apiKeyENV         = "API_KEY"
	apiSecretENV      = "API_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// DB — Postgres DSN. Если пустой, используем файловый стор.
	DB        string `yaml:"db_dsn"`
	StorePath string `yaml:"store_path"`

	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Webhook struct {
		// Secret сверяется с заголовком X-TV-Secret; пустой = проверка выключена.
		Secret string `yaml:"secret"`
	} `yaml:"webhook"`

	Exchange struct {
		Name      string `yaml:"name"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		BaseURL   string `yaml:"base_url"`
		WSURL     string `yaml:"ws_url"`
		Paper     bool   `yaml:"paper"`
	} `yaml:"exchange"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Сколько покупаем/продаём по одобренному сигналу.
	DefaultQty float64 `yaml:"default_qty"`

	// Таймаут на вызов биржи; таймаут = отказ, сигнал остаётся pending.
	// Только через env EXECUTION_TIMEOUT.
	ExecutionTimeout time.Duration
}

func NewConfig() (*Config, error) {
	config := Config{
		StorePath:        getenvDefault("BOT_STORE_PATH", "data/store.json"),
		DefaultQty:       floatFromEnv("DEFAULT_QTY", 0.001),
		ExecutionTimeout: durationFromEnv("EXECUTION_TIMEOUT", "10s"),
	}
	config.Service.Host = "0.0.0.0"
	config.Service.PublicPort = intFromEnv("PUBLIC_PORT", 8000)
	config.Service.AdminPort = intFromEnv("ADMIN_PORT", 8080)
	config.Exchange.Name = getenvDefault("EXCHANGE", "binance")
	config.Exchange.Paper = boolFromEnv("PAPER", true)

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		// конфиг-файл опционален: всё можно задать через env
		logger.Info("config file not found, using env/defaults: %v", err)
	} else {
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, err
		}
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv(chatTelegramENV); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if secret := os.Getenv(webhookSecretENV); secret != "" {
		config.Webhook.Secret = secret
	}
	if key := os.Getenv(apiKeyENV); key != "" {
		config.Exchange.APIKey = key
	}
	if sec := os.Getenv(apiSecretENV); sec != "" {
		config.Exchange.APISecret = sec
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
