package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	HTTPAddress string
	DatabaseURL string
	JWTSecret   string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	FrontendURL  string

	// Планировщик напоминаний можно выключить (тесты, локальный запуск)
	RemindersEnabled bool
}

var instance *ServerConfig
var once sync.Once

func GetServerConfig() *ServerConfig {
	once.Do(func() {
		instance = &ServerConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("No .env file loaded: %s", err.Error())
		}

		instance.HTTPAddress = getEnv("HTTP_ADDRESS", ":8080")

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.JWTSecret = getEnv("JWT_SECRET", "")
		if instance.JWTSecret == "" {
			logrus.Fatal("could not get jwt secret")
		}

		instance.SMTPHost = getEnv("SMTP_HOST", "localhost")
		instance.SMTPPort = int(getEnvAsInt("SMTP_PORT", 587))
		instance.SMTPUser = getEnv("SMTP_USER", "")
		instance.SMTPPassword = getEnv("SMTP_PASS", "")
		instance.EmailFrom = getEnv("EMAIL_FROM", instance.SMTPUser)
		instance.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

		instance.RemindersEnabled = getEnvAsBool("REMINDERS_ENABLED", true)
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
