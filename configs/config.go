package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	RedisAddr  string

	// External execution backend. An empty key means no executor is
	// configured and every execution is simulated.
	ExecutorURL      string
	ExecutorAPIKey   string
	ExecutorProtocol string

	JWTSecret string
}

func LoadConfig() *Config {
	err := godotenv.Load()

	if err != nil {
		log.Fatal("Error loading .env file", err)
	}

	return &Config{
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		ServerPort:       os.Getenv("SERVER_PORT"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		ExecutorURL:      os.Getenv("EXECUTOR_URL"),
		ExecutorAPIKey:   os.Getenv("EXECUTOR_API_KEY"),
		ExecutorProtocol: os.Getenv("EXECUTOR_PROTOCOL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}
}
