package config

import (
	"crypto/rsa"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	JWTPublicKey   *rsa.PublicKey
	SnipeITBaseURL string
	SnipeITAPIKey  string
	AllowedOrigins []string
}

func Load() *Config {
	publicKeyPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		publicKeyPath = "/etc/certs/public.pem"
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	snipeURL := os.Getenv("SNIPEIT_BASE_URL")
	if snipeURL == "" {
		panic("SNIPEIT_BASE_URL environment variable is required")
	}
	snipeKey := os.Getenv("SNIPEIT_API_KEY")
	if snipeKey == "" {
		panic("SNIPEIT_API_KEY environment variable is required")
	}

	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	return &Config{
		Port:           port,
		DatabaseURL:    dbURL,
		RedisAddress:   redisAddr,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTPublicKey:   publicKey,
		SnipeITBaseURL: snipeURL,
		SnipeITAPIKey:  snipeKey,
		AllowedOrigins: origins,
	}
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
