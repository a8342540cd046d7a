package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	MachineSalesID        int
	ReportTTLSeconds      int
	AuthSecret            string
	AccessTokenTTLMinutes int
	AdminUsername         string
	AdminPassword         string
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	salesID, err := strconv.Atoi(getEnv("MACHINE_SALES_ID", "1"))
	if err != nil || salesID < 1 {
		salesID = 1
	}
	reportTTL, err := strconv.Atoi(getEnv("REPORT_TTL_SECONDS", "30"))
	if err != nil || reportTTL < 1 {
		reportTTL = 30
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		MachineSalesID:        salesID,
		ReportTTLSeconds:      reportTTL,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:         strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
