package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	// DefaultFareCents backs fare resolution when a route has no rule in
	// effect. Zero disables the fallback, which makes a missing rule a
	// hard configuration error instead of a silent free sale.
	DefaultFareCents       int64
	DefaultDiscountPercent int

	// MinBookingLead is how far before departure a self-service booking
	// must be placed. Walk-in sales at the pier are exempt.
	MinBookingLead time.Duration
}

func LoadEnv() Env {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	env := Env{
		AppAddr:                getStr("APP_ADDR", ":8080"),
		GinMode:                strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:                 getStr("DB_USER", "root"),
		DBPass:                 os.Getenv("DB_PASS"),
		DBHost:                 getStr("DB_HOST", "127.0.0.1:3306"),
		DBName:                 getStr("DB_NAME", "ferry_app"),
		JWTSecret:              getStr("JWT_SECRET", "dev-secret-change-me"),
		DefaultFareCents:       getInt64("DEFAULT_FARE_CENTS", 50000),
		DefaultDiscountPercent: int(getInt64("DEFAULT_DISCOUNT_PERCENT", 20)),
		MinBookingLead:         time.Duration(getInt64("MIN_BOOKING_LEAD_MINUTES", 60)) * time.Minute,
	}
	return env
}

func getStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
