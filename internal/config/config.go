package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process configuration. The JWT signing key is injected from
// here into the token service at startup, never read from the environment
// by the components that use it.
type Config struct {
	Addr          string
	MongoURI      string
	MongoDatabase string
	SigningKey    string
	Issuer        string
	TokenTTL      time.Duration
	CloudinaryURL string
	Production    bool
}

func Load() Config {
	addr := envString("PLUME_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":5000"
		}
	}

	return Config{
		Addr:          addr,
		MongoURI:      envString("PLUME_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envString("PLUME_MONGO_DB", "plume"),
		SigningKey:    envString("PLUME_SIGNING_KEY", "dev-signing-key"),
		Issuer:        envString("PLUME_ISSUER", "plume"),
		TokenTTL:      envDuration("PLUME_TOKEN_TTL", 15*24*time.Hour),
		CloudinaryURL: envString("CLOUDINARY_URL", ""),
		Production:    envBool("PLUME_PRODUCTION", false),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
