package config

import (
	"os"
	"strconv"
	"time"
)

// envOrKeep returns the value of the environment variable if it is set,
// otherwise the current value.
func envOrKeep(key, current string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return current
}

// envMinutesOrKeep reads an integer number of minutes from the environment.
// Unset or unparsable values keep the current duration.
func envMinutesOrKeep(key string, current time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return current
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return current
	}
	return time.Duration(n) * time.Minute
}

// envSecondsOrKeep reads an integer number of seconds from the environment.
// Unset or unparsable values keep the current duration.
func envSecondsOrKeep(key string, current time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return current
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return current
	}
	return time.Duration(n) * time.Second
}

// parseEnv overlays Config values from environment variables.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               session token HMAC secret
//	SESSION_VALIDITY_MINUTES session token validity, minutes
//	GPT_BASE_URL             chat-completion endpoint base URL
//	GPT_API_KEY              chat-completion credential
//	GPT_MODEL                model identifier
//	GPT_TIMEOUT_SECONDS      model call timeout, seconds
func parseEnv(config *Config) {
	config.Address = envOrKeep("ADDRESS", config.Address)
	config.DatabaseDSN = envOrKeep("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = envOrKeep("SECRET_KEY", config.SecretKey)
	config.SessionValidityDuration = envMinutesOrKeep("SESSION_VALIDITY_MINUTES", config.SessionValidityDuration)
	config.GPTBaseURL = envOrKeep("GPT_BASE_URL", config.GPTBaseURL)
	config.GPTAPIKey = envOrKeep("GPT_API_KEY", config.GPTAPIKey)
	config.GPTModel = envOrKeep("GPT_MODEL", config.GPTModel)
	config.GPTTimeout = envSecondsOrKeep("GPT_TIMEOUT_SECONDS", config.GPTTimeout)
}
