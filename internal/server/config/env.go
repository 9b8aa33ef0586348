package config

import (
	"strings"
	"time"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays values from the environment. PORT, DATABASE_URL,
// JWT_SECRET and FRONTEND_URL keep the names the web frontend deployment
// already uses; everything else is prefixed with SURVEY_.
func parseEnv(config *Config, lookup lookupFunc) {
	if v, ok := lookup("PORT"); ok && v != "" {
		config.HTTPAddr = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := lookup("SURVEY_HTTP_ADDR"); ok && v != "" {
		config.HTTPAddr = v
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("SURVEY_STORAGE_MODE"); ok && v != "" {
		config.StorageMode = v
	}
	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup("SURVEY_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := lookup("SURVEY_LOG_FORMAT"); ok && v != "" {
		config.LogFormat = v
	}
	if v, ok := lookup("FRONTEND_URL"); ok && v != "" {
		config.CORSOrigins = appendUnique(config.CORSOrigins, v)
	}
	if v, ok := lookup("SURVEY_S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := lookup("SURVEY_S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}
	if v, ok := lookup("SURVEY_S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := lookup("SURVEY_S3_REGION"); ok && v != "" {
		config.S3Region = v
	}
	if v, ok := lookup("SURVEY_S3_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
