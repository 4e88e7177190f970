package config

import (
	"testing"

	"iajuridica-backend/models"
	"iajuridica-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_BEARER", "API_BEARER_HASH", "STORE_TYPE", "DATABASE_URL",
	"STORAGE_TYPE", "STORAGE_LOCAL_PATH", "AWS_S3_BUCKET", "AWS_REGION",
	"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "GENERATOR", "GEMINI_API_KEY",
	"GEMINI_MODEL", "GEMINI_MAX_ATTEMPTS", "DEFAULT_MATTER", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BEARER", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, storage.StorageTypeNone, cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.S3Region)
	assert.Equal(t, GeneratorStatic, cfg.Generator)
	assert.Equal(t, models.DefaultMatter, cfg.DefaultMatter)
	assert.Equal(t, 3, cfg.GeminiMaxAttempts)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvRequiresSecret(t *testing.T) {
	clearEnv(t)

	_, err := FromEnv()
	assert.ErrorContains(t, err, "API_BEARER")
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown store", map[string]string{"STORE_TYPE": "redis"}, "STORE_TYPE"},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "ftp"}, "STORAGE_TYPE"},
		{"s3 without bucket", map[string]string{"STORAGE_TYPE": "s3"}, "AWS_S3_BUCKET"},
		{"gemini without key", map[string]string{"GENERATOR": "gemini"}, "GEMINI_API_KEY"},
		{"unknown generator", map[string]string{"GENERATOR": "gpt"}, "GENERATOR"},
		{"bad attempts", map[string]string{"GENERATOR": "gemini", "GEMINI_API_KEY": "k", "GEMINI_MAX_ATTEMPTS": "many"}, "GEMINI_MAX_ATTEMPTS"},
		{"zero attempts", map[string]string{"GENERATOR": "gemini", "GEMINI_API_KEY": "k", "GEMINI_MAX_ATTEMPTS": "0"}, "GEMINI_MAX_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("API_BEARER", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStaticGeneratorIgnoresGeminiSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BEARER", "secret")
	t.Setenv("GEMINI_MAX_ATTEMPTS", "many")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, GeneratorStatic, cfg.Generator)
	assert.Equal(t, 3, cfg.GeminiMaxAttempts)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BEARER_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "docs")
	t.Setenv("GENERATOR", "gemini")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("DEFAULT_MATTER", "Direito Civil")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "docs", cfg.Storage.S3Bucket)
	assert.Equal(t, GeneratorGemini, cfg.Generator)
	assert.Equal(t, "Direito Civil", cfg.DefaultMatter)
}
