package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CINEMA_API_URL", "")
	t.Setenv("CINEMA_LOG_LEVEL", "")
	t.Setenv("CINEMA_IMAGE_BASE_URL", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:3000", cfg.ImageBase())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CINEMA_API_URL", "https://api.example.com/ ")
	t.Setenv("CINEMA_LOG_LEVEL", "debug")
	t.Setenv("CINEMA_IMAGE_BASE_URL", "https://cdn.example.com/")

	cfg := Load()
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://cdn.example.com", cfg.ImageBase())
}
