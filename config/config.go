package config

import (
	"os"
	"strings"

	"cinema-cli/service"
)

type Config struct {
	APIURL       string
	ImageBaseURL string
	LogLevel     string
	// UserAgent is set from the build version, not the environment.
	UserAgent string
}

// Load reads the CINEMA_* environment. Flags may override the result.
func Load() Config {
	apiURL := strings.TrimSpace(os.Getenv("CINEMA_API_URL"))
	if apiURL == "" {
		apiURL = service.DefaultBaseURL
	}

	logLevel := strings.TrimSpace(os.Getenv("CINEMA_LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		APIURL:       strings.TrimRight(apiURL, "/"),
		ImageBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("CINEMA_IMAGE_BASE_URL")), "/"),
		LogLevel:     logLevel,
	}
}

// ImageBase is where relative poster paths are served from.
func (c Config) ImageBase() string {
	if c.ImageBaseURL != "" {
		return c.ImageBaseURL
	}
	return c.APIURL
}
