package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar         = "APP_NAME"
	apiURLVar          = "PENTHREY_API_URL"
	credentialsFileVar = "PENTHREY_CREDENTIALS_FILE"

	defaultAPIBaseURL = "http://127.0.0.1:8000/api/v1"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Penthrey")
}

// GetAPIBaseURL returns the base URL of the backend API, including the
// version prefix (e.g. "https://api.penthrey.com/api/v1").
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLVar, defaultAPIBaseURL)
}

// GetCredentialsFile returns where the session tokens are persisted.
func (EnvVars) GetCredentialsFile() string {
	if path := os.Getenv(credentialsFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".penthrey", "credentials.json")
	}
	return filepath.Join(home, ".config", "penthrey", "credentials.json")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
