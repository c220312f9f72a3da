package config

import "os"

// Config holds process-level settings sourced from the environment.
type Config struct {
	Port                    string
	OutputDir               string
	TranscriptionConfigFile string
	GenerationConfigFile    string
	WhisperBaseURL          string
	LLMBaseURL              string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		OutputDir:               getEnv("OUTPUT_DIR", "outputs"),
		TranscriptionConfigFile: getEnv("TRANSCRIPTION_CONFIG_FILE", "transcription_config.json"),
		GenerationConfigFile:    getEnv("GENERATION_CONFIG_FILE", "agent_config.json"),
		WhisperBaseURL:          getEnv("BASE_URL", "https://api.openai.com/v1"),
		LLMBaseURL:              getEnv("LLM_API_URL", "https://api.openai.com/v1"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
