package llm

import (
	"fmt"
	"os"
	"time"
)

// Config contains configuration for talking to the model endpoint.
type Config struct {
	// APIKey authenticates against the endpoint.
	APIKey string

	// BaseURL is the OpenAI-compatible chat-completions base URL.
	BaseURL string

	// DefaultModel is used when a request does not name one explicitly.
	DefaultModel string

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// DebugLog mirrors BORK_ENABLE_DEBUG_LOG: when true the client emits
	// the full request and full response to the diagnostic stream (§4.D).
	DebugLog bool
}

// ConfigFromEnv reads connection details from the environment, following
// the despec convention of keeping LLM credentials out of the repo config
// (§4.H lists "LLM-provider credentials" as opaque to the core, passed
// through to the LLM client).
func ConfigFromEnv() *Config {
	cfg := &Config{
		APIKey:       os.Getenv("BORK_LLM_API_KEY"),
		BaseURL:      os.Getenv("BORK_LLM_BASE_URL"),
		DefaultModel: os.Getenv("BORK_LLM_MODEL"),
		DebugLog:     os.Getenv("BORK_ENABLE_DEBUG_LOG") == "1",
	}
	cfg.SetDefaults()
	return cfg
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIKey is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("BaseURL is required")
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("DefaultModel is required")
	}
	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}
