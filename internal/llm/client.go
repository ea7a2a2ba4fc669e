package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Smaug123/bork/internal/logging"
	"github.com/Smaug123/bork/internal/model"
)

// Client issues one prompt per call against an OpenAI-compatible
// chat-completions endpoint and returns the raw textual reply, per §4.D:
// the client's job stops at "issue the request; receive a reply", leaving
// JSON extraction to ExtractActionPayload.
type Client struct {
	config *Config
	http   *http.Client
	log    logging.Logger
}

// NewClient fills in defaults, validates config, and builds a Client.
func NewClient(config *Config, log logging.Logger) (*Client, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM config: %w", err)
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		log:    log,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate sends prompt to the configured model and returns the raw reply
// text, unparsed. Transport failures become *model.LlmUnreachableError;
// an endpoint-level policy refusal becomes *model.LlmRefusedError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.config.DefaultModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal LLM request: %w", err)
	}

	if c.config.DebugLog {
		c.log.Debug("LLM request", "model", reqBody.Model, "body", string(body))
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build LLM request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &model.LlmUnreachableError{Endpoint: url, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.LlmUnreachableError{Endpoint: url, Message: "reading response body: " + err.Error(), Err: err}
	}

	if c.config.DebugLog {
		c.log.Debug("LLM response", "status", resp.StatusCode, "duration", time.Since(start).String(), "body", string(respBody))
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", &model.LlmRefusedError{Message: fmt.Sprintf("endpoint returned status %d: %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &model.LlmUnreachableError{
			Endpoint: url,
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &model.LlmUnreachableError{Endpoint: url, Message: "decoding response: " + err.Error(), Err: err}
	}

	if parsed.Error != nil {
		return "", &model.LlmRefusedError{Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", &model.LlmRefusedError{Message: "no choices in response"}
	}

	return parsed.Choices[0].Message.Content, nil
}
