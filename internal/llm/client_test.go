package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Smaug123/bork/internal/logging"
	"github.com/Smaug123/bork/internal/model"
)

func TestNewClient(t *testing.T) {
	t.Run("valid config fills defaults", func(t *testing.T) {
		cfg := &Config{APIKey: "k", DefaultModel: "m"}
		client, err := NewClient(cfg, logging.Discard())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.config.BaseURL == "" {
			t.Error("expected BaseURL to default")
		}
	})

	t.Run("missing API key rejected", func(t *testing.T) {
		cfg := &Config{DefaultModel: "m"}
		if _, err := NewClient(cfg, logging.Discard()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestClient_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{}
		resp.Choices = make([]struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}, 1)
		resp.Choices[0].Message.Content = `{"create-or-update":{"a.txt":"hi"}}`
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(&Config{APIKey: "k", BaseURL: server.URL, DefaultModel: "m"}, logging.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	reply, err := client.Generate(t.Context(), "do something")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != `{"create-or-update":{"a.txt":"hi"}}` {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestClient_Generate_Refused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"policy violation"}`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{APIKey: "k", BaseURL: server.URL, DefaultModel: "m"}, logging.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Generate(t.Context(), "do something")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var refused *model.LlmRefusedError
	if !isRefused(err, &refused) {
		t.Errorf("expected *model.LlmRefusedError, got %T: %v", err, err)
	}
}

func TestClient_Generate_Unreachable(t *testing.T) {
	client, err := NewClient(&Config{APIKey: "k", BaseURL: "http://127.0.0.1:0", DefaultModel: "m"}, logging.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Generate(t.Context(), "do something")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var unreachable *model.LlmUnreachableError
	if !isUnreachable(err, &unreachable) {
		t.Errorf("expected *model.LlmUnreachableError, got %T: %v", err, err)
	}
}

func isRefused(err error, target **model.LlmRefusedError) bool {
	if e, ok := err.(*model.LlmRefusedError); ok {
		*target = e
		return true
	}
	return false
}

func isUnreachable(err error, target **model.LlmUnreachableError) bool {
	if e, ok := err.(*model.LlmUnreachableError); ok {
		*target = e
		return true
	}
	return false
}
