package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLLMClientComplete(t *testing.T) {
	var gotPath string
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"role":"assistant","content":"hallo daar"}}`))
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{
		BaseURL:     server.URL,
		Model:       "qwen3:30b",
		Temperature: 0.5,
		Timeout:     5 * time.Second,
	})

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "directive"},
		{Role: "user", Content: "hoi"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "hallo daar" {
		t.Fatalf("Complete() = %q, want %q", reply, "hallo daar")
	}

	if gotPath != "/api/chat" {
		t.Fatalf("request path = %q, want /api/chat", gotPath)
	}
	if gotBody.Model != "qwen3:30b" {
		t.Fatalf("request model = %q, want qwen3:30b", gotBody.Model)
	}
	if gotBody.Temperature != 0.5 {
		t.Fatalf("request temperature = %v, want 0.5", gotBody.Temperature)
	}
	if gotBody.Stream {
		t.Fatal("request stream = true, want false")
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("request messages = %+v, want directive then user turn", gotBody.Messages)
	}
}

func TestLLMClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{BaseURL: server.URL, Model: "qwen3:30b", Timeout: 5 * time.Second})
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}); err == nil {
		t.Fatal("Complete() error = nil, want error on HTTP 500")
	}
}

func TestLLMClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":`))
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{BaseURL: server.URL, Model: "qwen3:30b", Timeout: 5 * time.Second})
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}); err == nil {
		t.Fatal("Complete() error = nil, want error on malformed body")
	}
}

func TestLLMClientMissingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant"}}`))
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{BaseURL: server.URL, Model: "qwen3:30b", Timeout: 5 * time.Second})
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}); err == nil {
		t.Fatal("Complete() error = nil, want error when content is absent")
	}
}

func TestLLMClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"message":{"content":"te laat"}}`))
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{BaseURL: server.URL, Model: "qwen3:30b", Timeout: 20 * time.Millisecond})
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}); err == nil {
		t.Fatal("Complete() error = nil, want timeout error")
	}
}

func TestLLMConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://localhost:11434")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_TEMPERATURE", "")
	t.Setenv("LLM_TIMEOUT_SECONDS", "")

	config := LLMConfigFromEnv()
	if config.Model != "qwen3:30b" {
		t.Fatalf("default model = %q, want qwen3:30b", config.Model)
	}
	if config.Temperature != 0.5 {
		t.Fatalf("default temperature = %v, want 0.5", config.Temperature)
	}
	if config.Timeout != 120*time.Second {
		t.Fatalf("default timeout = %v, want 120s", config.Timeout)
	}
}
