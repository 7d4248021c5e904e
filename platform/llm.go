package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Message is one role-tagged prompt entry sent to the model service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMConfig 包含模型服务的配置信息
type LLMConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func LLMConfigFromEnv() LLMConfig {
	config := LLMConfig{
		BaseURL:     os.Getenv("LLM_BASE_URL"),
		Model:       os.Getenv("LLM_MODEL"),
		Temperature: 0.5,
		Timeout:     120 * time.Second,
	}
	if config.Model == "" {
		config.Model = "qwen3:30b"
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			config.Temperature = t
		}
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			config.Timeout = time.Duration(s) * time.Second
		}
	}
	return config
}

// LLMClient performs one blocking chat completion round trip against the
// model-serving endpoint. No retry is done here; callers decide what a
// failure means for them.
type LLMClient struct {
	config LLMConfig
	client *http.Client
}

func NewLLMClient(config LLMConfig) *LLMClient {
	return &LLMClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Complete sends the assembled prompt and returns the model's reply text.
func (l *LLMClient) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       l.config.Model,
		Messages:    messages,
		Temperature: l.config.Temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := strings.TrimRight(l.config.BaseURL, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("llm http status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Message.Content == "" {
		return "", fmt.Errorf("chat response missing message content")
	}

	return parsed.Message.Content, nil
}
