package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/roaster/internal/config"
)

const roastSystemPrompt = "You write short, playful Hinglish roasts about screen time. Reply with the roast only."

// OllamaClient talks to a local Ollama instance.
type OllamaClient struct {
	cfg      config.GenerationConfig
	http     *http.Client
	observer Observer
	policy   retryPolicy
}

// NewOllamaClient creates a client for the endpoint and model in cfg.
func NewOllamaClient(cfg config.GenerationConfig, observer Observer) *OllamaClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OllamaClient{
		cfg:      cfg,
		http:     newHTTPClient(),
		observer: observer,
		policy:   retryPolicy{Timeout: cfg.Timeout, MaxRetries: cfg.MaxRetries},
	}
}

func (c *OllamaClient) Name() string { return ProviderOllama }

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *OllamaClient) Generate(ctx context.Context, directive string) (string, error) {
	start := time.Now()
	body := ollamaRequest{
		Model:  c.cfg.OllamaModel,
		System: roastSystemPrompt,
		Prompt: directive,
		Stream: false,
		Options: ollamaOptions{
			Temperature: c.cfg.Temperature,
			NumPredict:  c.cfg.MaxTokens,
		},
	}

	text, attempts, err := c.policy.run(ctx, func(ctx context.Context) (string, error) {
		return c.doRequest(ctx, body)
	})
	c.observer.OnCallComplete(CallEvent{
		Provider:  ProviderOllama,
		Model:     c.cfg.OllamaModel,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: ErrorCode(err),
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *OllamaClient) doRequest(ctx context.Context, body ollamaRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.OllamaEndpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	return CleanText(resp.Response)
}

// Available checks whether the Ollama server is reachable.
func (c *OllamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.OllamaEndpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
