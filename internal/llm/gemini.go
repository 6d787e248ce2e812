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

	"github.com/alexanderramin/roaster/internal/config"
)

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	cfg      config.GenerationConfig
	http     *http.Client
	observer Observer
	policy   retryPolicy
}

// NewGeminiClient returns a client for cfg. It fails with ErrMissingAPIKey
// when no key is configured.
func NewGeminiClient(cfg config.GenerationConfig, observer Observer) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &GeminiClient{
		cfg:      cfg,
		http:     newHTTPClient(),
		observer: observer,
		policy:   retryPolicy{Timeout: cfg.Timeout, MaxRetries: cfg.MaxRetries},
	}, nil
}

func (c *GeminiClient) Name() string { return ProviderGemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiRequest is the JSON body sent to POST {model}:generateContent.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends directive as a single user turn and returns the first
// candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, directive string) (string, error) {
	start := time.Now()
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: directive}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	}

	text, attempts, err := c.policy.run(ctx, func(ctx context.Context) (string, error) {
		return c.doRequest(ctx, body)
	})
	c.observer.OnCallComplete(CallEvent{
		Provider:  ProviderGemini,
		Model:     c.cfg.Model,
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

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
}

func (c *GeminiClient) doRequest(ctx context.Context, body geminiRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var resp geminiResponse
	if httpResp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &resp) == nil && resp.Error != nil {
			return "", fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, resp.Error.Message)
		}
		return "", fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidOutput)
	}

	var parts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		parts = append(parts, p.Text)
	}
	return CleanText(strings.Join(parts, ""))
}
