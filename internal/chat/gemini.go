package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

// ErrNoAPIKey is returned by Generate when the client has no key.
var ErrNoAPIKey = errors.New("gemini API key not configured")

// GenerateContentRequest is the native Gemini generateContent body.
type GenerateContentRequest struct {
	Contents          []Content              `json:"contents"`
	SystemInstruction *SystemInstructionBody `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig      `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type SystemInstructionBody struct {
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type GenerateContentResponse struct {
	Candidates    []Candidate   `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
	ModelVersion  string        `json:"modelVersion"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Text concatenates the parts of the first candidate.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxTries counts the first attempt. Zero means 3.
	MaxTries uint
	Logger   *log.Logger
}

// GeminiClient calls the generateContent endpoint directly over HTTP.
type GeminiClient struct {
	cfg  GeminiConfig
	http *http.Client
	// newBackOff is replaced in tests to avoid real sleeps.
	newBackOff func() backoff.BackOff
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 3
	}
	return &GeminiClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			return b
		},
	}
}

func (c *GeminiClient) Model() string { return c.cfg.Model }

// Generate sends one generateContent call, retrying transport errors, 429
// and 5xx with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, system string, contents []Content) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	reqBody := GenerateContentRequest{Contents: contents}
	if system != "" {
		reqBody.SystemInstruction = &SystemInstructionBody{Parts: []Part{{Text: system}}}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	attempt := 0

	resp, err := backoff.Retry(ctx, func() (*GenerateContentResponse, error) {
		attempt++
		if attempt > 1 && c.cfg.Logger != nil {
			c.cfg.Logger.Printf("gemini: retry attempt %d", attempt)
		}
		return c.do(ctx, url, body)
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.cfg.MaxTries),
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (c *GeminiClient) do(ctx context.Context, url string, body []byte) (*GenerateContentResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := statusError(resp.StatusCode, raw)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(apiErr)
		}
		return nil, apiErr
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

func statusError(code int, body []byte) error {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("gemini API error (%d %s): %s", code, e.Error.Status, e.Error.Message)
	}
	return fmt.Errorf("gemini API error (%d)", code)
}
