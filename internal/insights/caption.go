package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultCaptionBaseURL = "https://api.openai.com/v1"

// CaptionWriter generates the short marketing-style caption for a client's
// most memorable purchase. Implementations call an external text-generation
// service; the summary endpoint works without one.
type CaptionWriter interface {
	MemorableCaption(ctx context.Context, p MemorablePurchase) (string, error)
}

// OpenAICaptioner implements CaptionWriter against an OpenAI-compatible
// chat-completions API.
type OpenAICaptioner struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// NewOpenAICaptioner creates a captioner using the given API key.
func NewOpenAICaptioner(apiKey string) *OpenAICaptioner {
	return &OpenAICaptioner{
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		baseURL: defaultCaptionBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultCaptionRetryConfig,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// MemorableCaption asks the text-generation service for a one-line friendly
// caption in Spanish highlighting the purchase.
func (c *OpenAICaptioner) MemorableCaption(ctx context.Context, p MemorablePurchase) (string, error) {
	prompt := fmt.Sprintf(
		"El usuario hizo su compra más memorable el %s, gastando $%.2f en %s. "+
			"Escribe una frase breve en español, amigable, tipo marketing, que destaque esta compra como un momento especial.",
		p.DateText, p.Amount, p.Merchant)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Eres un redactor creativo para una fintech joven."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   80,
		Temperature: 0.8,
	}

	return withRetry(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.complete(ctx, body)
	})
}

func (c *OpenAICaptioner) complete(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("caption service: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("caption service returned no choices")
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

// FallbackCaption is used when no caption service is configured or the call
// fails; the summary endpoint never fails because of the caption.
func FallbackCaption(p MemorablePurchase) string {
	return fmt.Sprintf("Tu compra más memorable: $%.2f en %s el %s.", p.Amount, p.Merchant, p.DateText)
}
