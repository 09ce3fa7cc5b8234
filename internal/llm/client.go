package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel  = "google/gemini-2.5-flash-preview-09-2025"
)

// Client handles communication with the OpenRouter API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Message represents a chat message
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image)
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents an image URL in the message
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents the API request structure
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Response represents the API response structure
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Choice represents a single completion choice
type Choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// NewClient creates a new LLM client
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: openRouterURL,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

// Complete sends a prompt, optionally with a page image, and returns the
// model's text response. Any transport- or API-level problem surfaces as an
// ordinary error for the caller's retry policy to handle.
func (c *Client) Complete(ctx context.Context, prompt, imagePath string, maxTokens int, temperature float64) (string, error) {
	req, err := c.buildRequest(prompt, imagePath, maxTokens, temperature)
	if err != nil {
		return "", domain.APIError("Failed to build request", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", domain.APIError("Failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", domain.APIError("Failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/hebdoc/pdf-translator")
	httpReq.Header.Set("X-Title", "PDF Hebrew Translator")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", domain.APIError("Failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", domain.APIError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300)), nil)
	}

	var apiResp Response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", domain.APIError("Failed to decode response", err)
	}
	if apiResp.Error != nil {
		return "", domain.APIError(fmt.Sprintf("API error %d: %s", apiResp.Error.Code, apiResp.Error.Message), nil)
	}
	if len(apiResp.Choices) == 0 {
		return "", domain.APIError("Empty response from model", nil)
	}

	return apiResp.Choices[0].Message.Content, nil
}

// buildRequest constructs the API request, attaching the page image inline
// as a base64 data URL when an image path is supplied.
func (c *Client) buildRequest(prompt, imagePath string, maxTokens int, temperature float64) (*Request, error) {
	parts := []ContentPart{
		{Type: "text", Text: prompt},
	}

	if imagePath != "" {
		imageData, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}

		base64Image := base64.StdEncoding.EncodeToString(imageData)
		parts = append(parts, ContentPart{
			Type: "image_url",
			ImageURL: &ImageURL{
				URL: "data:image/jpeg;base64," + base64Image,
			},
		})
	}

	return &Request{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: parts}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
