package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/pkg/models"
)

// Client talks to the prompt-generation collaborator over its
// chat-completions endpoint. The collaborator is opaque: a structured brief
// goes in, a JSON envelope with exactly three concepts comes out.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewClient creates a new generation client
func NewClient(cfg config.GenerationConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a marketing creative director. Given a brief, " +
	"respond with a JSON object {\"concepts\": [...]} containing exactly 3 " +
	"distinct creative concepts. Each concept has the fields: headline " +
	"(string or null), explanation, prompt, negative_prompt, " +
	"instagram_caption, and video_prompt (string or null). Respond with JSON " +
	"only."

// Generate submits a brief and returns the collaborator's concepts. Anything
// other than a well-formed envelope with exactly three concepts is an error.
func (c *Client) Generate(ctx context.Context, brief *models.Brief) ([]models.Concept, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: briefPrompt(brief)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation endpoint returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var envelope chatResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, fmt.Errorf("generation response contained no choices")
	}

	var generated models.GeneratedResponse
	if err := json.Unmarshal([]byte(envelope.Choices[0].Message.Content), &generated); err != nil {
		return nil, fmt.Errorf("failed to decode generated concepts: %w", err)
	}

	if len(generated.Concepts) != models.ConceptCount {
		return nil, fmt.Errorf("expected %d concepts, got %d", models.ConceptCount, len(generated.Concepts))
	}
	for i, concept := range generated.Concepts {
		if concept.Prompt == "" {
			return nil, fmt.Errorf("concept %d has an empty prompt", i)
		}
	}

	return generated.Concepts, nil
}

// briefPrompt renders the brief as the user message.
func briefPrompt(brief *models.Brief) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Niche: %s\nTheme: %s\n", brief.Niche, brief.Theme)
	if brief.AdditionalContext != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", brief.AdditionalContext)
	}
	if brief.AspectRatio != "" {
		fmt.Fprintf(&b, "Aspect ratio: %s\n", brief.AspectRatio)
	}
	if brief.IncludeHeadline {
		b.WriteString("Include a headline in each concept.\n")
	} else {
		b.WriteString("Set headline to null.\n")
	}
	if brief.StyleImage != "" {
		fmt.Fprintf(&b, "A style reference image is attached; follow it with %d%% fidelity.\n", brief.StyleFidelity)
	}
	if brief.BaseImage != "" {
		b.WriteString("A base image is attached; concepts should transform it.\n")
	}
	if brief.ProductImage != "" {
		b.WriteString("A product image is attached; feature the product prominently.\n")
	}
	if brief.IncludeVideo {
		b.WriteString("Include a video_prompt in each concept.")
		if brief.VideoContext != "" {
			fmt.Fprintf(&b, " Video context: %s", brief.VideoContext)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Set video_prompt to null.\n")
	}

	return b.String()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
