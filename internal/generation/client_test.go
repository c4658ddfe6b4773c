package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conceptsJSON(n int) string {
	concepts := make([]map[string]interface{}, n)
	for i := range concepts {
		concepts[i] = map[string]interface{}{
			"headline":          nil,
			"explanation":       "why it works",
			"prompt":            "a detailed prompt",
			"negative_prompt":   "blurry, low quality",
			"instagram_caption": "caption",
			"video_prompt":      nil,
		}
	}

	content, _ := json.Marshal(map[string]interface{}{"concepts": concepts})
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": string(content)}},
		},
	})
	return string(body)
}

func testClient(url string) *Client {
	return NewClient(config.GenerationConfig{
		Endpoint: url,
		APIKey:   "test-key",
		Model:    "test-model",
		Timeout:  5 * time.Second,
	})
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Niche: fitness")
		assert.Contains(t, req.Messages[1].Content, "Theme: summer launch")

		w.Write([]byte(conceptsJSON(3)))
	}))
	defer server.Close()

	concepts, err := testClient(server.URL).Generate(context.Background(), &models.Brief{
		Niche: "fitness",
		Theme: "summer launch",
	})
	require.NoError(t, err)
	assert.Len(t, concepts, 3)
	assert.Equal(t, "a detailed prompt", concepts[0].Prompt)
}

func TestClientGenerateWrongConceptCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(conceptsJSON(2)))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Generate(context.Background(), &models.Brief{Niche: "n", Theme: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 concepts")
}

func TestClientGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Generate(context.Background(), &models.Brief{Niche: "n", Theme: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientGenerateMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": "not json at all"}},
			},
		})
		w.Write(body)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Generate(context.Background(), &models.Brief{Niche: "n", Theme: "t"})
	assert.Error(t, err)
}

func TestBriefPromptFlags(t *testing.T) {
	prompt := briefPrompt(&models.Brief{
		Niche:           "coffee",
		Theme:           "morning ritual",
		IncludeHeadline: true,
		IncludeVideo:    true,
		VideoContext:    "slow pour shot",
		StyleImage:      "data:image/png;base64,AAA",
		StyleFidelity:   80,
	})

	assert.Contains(t, prompt, "Include a headline")
	assert.Contains(t, prompt, "video_prompt")
	assert.Contains(t, prompt, "slow pour shot")
	assert.Contains(t, prompt, "80% fidelity")

	prompt = briefPrompt(&models.Brief{Niche: "coffee", Theme: "morning ritual"})
	assert.Contains(t, prompt, "Set headline to null")
	assert.Contains(t, prompt, "Set video_prompt to null")
}
