package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantText   string
		wantTokens int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"candidates": [{"content": {"parts": [{"text": "Hello!"}], "role": "model"}, "finishReason": "STOP"}],
				"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
			}`,
			wantText:   "Hello!",
			wantTokens: 5,
		},
		{
			name:    "rate_limit",
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`,
			wantErr: "unexpected status 429",
		},
		{
			name:    "server_error",
			status:  http.StatusInternalServerError,
			body:    `{"error": {"code": 500, "message": "internal error", "status": "INTERNAL"}}`,
			wantErr: "unexpected status 500",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/"+defaultModel+":generateContent", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			resp, err := client.GenerateContent(context.Background(), GenerateRequest{
				Contents: []Content{{Role: "user", Parts: []Part{{Text: "Hi"}}}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantText, resp.Text())
			assert.Equal(t, tt.wantTokens, resp.Usage.CandidatesTokenCount)
		})
	}
}

func TestGenerateContent_RequestModelOverridesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-exotic:generateContent", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}],"usageMetadata":{}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithModel("gemini-other"))
	_, err := client.GenerateContent(context.Background(), GenerateRequest{
		Model:    "gemini-exotic",
		Contents: []Content{{Parts: []Part{{Text: "test"}}}},
	})
	require.NoError(t, err)
}

func TestGenerateContent_GroundingTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		err := json.NewDecoder(r.Body).Decode(&raw)
		require.NoError(t, err)

		tools, ok := raw["tools"].([]any)
		require.True(t, ok, "tools should be in the request body")
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]any)
		_, hasSearch := tool["googleSearch"]
		assert.True(t, hasSearch)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "grounded"}]},
				"groundingMetadata": {
					"groundingChunks": [
						{"web": {"title": "Example", "uri": "https://example.com"}},
						{"web": {"title": "No URI", "uri": ""}},
						{}
					]
				}
			}],
			"usageMetadata": {}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.GenerateContent(context.Background(), GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: "test"}}}},
		Tools:    []Tool{{GoogleSearch: &GoogleSearch{}}},
	})
	require.NoError(t, err)

	sources := resp.GroundingSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "Example", sources[0].Title)
	assert.Equal(t, "https://example.com", sources[0].URI)
}

func TestGenerateContent_ResponseSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		err := json.NewDecoder(r.Body).Decode(&raw)
		require.NoError(t, err)

		gc, ok := raw["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "application/json", gc["response_mime_type"])
		_, hasSchema := gc["response_schema"]
		assert.True(t, hasSchema)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}],"usageMetadata":{}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GenerateContent(context.Background(), GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: "test"}}}},
		GenerationConfig: &GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   map[string]any{"type": "object"},
		},
	})
	require.NoError(t, err)
}

func TestGenerateContent_NoTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		err := json.NewDecoder(r.Body).Decode(&raw)
		require.NoError(t, err)

		gc, ok := raw["generationConfig"].(map[string]any)
		require.True(t, ok)
		_, hasTemp := gc["temperature"]
		assert.False(t, hasTemp, "temperature should be absent when nil")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}],"usageMetadata":{}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GenerateContent(context.Background(), GenerateRequest{
		Contents:         []Content{{Parts: []Part{{Text: "test"}}}},
		GenerationConfig: &GenerationConfig{MaxOutputTokens: 256},
	})
	require.NoError(t, err)
}

func TestGenerateContent_ErrorEnvelopeMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.GenerateContent(context.Background(), GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: "test"}}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateContent_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[],"usageMetadata":{}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateContent(ctx, GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: "test"}}}},
	})
	require.Error(t, err)
}

func TestText_MultipleParts(t *testing.T) {
	t.Parallel()
	resp := &GenerateResponse{}
	assert.Equal(t, "", resp.Text())

	resp.Candidates = []Candidate{{}}
	resp.Candidates[0].Content.Parts = []Part{{Text: "a"}, {Text: "b"}}
	assert.Equal(t, "ab", resp.Text())
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{}
	c := NewClient("test-key", WithHTTPClient(customClient))
	hc := c.(*httpClient)
	assert.Equal(t, customClient, hc.http)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("my-key")
	hc := c.(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, defaultModel, hc.model)
	assert.NotNil(t, hc.http)
	assert.NotNil(t, hc.limiter)
}
