package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		Deployment:   "test-deployment",
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
	}
}

// fakeChatServer mimics the chat completions endpoint and captures the
// headers of the last request.
func fakeChatServer(t *testing.T, choices []string, headers *http.Header) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if headers != nil {
			*headers = r.Header.Clone()
		}

		type message struct {
			Content string `json:"content"`
		}
		type choice struct {
			Index   int     `json:"index"`
			Message message `json:"message"`
		}
		chs := make([]choice, len(choices))
		for i, c := range choices {
			chs[i] = choice{Index: i, Message: message{Content: c}}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "test-deployment",
			"choices": chs,
		})
	}))
}

func fakeEmbeddingServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input any `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		count := 1
		if items, ok := body.Input.([]any); ok {
			count = len(items)
		}

		data := make([]map[string]any, count)
		for i := range data {
			vec := make([]float64, dims)
			vec[0] = float64(i + 1)
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "test-deployment",
		})
	}))
}

func TestOpenAIConfig_Configured(t *testing.T) {
	require.True(t, testConfig("https://api.test/v1").Configured())
	require.False(t, OpenAIConfig{}.Configured())

	partial := testConfig("https://api.test/v1")
	partial.APIKey = ""
	require.False(t, partial.Configured())
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	var headers http.Header
	srv := fakeChatServer(t, []string{"hello there"}, &headers)
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	req := NewChatCompletionRequest([]Message{
		SystemMessage("be nice"),
		UserMessage("hi"),
	}).WithTemperature(0.3)

	resp, err := p.ChatCompletion(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "hello there", resp.Content())
	require.False(t, resp.Empty())

	// Model-mesh endpoints authenticate with these headers.
	require.Equal(t, "test-key", headers.Get("api-key"))
	require.Equal(t, "test-deployment", headers.Get("x-ms-model-mesh-model-name"))
}

func TestOpenAIProvider_ChatCompletionEmptyChoices(t *testing.T) {
	srv := fakeChatServer(t, nil, nil)
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	resp, err := p.ChatCompletion(context.Background(),
		NewChatCompletionRequest([]Message{UserMessage("hi")}))
	require.NoError(t, err)
	require.True(t, resp.Empty())
	require.Empty(t, resp.Content())
}

func TestOpenAIProvider_EmbedEmpty(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	vectors, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, vectors)
	require.Equal(t, int64(0), attempts.Load(), "no HTTP request for empty input")
}

func TestOpenAIProvider_Embed(t *testing.T) {
	srv := fakeEmbeddingServer(t, 4)
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	vectors, err := p.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Len(t, vectors[0], 4)
	require.Equal(t, 1.0, vectors[0][0])
	require.Equal(t, 2.0, vectors[1][0])
}

func TestOpenAIProvider_RetriesOnRateLimit(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float64{0.5}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	vectors, err := p.Embed(context.Background(), []string{"text"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	require.Equal(t, int64(3), attempts.Load())
}

func TestOpenAIProvider_DoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	_, err := p.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	require.Equal(t, int64(1), attempts.Load())

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	require.Equal(t, "embedding", serviceErr.Operation())
}

func TestOpenAIProvider_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(testConfig(srv.URL))

	_, err := p.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	// Initial attempt plus maxRetries retries.
	require.Equal(t, int64(4), attempts.Load())
}
