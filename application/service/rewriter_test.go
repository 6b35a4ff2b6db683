package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btholt/rag-on-azure/infrastructure/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGenerator returns canned responses and records requests.
type fakeGenerator struct {
	response provider.ChatCompletionResponse
	err      error
	requests []provider.ChatCompletionRequest
}

func (f *fakeGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return provider.ChatCompletionResponse{}, f.err
	}
	return f.response, nil
}

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "tagged",
			response: "Here you go: <query>indie rock emotional lyrics</query>",
			want:     "indie rock emotional lyrics",
		},
		{
			name:     "last opening tag wins",
			response: "<query>draft</query> better: <query>final version</query>",
			want:     "final version",
		},
		{
			name:     "no tags",
			response: "just a plain answer",
			want:     "just a plain answer",
		},
		{
			name:     "missing closing tag",
			response: "<query>trailing content",
			want:     "trailing content",
		},
		{
			name:     "surrounding whitespace trimmed first",
			response: "   <query>padded</query>   ",
			want:     "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, extractQuery(tt.response))
		})
	}
}

func TestQueryRewriter_Rewrite(t *testing.T) {
	gen := &fakeGenerator{
		response: provider.NewChatCompletionResponse([]string{"<query>death cab indie rock</query>"}),
	}
	rewriter := NewQueryRewriter(gen, "", testLogger())

	got := rewriter.Rewrite(context.Background(), "recommend me bands like death cab")
	require.Equal(t, "death cab indie rock", got)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	require.Equal(t, rewriterTemperature, req.Temperature())
	require.Len(t, req.Messages(), 2)
	require.Equal(t, provider.RoleSystem, req.Messages()[0].Role())
	require.Contains(t, req.Messages()[1].Content(), "recommend me bands like death cab")
}

func TestQueryRewriter_NilGeneratorPassesThrough(t *testing.T) {
	rewriter := NewQueryRewriter(nil, "", testLogger())
	require.Equal(t, "original", rewriter.Rewrite(context.Background(), "original"))
}

func TestQueryRewriter_ErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("service down")}
	rewriter := NewQueryRewriter(gen, "", testLogger())
	require.Equal(t, "original", rewriter.Rewrite(context.Background(), "original"))
}

func TestQueryRewriter_EmptyResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: provider.NewChatCompletionResponse(nil)}
	rewriter := NewQueryRewriter(gen, "", testLogger())
	require.Equal(t, "original", rewriter.Rewrite(context.Background(), "original"))
}

func TestQueryRewriter_CustomPrompt(t *testing.T) {
	gen := &fakeGenerator{
		response: provider.NewChatCompletionResponse([]string{"<query>x</query>"}),
	}
	rewriter := NewQueryRewriter(gen, "custom system prompt", testLogger())
	rewriter.Rewrite(context.Background(), "anything")

	require.Equal(t, "custom system prompt", gen.requests[0].Messages()[0].Content())
}
