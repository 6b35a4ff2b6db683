package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/btholt/rag-on-azure/infrastructure/provider"
)

const rewriterTemperature = 0.3

// QueryRewriter reformulates user queries into keyword-dense search
// terms before they hit the vector store. It degrades gracefully: any
// failure returns the original query untouched.
type QueryRewriter struct {
	generator    provider.TextGenerator
	systemPrompt string
	log          *slog.Logger
}

// NewQueryRewriter creates a new QueryRewriter. A nil generator means
// no chat endpoint is configured and every query passes through.
func NewQueryRewriter(generator provider.TextGenerator, systemPrompt string, log *slog.Logger) *QueryRewriter {
	if systemPrompt == "" {
		systemPrompt = defaultRewriterPrompt
	}
	return &QueryRewriter{
		generator:    generator,
		systemPrompt: systemPrompt,
		log:          log.With("component", "rewriter"),
	}
}

// Rewrite returns the retrieval-optimized form of query. It never
// returns an error: the original query is always a valid fallback.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string) string {
	if r.generator == nil {
		r.log.WarnContext(ctx, "chat endpoint not configured, using original query")
		return query
	}

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(r.systemPrompt),
		provider.UserMessage(fmt.Sprintf("Please optimize this query for vector search: %q", query)),
	}).WithTemperature(rewriterTemperature)

	resp, err := r.generator.ChatCompletion(ctx, req)
	if err != nil {
		r.log.ErrorContext(ctx, "query rewrite failed, using original query", "error", err)
		return query
	}
	if resp.Empty() {
		r.log.WarnContext(ctx, "empty rewrite response, using original query")
		return query
	}

	rewritten := extractQuery(resp.Content())
	r.log.DebugContext(ctx, "rewrote query", "original", query, "rewritten", rewritten)
	return rewritten
}

// extractQuery pulls the query out of a <query>-tagged response. The
// text after the last opening tag and before the first closing tag
// that follows it wins; a missing closing tag yields the trailing
// portion as-is.
func extractQuery(response string) string {
	trimmed := strings.TrimSpace(response)
	if idx := strings.LastIndex(trimmed, "<query>"); idx >= 0 {
		trimmed = trimmed[idx+len("<query>"):]
	}
	if idx := strings.Index(trimmed, "</query>"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
