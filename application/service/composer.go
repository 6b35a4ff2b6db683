package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/provider"
)

// NoResponseMessage is returned when the language model produced no
// choices at all.
const NoResponseMessage = "No response generated by the AI service."

const contextPreamble = "Based on your query, here are some relevant music reviews:\n\n"

const reviewSourceNote = "\n- You will be provided a list of music reviews from Pitchfork to help you answer questions."

// AnswerComposer renders retrieved reviews into a grounded prompt and
// asks the language model for a recommendation answer.
type AnswerComposer struct {
	generator    provider.TextGenerator
	systemPrompt string
	log          *slog.Logger
}

// NewAnswerComposer creates a new AnswerComposer.
func NewAnswerComposer(generator provider.TextGenerator, systemPrompt string, log *slog.Logger) *AnswerComposer {
	if systemPrompt == "" {
		systemPrompt = defaultComposerPrompt
	}
	return &AnswerComposer{
		generator:    generator,
		systemPrompt: systemPrompt,
		log:          log.With("component", "composer"),
	}
}

// FormatContext renders retrieval results into the numbered context
// block placed ahead of the user's question.
func FormatContext(results []review.RetrievalResult) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(contextPreamble)
	for i, result := range results {
		fmt.Fprintf(&sb, "%d. Artist: %s, Album: %s, Score: %s/10\n",
			i+1, result.Artist(), result.Title(), review.FormatScore(result.Score()))
	}
	return sb.String()
}

// Compose asks the model to answer query grounded in results. Call
// failures and a missing chat service become an "Error: ..." answer
// rather than an error so the caller always has something to print.
func (c *AnswerComposer) Compose(ctx context.Context, query string, results []review.RetrievalResult) string {
	if c.generator == nil {
		c.log.WarnContext(ctx, "chat service not configured")
		return fmt.Sprintf("Error: %s", provider.ErrNotConfigured)
	}

	systemPrompt := c.systemPrompt
	formattedResults := FormatContext(results)
	if formattedResults != "" {
		systemPrompt += reviewSourceNote
	}

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(systemPrompt),
		provider.UserMessage(formattedResults + "\n\nMy question is: " + query),
	})

	c.log.InfoContext(ctx, "requesting answer", "results", len(results))
	resp, err := c.generator.ChatCompletion(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "answer generation failed", "error", err)
		return fmt.Sprintf("Error: %s", err.Error())
	}
	if resp.Empty() {
		c.log.WarnContext(ctx, "model returned no choices")
		return NoResponseMessage
	}
	return resp.Content()
}
