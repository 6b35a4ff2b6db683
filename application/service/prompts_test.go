package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btholt/rag-on-azure/internal/config"
)

func TestResolvePrompts_Defaults(t *testing.T) {
	resolved := ResolvePrompts(config.Prompts{})
	require.Contains(t, resolved.Rewriter, "query optimizer for RAG systems")
	require.Contains(t, resolved.Composer, "at least five recommendations")
}

func TestResolvePrompts_Overrides(t *testing.T) {
	resolved := ResolvePrompts(config.Prompts{Rewriter: "custom rewriter"})
	require.Equal(t, "custom rewriter", resolved.Rewriter)
	require.Contains(t, resolved.Composer, "music recommendation assistant")
}
