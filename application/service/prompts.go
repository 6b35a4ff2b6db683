// Package service contains the application services that make up the
// retrieval pipeline: ingestion, query rewriting, vector retrieval,
// and answer composition.
package service

import "github.com/btholt/rag-on-azure/internal/config"

const defaultRewriterPrompt = "You are a query optimizer for RAG systems. " +
	"Your goal is to reformulate user queries to be more effective for retrieval " +
	"from a vector database. Make the query clear, specific, and focused on key " +
	"information needs without changing the original intent. The vector database " +
	"is a list of music reviews with embeddings generated from the text. Please " +
	"wrap your final response in <query> tags. This is keyword based that is " +
	"going to be querying against titles, genres, artist names, and written " +
	"reviews so be sure to include the most important keywords in your query " +
	"and no superfluous terms."

const defaultComposerPrompt = "You are a helpful music recommendation assistant. " +
	"Use the provided music review information to answer questions about music, " +
	"artists, and albums. You must give at least five recommendations. " +
	"Use ANSI terminal coloring for emphasis - here are examples:\n" +
	"- Blue text: \x1b[34mBlue Text\x1b[0m\n" +
	"- Bold red text: \x1b[1;31mBold Red Text\x1b[0m\n" +
	"- Artist names should be \x1b[1;36mcyan and bold\x1b[0m \n" +
	"- Album names should be \x1b[1;33myellow and bold\x1b[0m\n" +
	"- Scores should be \x1b[1;31mbold and red\x1b[0m\n" +
	"- Make use of emojis to make your responses more engaging and fun! 🎵🎶\n"

// ResolvePrompts fills empty prompt overrides with the built-in
// defaults.
func ResolvePrompts(overrides config.Prompts) config.Prompts {
	resolved := overrides
	if resolved.Rewriter == "" {
		resolved.Rewriter = defaultRewriterPrompt
	}
	if resolved.Composer == "" {
		resolved.Composer = defaultComposerPrompt
	}
	return resolved
}
