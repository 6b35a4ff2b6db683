// Package v1 implements the versioned REST API.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/btholt/rag-on-azure/application/service"
	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/api/middleware"
)

// AskObserver records the outcome of ask pipeline runs.
type AskObserver interface {
	ObserveAsk(outcome string)
}

// nopObserver is used when no metrics registry is wired in.
type nopObserver struct{}

func (nopObserver) ObserveAsk(string) {}

// Router handles the v1 API endpoints.
type Router struct {
	rag        *service.RAGService
	retrieval  *service.RetrievalService
	reviews    review.ReviewStore
	naiveLimit int
	observer   AskObserver
	logger     *slog.Logger
}

// NewRouter creates a new Router.
func NewRouter(
	rag *service.RAGService,
	retrieval *service.RetrievalService,
	reviews review.ReviewStore,
	naiveLimit int,
	observer AskObserver,
	logger *slog.Logger,
) *Router {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Router{
		rag:        rag,
		retrieval:  retrieval,
		reviews:    reviews,
		naiveLimit: naiveLimit,
		observer:   observer,
		logger:     logger,
	}
}

// Routes returns the chi router for the v1 endpoints.
func (rt *Router) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/ask", rt.Ask)
	router.Post("/search", rt.Search)
	router.Post("/naive-search", rt.NaiveSearch)

	return router
}

// AskRequest is the body for POST /api/v1/ask.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse is the answer plus the retrieval context behind it.
type AskResponse struct {
	Answer         string         `json:"answer"`
	RewrittenQuery string         `json:"rewritten_query"`
	Results        []SearchResult `json:"results"`
}

// SearchRequest is the body for the search endpoints.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult is one ranked review.
type SearchResult struct {
	ReviewID   string  `json:"reviewid"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity,omitempty"`
}

// SearchResponse wraps ranked results.
type SearchResponse struct {
	RewrittenQuery string         `json:"rewritten_query,omitempty"`
	Results        []SearchResult `json:"results"`
}

// Ask handles POST /api/v1/ask: the full pipeline from query to
// composed answer.
func (rt *Router) Ask(w http.ResponseWriter, r *http.Request) {
	query, ok := rt.decodeQuery(w, r)
	if !ok {
		return
	}

	answer, qc, err := rt.rag.Answer(r.Context(), query)
	if err != nil {
		rt.observer.ObserveAsk("error")
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	rt.observer.ObserveAsk("ok")

	middleware.WriteJSON(w, http.StatusOK, AskResponse{
		Answer:         answer,
		RewrittenQuery: qc.Rewritten(),
		Results:        toSearchResults(qc.Results()),
	})
}

// Search handles POST /api/v1/search: vector retrieval without answer
// composition.
func (rt *Router) Search(w http.ResponseWriter, r *http.Request) {
	query, ok := rt.decodeQuery(w, r)
	if !ok {
		return
	}

	qc, err := rt.retrieval.Retrieve(r.Context(), query)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, SearchResponse{
		RewrittenQuery: qc.Rewritten(),
		Results:        toSearchResults(qc.Results()),
	})
}

// NaiveSearch handles POST /api/v1/naive-search: plain substring
// matching against the review tables.
func (rt *Router) NaiveSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := rt.decodeQuery(w, r)
	if !ok {
		return
	}

	results, err := rt.reviews.NaiveSearch(r.Context(), query, rt.naiveLimit)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, SearchResponse{Results: toSearchResults(results)})
}

func (rt *Router) decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteBadRequest(w, r, "invalid JSON body")
		return "", false
	}
	query := strings.TrimSpace(body.Query)
	if query == "" {
		middleware.WriteBadRequest(w, r, "query must not be empty")
		return "", false
	}
	return query, true
}

func toSearchResults(results []review.RetrievalResult) []SearchResult {
	out := make([]SearchResult, len(results))
	for i, result := range results {
		out[i] = SearchResult{
			ReviewID:   result.ReviewID(),
			Title:      result.Title(),
			Artist:     result.Artist(),
			Score:      result.Score(),
			Similarity: result.Similarity(),
		}
	}
	return out
}
