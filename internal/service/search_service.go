package service

import (
	"context"
	"log/slog"
	"time"

	"simplesearch/internal/domain"
	"simplesearch/internal/ranker"
)

var _ domain.Searcher = (*SearchServiceImpl)(nil)

// SearchServiceImpl answers queries against one immutable corpus.
type SearchServiceImpl struct {
	corpus *domain.Corpus
	opts   ranker.Options
	logger *slog.Logger
}

// NewSearchService creates a search service over corpus. A nil logger uses
// slog.Default.
func NewSearchService(corpus *domain.Corpus, opts ranker.Options, logger *slog.Logger) *SearchServiceImpl {
	if corpus == nil {
		corpus = domain.NewCorpus()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchServiceImpl{corpus: corpus, opts: opts, logger: logger}
}

func (s *SearchServiceImpl) Search(ctx context.Context, query string) (domain.Ranking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ranking{Query: query}, err
	}
	start := time.Now()
	ranking, err := ranker.Rank(s.corpus, query, s.opts)
	if err != nil {
		s.logger.Debug("query failed", "query", query, "error", err)
		return ranking, err
	}
	s.logger.Debug("query ranked",
		"query", query,
		"matches", len(ranking.Results),
		"elapsed", time.Since(start))
	return ranking, nil
}

func (s *SearchServiceImpl) Document(name string) (domain.Document, bool) {
	return s.corpus.Lookup(name)
}

func (s *SearchServiceImpl) Corpus() *domain.Corpus { return s.corpus }
