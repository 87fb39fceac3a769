package domain

import (
	"context"
	"fmt"
)

// Document represents a single text file loaded into the system.
type Document struct {
	Name    string
	Content string
}

// RankedResult is a document name paired with its match percentage.
type RankedResult struct {
	Name  string
	Score int
}

func (r RankedResult) String() string {
	return fmt.Sprintf("%s : %d%%", r.Name, r.Score)
}

// Ranking is the outcome of scoring one query against a corpus.
// Results are ordered by score, highest first.
type Ranking struct {
	Query   string
	Results []RankedResult
}

// NoMatches reports whether no document survived ranking.
func (r Ranking) NoMatches() bool { return len(r.Results) == 0 }

// Searcher ranks queries against a loaded corpus.
type Searcher interface {
	Search(ctx context.Context, query string) (Ranking, error)
	Document(name string) (Document, bool)
	Corpus() *Corpus
}
