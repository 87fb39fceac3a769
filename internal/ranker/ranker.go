// Package ranker scores documents against a query using word-boundary
// matching. A query found as a whole phrase scores 100; otherwise each
// space-separated word that appears contributes a proportional share,
// rounded up.
package ranker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"simplesearch/internal/domain"
)

// MatchMode controls how query text is turned into a boundary pattern.
type MatchMode string

const (
	// MatchLiteral escapes every regular expression metacharacter in the query.
	MatchLiteral MatchMode = "literal"
	// MatchPattern uses the query as a regular expression, unescaped.
	MatchPattern MatchMode = "pattern"
)

// FullMatchScore is the score for a whole-phrase match.
const FullMatchScore = 100

// ParseMatchMode converts a config string into a MatchMode. An empty string
// selects MatchLiteral.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchLiteral:
		return MatchLiteral, nil
	case MatchPattern:
		return MatchPattern, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

// Options configures Rank.
type Options struct {
	Mode MatchMode
}

// Rank scores every document of corpus against query and returns the
// survivors ordered by score, highest first. Documents with equal scores keep
// corpus order. Empty documents and documents matching no word are left out.
//
// In MatchPattern mode a phrase or word that is not a valid expression
// matches nothing; ErrInvalidQuery is returned only when no part of the
// query compiles.
func Rank(corpus *domain.Corpus, query string, opts Options) (domain.Ranking, error) {
	ranking := domain.Ranking{Query: query}

	q := strings.ToLower(query)
	words := strings.Split(q, " ")
	phrase, matchers, err := compileAll(q, words, opts.Mode)
	if err != nil {
		return ranking, err
	}

	for _, doc := range corpus.Documents() {
		if doc.Content == "" {
			continue
		}
		content := strings.ToLower(doc.Content)
		if phrase != nil && phrase.MatchString(content) {
			ranking.Results = append(ranking.Results, domain.RankedResult{Name: doc.Name, Score: FullMatchScore})
			continue
		}
		count := 0
		for _, m := range matchers {
			if m != nil && m.MatchString(content) {
				count++
			}
		}
		if count > 0 {
			ranking.Results = append(ranking.Results, domain.RankedResult{
				Name:  doc.Name,
				Score: Percent(count, len(words)),
			})
		}
	}

	sort.SliceStable(ranking.Results, func(i, j int) bool {
		return ranking.Results[i].Score > ranking.Results[j].Score
	})
	return ranking, nil
}

// Percent returns matched/total as a percentage rounded up. It returns 0 when
// total is not positive.
func Percent(matched, total int) int {
	if total <= 0 || matched <= 0 {
		return 0
	}
	return (matched*100 + total - 1) / total
}

// compileAll builds the phrase matcher and one matcher per word. Empty words
// get a nil matcher. In MatchPattern mode invalid parts are left nil.
func compileAll(q string, words []string, mode MatchMode) (*regexp.Regexp, []*regexp.Regexp, error) {
	var firstErr error
	valid := 0
	try := func(text string) *regexp.Regexp {
		re, err := compile(text, mode)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		valid++
		return re
	}

	phrase := try(q)
	matchers := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		if w != "" {
			matchers[i] = try(w)
		}
	}
	if firstErr != nil && (mode != MatchPattern || valid == 0) {
		return nil, nil, firstErr
	}
	return phrase, matchers, nil
}

func compile(text string, mode MatchMode) (*regexp.Regexp, error) {
	if mode != MatchPattern {
		text = regexp.QuoteMeta(text)
	}
	re, err := regexp.Compile(`\b(?:` + text + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	return re, nil
}
