package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplesearch/internal/domain"
	"simplesearch/internal/ranker"
	"simplesearch/internal/service"
)

func newModel(maxQueries int, mode ranker.MatchMode) Model {
	corpus := domain.NewCorpus(
		domain.Document{Name: "a.txt", Content: "The quick brown fox. It jumps."},
		domain.Document{Name: "b.txt", Content: "A lazy dog sleeps. The dog dreams"},
	)
	svc := service.NewSearchService(corpus, ranker.Options{Mode: mode}, nil)
	m := New(context.Background(), svc, Options{MaxQueries: maxQueries})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func submit(t *testing.T, m Model, query string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(query)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_InitialView(t *testing.T) {
	m := New(context.Background(), service.NewSearchService(domain.NewCorpus(), ranker.Options{}, nil), Options{})
	assert.Equal(t, "Loading...", m.View())

	m = newModel(0, ranker.MatchLiteral)
	view := m.View()
	assert.Contains(t, view, "Simple Search")
	assert.Contains(t, view, "2 files")
	assert.Contains(t, view, "No results yet.")
}

func TestModel_Search(t *testing.T) {
	m, cmd := submit(t, newModel(0, ranker.MatchLiteral), "quick dog")

	assert.Nil(t, cmd)
	assert.Equal(t, []domain.RankedResult{{Name: "a.txt", Score: 50}, {Name: "b.txt", Score: 50}}, m.Ranking().Results)
	assert.Equal(t, 1, m.Queries())
	assert.Contains(t, m.Status(), "2 match(es)")
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.renderResults(), "> a.txt : 50%")
	assert.Contains(t, m.renderResults(), "The quick brown fox.")
}

func TestModel_NoMatches(t *testing.T) {
	m, _ := submit(t, newModel(0, ranker.MatchLiteral), "xyz")

	assert.True(t, m.Ranking().NoMatches())
	assert.Equal(t, "No matches found", m.renderResults())
}

func TestModel_CursorWraps(t *testing.T) {
	m, _ := submit(t, newModel(0, ranker.MatchLiteral), "quick dog")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.renderResults(), "> b.txt : 50%")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_ErrorKeepsRunning(t *testing.T) {
	m, cmd := submit(t, newModel(0, ranker.MatchPattern), "(")

	assert.Nil(t, cmd)
	assert.Contains(t, m.Status(), "Error:")
	assert.True(t, m.Ranking().NoMatches())
}

func TestModel_QuitsAtQueryCap(t *testing.T) {
	m, cmd := submit(t, newModel(2, ranker.MatchLiteral), "quick")
	assert.Nil(t, cmd)

	_, cmd = submit(t, m, "dog")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := newModel(0, ranker.MatchLiteral).Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestHighlightBestSentence(t *testing.T) {
	got := highlightBestSentence("One fish. Two dogs! Red fish", "dogs")
	assert.Contains(t, got, "One fish.")
	assert.Contains(t, got, "Two dogs!")
	assert.Contains(t, got, "Red fish")

	assert.Equal(t, "", highlightBestSentence("", "dogs"))
	assert.Equal(t, "Plain text", highlightBestSentence("Plain text", ""))
}

func TestTokenOverlapScore(t *testing.T) {
	q := toTokenSet("quick Fox")
	assert.Equal(t, 2, tokenOverlapScore(q, "The QUICK fox, the quick fox"))
	assert.Equal(t, 0, tokenOverlapScore(q, "lazy dog"))
}
