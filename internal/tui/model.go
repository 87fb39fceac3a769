package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"simplesearch/internal/domain"
)

// Options configures the TUI model.
type Options struct {
	Title string
	// MaxQueries quits the program after this many queries. Zero or less
	// means no cap.
	MaxQueries int
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx       context.Context
	searcher  domain.Searcher
	opts      Options
	input     textinput.Model
	viewport  viewport.Model
	ranking   domain.Ranking
	summary   string
	status    string
	cursor    int
	queries   int
	ready     bool
	searched  bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(ctx context.Context, searcher domain.Searcher, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Simple Search"
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type word(s) and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	c := searcher.Corpus()
	summary := fmt.Sprintf("%d files, %s", c.Len(), humanize.Bytes(uint64(c.Bytes())))
	return Model{
		ctx:      ctx,
		searcher: searcher,
		opts:     opts,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Loaded. Type to search.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.search(m.input.Value())
		case "down":
			if n := len(m.ranking.Results); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		case "up":
			if n := len(m.ranking.Results); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) search(query string) (tea.Model, tea.Cmd) {
	ranking, err := m.searcher.Search(m.ctx, query)
	m.queries++
	m.searched = true
	m.cursor = 0
	m.lastQuery = query
	if err != nil {
		m.status = "Error: " + err.Error()
		m.ranking = domain.Ranking{Query: query}
	} else {
		m.ranking = ranking
		m.status = fmt.Sprintf("%d match(es) for %q", len(ranking.Results), query)
	}
	m.input.SetValue("")
	m.viewport.SetContent(m.renderResults())
	if m.opts.MaxQueries > 0 && m.queries >= m.opts.MaxQueries {
		return m, tea.Quit
	}
	return m, nil
}

// Ranking returns the most recent ranking.
func (m Model) Ranking() domain.Ranking { return m.ranking }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Queries returns how many queries have been answered.
func (m Model) Queries() int { return m.queries }

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.opts.Title)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResults() string {
	if !m.searched {
		return "No results yet."
	}
	if m.ranking.NoMatches() {
		return "No matches found"
	}
	var b strings.Builder
	for i, r := range m.ranking.Results {
		line := r.String()
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	doc, ok := m.searcher.Document(m.ranking.Results[m.cursor].Name)
	if ok {
		b.WriteString("\n")
		b.WriteString(highlightBestSentence(doc.Content, m.lastQuery))
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	wordRe         = regexp.MustCompile(`\w+`)
	sentenceRe     = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// highlightBestSentence marks the sentence sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(trimAll(sentences), " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	out := trimAll(sentences)
	out[bestIdx] = highlightStyle.Render(out[bestIdx])
	return strings.Join(out, " ")
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := wordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
