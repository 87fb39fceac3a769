// Package loop runs the line-oriented interactive search session: prompt,
// read one query, print its ranking, repeat.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"simplesearch/internal/domain"
)

// State is the position of a Session in its prompt/rank cycle.
type State int

const (
	Idle State = iota
	AwaitingQuery
	Ranking
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingQuery:
		return "awaiting_query"
	case Ranking:
		return "ranking"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// NoMatchesLine is printed when a query matches no document.
const NoMatchesLine = "No matches found"

// Options configures a Session.
type Options struct {
	Prompt string
	// MaxIterations caps the number of queries. Zero or less means no cap.
	MaxIterations int
	// Echo writes each query back after it is read.
	Echo   bool
	Logger *slog.Logger
}

// Session reads queries from in and writes rankings to out.
type Session struct {
	searcher domain.Searcher
	reader   *bufio.Reader
	out      io.Writer
	opts     Options
	logger   *slog.Logger
	state    State
}

// New creates a Session in the Idle state.
func New(searcher domain.Searcher, in io.Reader, out io.Writer, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		searcher: searcher,
		reader:   bufio.NewReader(in),
		out:      out,
		opts:     opts,
		logger:   logger,
		state:    Idle,
	}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Run loops until the iteration cap is reached, input ends, or ctx is
// canceled. Cancellation also interrupts a pending read. It returns the
// number of queries answered. A failing query is reported on out and does
// not stop the loop.
func (s *Session) Run(ctx context.Context) (int, error) {
	defer s.transition(Done)

	done := make(chan struct{})
	defer close(done)
	lines := s.readLines(done)

	answered := 0
	for s.opts.MaxIterations <= 0 || answered < s.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return answered, err
		}
		s.transition(AwaitingQuery)
		if _, err := io.WriteString(s.out, s.opts.Prompt); err != nil {
			return answered, err
		}

		var next line
		select {
		case <-ctx.Done():
			s.logger.Debug("session canceled", "answered", answered)
			return answered, ctx.Err()
		case next = <-lines:
		}
		if next.err != nil {
			if !errors.Is(next.err, io.EOF) {
				return answered, fmt.Errorf("read query: %w", next.err)
			}
			s.logger.Debug("input closed", "answered", answered)
			// Keep the shell prompt on its own line.
			_, err := io.WriteString(s.out, "\n")
			return answered, err
		}
		query := next.text
		if s.opts.Echo {
			if _, err := fmt.Fprintln(s.out, query); err != nil {
				return answered, err
			}
		}

		s.transition(Ranking)
		if err := s.answer(ctx, query); err != nil {
			return answered, err
		}
		answered++
	}
	s.logger.Debug("query limit reached", "limit", s.opts.MaxIterations)
	return answered, nil
}

type line struct {
	text string
	err  error
}

// readLines delivers input lines, without their line ending, until the
// input fails or done is closed. An unterminated last line is delivered
// before io.EOF.
func (s *Session) readLines(done <-chan struct{}) <-chan line {
	lines := make(chan line)
	go func() {
		for {
			text, err := s.reader.ReadString('\n')
			var next line
			switch {
			case err == nil, text != "":
				next = line{text: strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")}
			default:
				next = line{err: err}
			}
			select {
			case lines <- next:
			case <-done:
				return
			}
			if next.err != nil {
				return
			}
		}
	}()
	return lines
}

// answer ranks one query and prints it. Only write errors and context
// cancellation are returned.
func (s *Session) answer(ctx context.Context, query string) error {
	ranking, err := s.searcher.Search(ctx, query)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		s.logger.Warn("query failed", "query", query, "error", err)
		_, werr := fmt.Fprintf(s.out, "Error: %v\n", err)
		return werr
	}
	return WriteRanking(s.out, ranking)
}

// WriteRanking prints one line per result, or NoMatchesLine.
func WriteRanking(w io.Writer, r domain.Ranking) error {
	if r.NoMatches() {
		_, err := fmt.Fprintln(w, NoMatchesLine)
		return err
	}
	for _, res := range r.Results {
		if _, err := fmt.Fprintln(w, res.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) transition(next State) {
	if s.state == next {
		return
	}
	s.logger.Debug("session state", "from", s.state.String(), "to", next.String())
	s.state = next
}
