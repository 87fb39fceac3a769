// Package cli wires configuration, corpus loading and the interactive front
// ends behind the simplesearch command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"simplesearch/internal/config"
	"simplesearch/internal/corpus"
	"simplesearch/internal/domain"
	"simplesearch/internal/logger"
	"simplesearch/internal/loop"
	"simplesearch/internal/ranker"
	"simplesearch/internal/service"
	"simplesearch/internal/tui"
)

// Banner is the first line printed on startup.
const Banner = "Simple Search"

// ErrReported marks a failure whose message was already shown to the user.
var ErrReported = errors.New("already reported")

// IO holds the streams used by the command. Zero values use the process
// streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// RunTUI runs a Bubble Tea model. Defaults to a real program on In/Out.
	RunTUI func(m tea.Model, in io.Reader, out io.Writer) error
}

type flags struct {
	configPath string
	root       string
	maxQueries int
	match      string
	useTUI     bool
	logLevel   string
	echo       bool
}

// NewRootCmd builds the simplesearch command.
func NewRootCmd(streams IO) *cobra.Command {
	if streams.In == nil {
		streams.In = os.Stdin
	}
	if streams.Out == nil {
		streams.Out = os.Stdout
	}
	if streams.Err == nil {
		streams.Err = os.Stderr
	}
	if streams.RunTUI == nil {
		streams.RunTUI = runProgram
	}

	f := &flags{}
	cmd := &cobra.Command{
		Use:   "simplesearch <directory>",
		Short: "Rank text files by how well they match interactive queries",
		Long: `Loads every file of a directory under the storage root into memory, then
reads search queries one per line and prints the matching files ranked by score.

A file containing the whole query as a word-bounded phrase scores 100%.
Otherwise each space-separated word found in the file counts towards a
percentage, rounded up. Files matching no word are not listed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], f, streams)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "path to a YAML or TOML config file (default: ./simplesearch.yaml or ~/.config/simplesearch/config.yaml)")
	fl.StringVar(&f.root, "root", "", "storage root containing searchable directories")
	fl.IntVarP(&f.maxQueries, "max-queries", "n", config.DefaultMaxIterations, "maximum number of queries before exiting (0 = unlimited)")
	fl.StringVar(&f.match, "match", "", "query matching mode: literal or pattern")
	fl.BoolVar(&f.useTUI, "tui", false, "use the full-screen terminal UI")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.BoolVar(&f.echo, "echo", false, "repeat each query after reading it")
	return cmd
}

// Execute runs the command with process arguments and returns the exit code.
func Execute(ctx context.Context, args []string, streams IO) int {
	cmd := NewRootCmd(streams)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrReported) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, dirArg string, f *flags, streams IO) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	log := logger.Setup(streams.Err, cfg.Logging.Level, cfg.Logging.Format)

	mode, err := ranker.ParseMatchMode(cfg.Query.MatchMode)
	if err != nil {
		return err
	}

	out := streams.Out
	banner := Banner
	if cfg.UI.Color && isTerminal(out) {
		banner = lipgloss.NewStyle().Bold(true).Render(Banner)
	}
	fmt.Fprintln(out, banner)

	dir := strings.Trim(dirArg, "/")
	path := corpus.ResolvePath(cfg.Storage.Root, dirArg)
	c, err := corpus.Load(cmd.Context(), path, corpus.Options{
		Extensions:     cfg.Corpus.Extensions,
		SkipUnreadable: cfg.Corpus.SkipUnreadable,
		Logger:         logger.WithComponent("corpus"),
	})
	if errors.Is(err, domain.ErrDirectoryNotFound) {
		log.Debug("directory not found", "path", path)
		fmt.Fprintf(out, "Directory: %s cannot be found\n", dir)
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d files read in %s\n", c.Len(), dir)

	svc := service.NewSearchService(c, ranker.Options{Mode: mode}, logger.WithComponent("search"))

	if strings.EqualFold(cfg.UI.Mode, config.UIModeTUI) {
		m := tui.New(cmd.Context(), svc, tui.Options{Title: Banner, MaxQueries: cfg.Query.MaxIterations})
		if err := streams.RunTUI(m, streams.In, out); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	echo := !isTerminal(streams.In)
	if cfg.Query.EchoQuery != nil {
		echo = *cfg.Query.EchoQuery
	}
	session := loop.New(svc, streams.In, out, loop.Options{
		Prompt:        cfg.Query.Prompt,
		MaxIterations: cfg.Query.MaxIterations,
		Echo:          echo,
		Logger:        logger.WithComponent("loop"),
	})
	n, err := session.Run(cmd.Context())
	log.Info("session finished", "queries", n)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command, f *flags) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if f.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(f.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	fl := cmd.Flags()
	if fl.Changed("root") {
		cfg.Storage.Root = f.root
	}
	if fl.Changed("max-queries") {
		cfg.Query.MaxIterations = f.maxQueries
	}
	if fl.Changed("match") {
		cfg.Query.MatchMode = f.match
	}
	if fl.Changed("tui") {
		if f.useTUI {
			cfg.UI.Mode = config.UIModeTUI
		} else {
			cfg.UI.Mode = config.UIModeLine
		}
	}
	if fl.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fl.Changed("echo") {
		echo := f.echo
		cfg.Query.EchoQuery = &echo
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func runProgram(m tea.Model, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}
