package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplesearch/internal/tui"
)

type fixture struct {
	root   string
	config string
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "nested"), 0o755))
	for name, content := range map[string]string{
		"a.txt": "the quick brown fox",
		"b.txt": "lazy dog",
		"c.txt": "",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(docs, name), []byte(content), 0o644))
	}
	return &fixture{
		root:   root,
		config: filepath.Join(t.TempDir(), "absent.yaml"),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
}

func (f *fixture) execute(input string, args ...string) int {
	all := append([]string{"--config", f.config, "--root", f.root}, args...)
	return Execute(context.Background(), all, IO{
		In:  strings.NewReader(input),
		Out: f.out,
		Err: f.errOut,
	})
}

func TestRootCmd_Metadata(t *testing.T) {
	cmd := NewRootCmd(IO{})
	assert.Equal(t, "simplesearch <directory>", cmd.Use)
	assert.Contains(t, cmd.Long, "100%")

	flag := cmd.Flags().Lookup("max-queries")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "1000", flag.DefValue)
}

func TestExecute_RequiresExactlyOneArg(t *testing.T) {
	var errOut bytes.Buffer
	code := Execute(context.Background(), []string{}, IO{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &errOut})

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "accepts 1 arg(s)")
}

func TestExecute_SearchSession(t *testing.T) {
	f := newFixture(t)

	code := f.execute("quick\nquick dog\nxyz\n", "/docs/", "--echo=false")

	assert.Equal(t, 0, code)
	p := "Enter word(s) to search: "
	want := "Simple Search\n" +
		"3 files read in docs\n" +
		p + "a.txt : 100%\n" +
		p + "a.txt : 50%\nb.txt : 50%\n" +
		p + "No matches found\n" +
		p + "\n"
	assert.Equal(t, want, f.out.String())
}

func TestExecute_EchoesPipedInputByDefault(t *testing.T) {
	f := newFixture(t)

	code := f.execute("dog\n", "docs", "-n", "1")

	assert.Equal(t, 0, code)
	assert.Contains(t, f.out.String(), "Enter word(s) to search: dog\nb.txt : 100%\n")
}

func TestExecute_MaxQueries(t *testing.T) {
	f := newFixture(t)

	code := f.execute("quick\ndog\nfox\n", "docs", "--max-queries", "2", "--echo=false")

	assert.Equal(t, 0, code)
	assert.Equal(t, 2, strings.Count(f.out.String(), "Enter word(s) to search: "))
	assert.NotContains(t, f.out.String(), "fox")
}

func TestExecute_LogsTaggedByComponent(t *testing.T) {
	f := newFixture(t)

	code := f.execute("dog\n", "docs", "--log-level", "debug", "--echo=false")

	assert.Equal(t, 0, code)
	logs := f.errOut.String()
	for _, component := range []string{"corpus", "search", "loop"} {
		assert.Contains(t, logs, "component="+component)
	}
	assert.NotContains(t, f.out.String(), "component=")
}

func TestExecute_DirectoryNotFound(t *testing.T) {
	f := newFixture(t)

	code := f.execute("", "/missing/")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Simple Search\nDirectory: missing cannot be found\n", f.out.String())
	assert.NotContains(t, f.errOut.String(), "Error:")
}

func TestExecute_PatternModeInvalidQueryContinues(t *testing.T) {
	f := newFixture(t)

	code := f.execute("(\nquick|lazy\n", "docs", "--match", "pattern", "--echo=false")

	assert.Equal(t, 0, code)
	out := f.out.String()
	assert.Contains(t, out, "Error: invalid query")
	assert.Contains(t, out, "a.txt : 100%\nb.txt : 100%\n")
}

func TestExecute_InvalidConfig(t *testing.T) {
	f := newFixture(t)

	code := f.execute("", "docs", "--match", "fuzzy")

	assert.Equal(t, 1, code)
	assert.Contains(t, f.errOut.String(), "query.match_mode")
}

func TestExecute_ConfigFile(t *testing.T) {
	f := newFixture(t)
	f.config = filepath.Join(t.TempDir(), "simplesearch.toml")
	require.NoError(t, os.WriteFile(f.config, []byte(`
[query]
prompt = "? "
echo_query = false
`), 0o644))

	code := f.execute("dog\n", "docs")

	assert.Equal(t, 0, code)
	assert.Contains(t, f.out.String(), "? b.txt : 100%\n")
}

func TestExecute_TUIMode(t *testing.T) {
	f := newFixture(t)
	var got tea.Model
	code := Execute(context.Background(),
		[]string{"--config", f.config, "--root", f.root, "--tui", "docs"},
		IO{
			In:  strings.NewReader(""),
			Out: f.out,
			Err: f.errOut,
			RunTUI: func(m tea.Model, in io.Reader, out io.Writer) error {
				got = m
				return nil
			},
		})

	assert.Equal(t, 0, code)
	require.IsType(t, tui.Model{}, got)
	assert.Contains(t, f.out.String(), "3 files read in docs\n")
}
