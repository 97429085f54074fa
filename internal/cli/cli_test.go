package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sankeytimeline/pkg/graph"
)

var releaseFile = filepath.Join("testdata", "release.toml")

// TestMain keeps command tests away from the user's cache.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "sankeytimeline-cache")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CACHE_HOME", dir)
	os.Unsetenv(redisURLEnv)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"layout", "render", "inspect", "nodelink", "step", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, png,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFormats(tt.in), "parseFormats(%q)", tt.in)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"", nil, false},
		{"0,800", []float64{0, 800}, false},
		{" 100 , 1200.5 ", []float64{100, 1200.5}, false},
		{"100", nil, true},
		{"a,b", nil, true},
		{"1,2,3", nil, true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseRange(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "parseRange(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "build.toml", "build"},
		{"", "dir/build.yaml", "dir/build"},
		{"out.svg", "build.toml", "out"},
		{"out/topology", "build.toml", "out/topology"},
		{"v1.2", "build.toml", "v1.2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, basePath(tt.output, tt.input))
	}
}

func TestLayoutCommand(t *testing.T) {
	stdout, _, err := execute(t, "layout", releaseFile, "--range", "0,1000")
	require.NoError(t, err)

	l, err := graph.UnmarshalLayout([]byte(stdout))
	require.NoError(t, err)
	assert.True(t, l.IsSankey())
	assert.Len(t, l.Nodes, 4)
	assert.Len(t, l.Links, 4)
	assert.Equal(t, 1000.0, l.RangeEnd)
}

func TestLayoutCommandOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.json")
	stdout, _, err := execute(t, "layout", releaseFile, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = graph.UnmarshalLayout(data)
	assert.NoError(t, err)
}

func TestLayoutCommandErrors(t *testing.T) {
	_, _, err := execute(t, "layout", releaseFile, "--range", "0")
	assert.ErrorContains(t, err, "--range")

	_, _, err = execute(t, "layout", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, _, err = execute(t, "layout")
	assert.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "release")
	_, stderr, err := execute(t, "render", releaseFile, "-f", "svg,json,yaml", "-o", base)
	require.NoError(t, err)

	for _, ext := range []string{"svg", "json", "yaml"} {
		path := base + "." + ext
		assert.FileExists(t, path)
		assert.Contains(t, stderr, path)
	}

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg"), "svg should start with <svg")
	assert.Contains(t, stderr, "4 nodes")
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "render", releaseFile, "-f", "gif", "-o", filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "gif")
}

func TestInspectCommand(t *testing.T) {
	stdout, _, err := execute(t, "inspect", releaseFile)
	require.NoError(t, err)

	for _, want := range []string{"checkout", "deploy", "Flow", "bottom", iconCircular} {
		assert.Contains(t, stdout, want)
	}
}

func TestNodelinkCommand(t *testing.T) {
	stdout, _, err := execute(t, "nodelink", releaseFile, "--detailed")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "digraph"))
	assert.Contains(t, stdout, "style=dashed")
	assert.Contains(t, stdout, "size: ")
}

func TestStepPlain(t *testing.T) {
	frames := t.TempDir()
	stdout, _, err := execute(t, "step", releaseFile, "--plain", "--frames", frames)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], `node "checkout"`)
	assert.Contains(t, lines[7], "link test -> deploy (4)")

	for _, name := range []string{"step-01.svg", "step-08.svg"} {
		assert.FileExists(t, filepath.Join(frames, name))
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		stdout, _, err := execute(t, "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, stdout, "sankeytimeline", shell)
	}

	_, _, err := execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRenderCommandCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv(redisURLEnv, "")

	base := filepath.Join(t.TempDir(), "release")
	_, stderr, err := execute(t, "render", releaseFile, "-f", "svg", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, stderr, "fresh")

	_, stderr, err = execute(t, "render", releaseFile, "-f", "svg", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, stderr, "cached")

	_, stderr, err = execute(t, "render", releaseFile, "-f", "svg", "-o", base, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, stderr, "fresh")

	stdout, _, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheHome, appName), strings.TrimSpace(stdout))

	stdout, _, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleared cache")

	_, stderr, err = execute(t, "render", releaseFile, "-f", "svg", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, stderr, "fresh")
}
