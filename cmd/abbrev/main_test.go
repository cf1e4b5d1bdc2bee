package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/abbrev/internal/config"
	"github.com/vango-dev/abbrev/internal/errors"
	"github.com/vango-dev/abbrev/internal/source"
	"github.com/vango-dev/abbrev/pkg/treeyaml"
)

const testSnippets = `
snippets:
  card:
    name: div
    classes: [card]
    children:
      - name: div
        classes: [card-body]
`

// project writes abbrev.json and a snippets file into a temp dir and
// returns the config path.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "snips.yaml"), testSnippets)
	cfg := filepath.Join(dir, "abbrev.json")
	writeFile(t, cfg, `{"snippets": ["snips.yaml"], "log": {"level": "error"}}`)
	return cfg
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func codeOf(err error) string {
	if ae := errors.As(err); ae != nil {
		return ae.Code
	}
	return ""
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "abbrev dev")
	assert.Contains(t, out, "Go version:")
}

func TestResolveStdinOutline(t *testing.T) {
	cfg := project(t)

	out, _, err := run(t, "name: card\nvalue: Hi\n", "--config", cfg, "resolve", "--format", "outline")
	require.NoError(t, err)
	assert.Equal(t, "div.card>div.card-body{Hi}\n", out)
}

func TestResolveFileYAML(t *testing.T) {
	cfg := project(t)
	page := filepath.Join(t.TempDir(), "page.yaml")
	writeFile(t, page, "- name: card\n- name: img\n  classes: [hero]\n")

	out, _, err := run(t, "", "--config", cfg, "resolve", page)
	require.NoError(t, err)

	tree, err := treeyaml.Decode([]byte(out))
	require.NoError(t, err, out)
	assert.Equal(t, "div.card>div.card-body+img[src alt].hero", tree.String())
}

func TestResolveFlagsOverrideConfig(t *testing.T) {
	cfg := project(t)
	override := filepath.Join(t.TempDir(), "override.yaml")
	writeFile(t, override, "snippets:\n  card: \"name: article\"\n")

	out, _, err := run(t, "name: card", "--config", cfg, "--snippets", override, "resolve", "-f", "outline")
	require.NoError(t, err)
	assert.Equal(t, "article\n", out)
}

func TestResolveNoBuiltins(t *testing.T) {
	cfg := project(t)

	out, _, err := run(t, "name: img", "--config", cfg, "--no-builtins", "resolve", "-f", "outline")
	require.NoError(t, err)
	assert.Equal(t, "img\n", out)
}

func TestResolveErrors(t *testing.T) {
	cfg := project(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	broken := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, broken, "snippets:\n  broken: \"name: [x\"\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  string
	}{
		{
			name:  "unknown format",
			stdin: "name: a",
			args:  []string{"--config", cfg, "resolve", "--format", "html"},
			code:  "E220",
		},
		{
			name: "input file missing",
			args: []string{"--config", cfg, "resolve", missing},
			code: "E240",
		},
		{
			name:  "malformed document",
			stdin: "name: [a",
			args:  []string{"--config", cfg, "resolve"},
			code:  "E200",
		},
		{
			name:  "invalid snippet template",
			stdin: "name: a",
			args:  []string{"--config", cfg, "--snippets", broken, "resolve"},
			code:  "E143",
		},
		{
			name:  "snippet source missing",
			stdin: "name: a",
			args:  []string{"--config", cfg, "--snippets", missing, "resolve"},
			code:  "E140",
		},
		{
			name:  "config file missing",
			stdin: "name: a",
			args:  []string{"--config", filepath.Join(t.TempDir(), "abbrev.json"), "resolve"},
			code:  "E121",
		},
		{
			name:  "invalid log level",
			stdin: "name: a",
			args:  []string{"--config", cfg, "--log-level", "loud", "resolve"},
			code:  "E123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(err), err.Error())
			assert.Empty(t, out)
		})
	}
}

func TestSnippets(t *testing.T) {
	cfg := project(t)

	out, _, err := run(t, "", "--config", cfg, "snippets")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, []string{"NAME", "ORIGIN", "KIND"}, strings.Fields(lines[0]))
	var found bool
	for _, line := range lines[1:] {
		if f := strings.Fields(line); len(f) == 3 && f[0] == "card" {
			assert.Equal(t, []string{"card", "user", "template"}, f)
			found = true
		}
	}
	assert.True(t, found, out)

	out, _, err = run(t, "", "--config", cfg, "--no-builtins", "snippets", "--json")
	require.NoError(t, err)
	var entries []source.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []source.Entry{
		{Name: "card", Origin: source.OriginUser, Kind: "template"},
	}, entries)
}

func TestServeInvalidAddress(t *testing.T) {
	cfg := project(t)

	_, _, err := run(t, "", "--config", cfg, "serve", "--addr", "no-port")
	require.Error(t, err)
	assert.Equal(t, "E122", codeOf(err))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)

	out, _, err := run(t, "", "--snippets", "snips.yaml", "--no-builtins", "init", dir)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"snips.yaml"}, cfg.Snippets)
	assert.False(t, cfg.Builtins)
	assert.Equal(t, config.DefaultAddress, cfg.Server.Address)

	_, _, err = run(t, "", "init", dir)
	require.Error(t, err)
	assert.Equal(t, "E124", codeOf(err))

	// A broken abbrev.json does not stop --force from replacing it.
	writeFile(t, path, "{")
	_, _, err = run(t, "", "init", "--force", dir)
	require.NoError(t, err)
	cfg, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Builtins)
	assert.Empty(t, cfg.Snippets)
}

func TestInitRejectsInvalidSettings(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "", "--log-level", "loud", "init", dir)
	require.Error(t, err)
	assert.Equal(t, "E123", codeOf(err))
	assert.False(t, config.Exists(dir))
}

func TestDebugLogNamesConfig(t *testing.T) {
	cfg := project(t)

	_, stderr, err := run(t, "name: card", "--config", cfg, "--log-level", "debug", "resolve")
	require.NoError(t, err)
	assert.Contains(t, stderr, "config loaded")
	assert.Contains(t, stderr, cfg)
}
