package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Protocol-Lattice/compoder/src/config"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/rules"
	"github.com/Protocol-Lattice/compoder/src/ui"
	"github.com/Protocol-Lattice/compoder/src/workspace"
)

type fakePrompter struct {
	clients []string
	confirm bool
	abort   bool

	offered []ui.Choice
	asked   bool
}

func (f *fakePrompter) Select(_ string, choices []ui.Choice) (ui.Choice, error) {
	f.offered = choices
	if f.abort {
		return ui.Choice{}, ui.ErrAborted
	}
	return choices[0], nil
}

func (f *fakePrompter) MultiSelect(_ string, choices []ui.Choice, validate func([]ui.Choice) error) ([]ui.Choice, error) {
	var out []ui.Choice
	for _, c := range choices {
		for _, want := range f.clients {
			if c.Value == want {
				out = append(out, c)
			}
		}
	}
	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakePrompter) Confirm(string, bool) (bool, error) {
	f.asked = true
	return f.confirm, nil
}

type fakeService struct {
	mu       sync.Mutex
	codegens string
	styles   string
}

func (s *fakeService) setStyles(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles = v
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/codegen/mcp/codegen-list":
		fmt.Fprintf(w, `{"markdown":"# Available Codegens","codegens":%s}`, s.codegens)
	case "/api/codegen/mcp/codegen-detail":
		if r.URL.Query().Get("codegenName") != "Landing Page" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"Codegen not found"}`)
			return
		}
		fmt.Fprintf(w, `{"title":"Landing Page","rules":[
			{"type":"public-components","description":"libs","dataSet":["antd"]},
			{"type":"styles","description":"styles","prompt":%q}
		]}`, s.styles)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	svc := &fakeService{
		codegens: `{"Landing Page":{"title":"Landing Page","description":"Marketing pages"}}`,
		styles:   "Use tailwindcss to write styles",
	}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	return svc, srv
}

type run struct {
	out  string
	code int
}

func runApp(t *testing.T, dir string, p ui.Prompter, stdin string, args ...string) run {
	t.Helper()
	return runAppContext(t, context.Background(), dir, p, stdin, args...)
}

func runAppContext(t *testing.T, ctx context.Context, dir string, p ui.Prompter, stdin string, args ...string) run {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(Deps{
		Settings: config.FromEnv(func(string) string { return "" }),
		Stdin:    strings.NewReader(stdin),
		Stdout:   &stdout,
		Stderr:   &stderr,
		Prompter: p,
		WorkDir:  dir,
	})
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(ctx, append([]string{"compoder"}, args...))
	res := run{out: stdout.String()}
	if err != nil {
		var ec cli.ExitCoder
		require.ErrorAs(t, err, &ec, "stdout: %s", res.out)
		res.code = ec.ExitCode()
	}
	return res
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitWritesConfigAndRules(t *testing.T) {
	_, srv := newService(t)
	dir := t.TempDir()
	p := &fakePrompter{clients: []string{"cursor", "claude-code"}}

	res := runApp(t, dir, p, "", "init", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)

	require.Len(t, p.offered, 1)
	assert.Equal(t, "Landing Page - Marketing pages", p.offered[0].Label)
	assert.False(t, p.asked)

	var cfg config.ProjectConfig
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, ".compoderrc"))), &cfg))
	assert.Equal(t, config.ProjectConfig{Codegen: "Landing Page", AIClients: []string{"cursor", "claude-code"}, Version: "0.0.1"}, cfg)

	var mcpCfg map[string]map[string]struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, ".cursor", "mcp.json"))), &mcpCfg))
	assert.Equal(t, []string{"mcp", "server", "Landing Page", "--api-base-url", srv.URL}, mcpCfg["mcpServers"]["compoder"].Args)
	assert.FileExists(t, filepath.Join(dir, ".mcp.json"))

	step2 := readFile(t, filepath.Join(dir, ".cursor", "rules", "compoder", "landing-page", "step2.md"))
	assert.Contains(t, step2, "You can use components from antd")
	assert.FileExists(t, filepath.Join(dir, ".claude", "skills", "landing-page", "SKILL.md"))
	assert.NoDirExists(t, filepath.Join(dir, ".compoder.lock"))

	assert.Contains(t, res.out, "Selected codegen: Landing Page")
	assert.Contains(t, res.out, "created .cursor/rules/compoder/landing-page/index.mdc")
	assert.Contains(t, res.out, "Initialization completed successfully!")
}

func TestInitLeftWithoutChoosingWritesNothing(t *testing.T) {
	_, srv := newService(t)
	dir := t.TempDir()

	res := runApp(t, dir, &fakePrompter{abort: true}, "", "init", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "Initialization cancelled.")
	assert.NoFileExists(t, filepath.Join(dir, ".compoderrc"))
	assert.NoDirExists(t, filepath.Join(dir, ".cursor"))
}

func TestInitKeepsExistingConfigWhenDeclined(t *testing.T) {
	_, srv := newService(t)
	dir := t.TempDir()
	existing := `{"codegen":"Old","aiClients":["cursor"],"version":"0.0.1"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".compoderrc"), []byte(existing), 0o644))

	p := &fakePrompter{clients: []string{"cursor"}, confirm: false}
	res := runApp(t, dir, p, "", "init", "--api-base-url", srv.URL)

	assert.Zero(t, res.code)
	assert.True(t, p.asked)
	assert.Contains(t, res.out, "Initialization cancelled.")
	assert.Equal(t, existing, readFile(t, filepath.Join(dir, ".compoderrc")))
	assert.NoDirExists(t, filepath.Join(dir, ".cursor"))
}

func TestInitWithoutCodegensFails(t *testing.T) {
	svc, srv := newService(t)
	svc.codegens = `{}`

	res := runApp(t, t.TempDir(), &fakePrompter{}, "", "init", "--api-base-url", srv.URL)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "No codegens available. Please check your API server.")
}

func TestInitUnreachableAPIFails(t *testing.T) {
	_, srv := newService(t)
	url := srv.URL
	srv.Close()

	res := runApp(t, t.TempDir(), &fakePrompter{}, "", "init", "--api-base-url", url)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "Initialization failed")
}

func TestUpdateRegeneratesRules(t *testing.T) {
	svc, srv := newService(t)
	dir := t.TempDir()
	res := runApp(t, dir, &fakePrompter{clients: []string{"cursor"}}, "", "init", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)

	res = runApp(t, dir, nil, "", "update", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "unchanged .cursor/rules/compoder/landing-page/step2.md")

	svc.setStyles("Use CSS modules")
	res = runApp(t, dir, nil, "", "update", "--api-base-url", srv.URL, "--diff")
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "updated .cursor/rules/compoder/landing-page/step2.md")
	assert.Contains(t, res.out, "-Use tailwindcss to write styles")
	assert.Contains(t, res.out, "+Use CSS modules")
	assert.Contains(t, res.out, "Rules updated successfully!")

	step2 := readFile(t, filepath.Join(dir, ".cursor", "rules", "compoder", "landing-page", "step2.md"))
	assert.Contains(t, step2, "Use CSS modules")

	svc.setStyles("Use styled-components")
	res = runApp(t, dir, nil, "", "update", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "updated .cursor/rules/compoder/landing-page/step2.md")
	assert.NotContains(t, res.out, "@@")
}

func TestUpdateSkipsUnknownClients(t *testing.T) {
	_, srv := newService(t)
	dir := t.TempDir()
	cfg := `{"codegen":"Landing Page","aiClients":["emacs","claude-code"],"version":"0.0.1"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".compoderrc"), []byte(cfg), 0o644))

	res := runApp(t, dir, nil, "", "update", "--api-base-url", srv.URL)
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "Unknown AI client: emacs. Skipping...")
	assert.FileExists(t, filepath.Join(dir, ".claude", "skills", "landing-page", "step1.md"))
	assert.NoDirExists(t, filepath.Join(dir, ".cursor"))
}

func TestSetupClientsStopsWhenContextDone(t *testing.T) {
	dir := t.TempDir()
	cursor, err := rules.ParseClient("cursor")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := setupClients(ctx, workspace.NewWriter(dir), logging.NewStatus(io.Discard),
		[]rules.Client{cursor}, "Landing Page", nil, "http://localhost:3000")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results[0])
	assert.NoDirExists(t, filepath.Join(dir, ".cursor"))
	assert.NoDirExists(t, filepath.Join(dir, ".compoder.lock"))
}

func TestUpdateRequiresInit(t *testing.T) {
	res := runApp(t, t.TempDir(), nil, "", "update")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, ".compoderrc file not found in the current directory.")
	assert.Contains(t, res.out, "compoder init")
}

func TestUpdateRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".compoderrc"), []byte(`{"codegen":"x","aiClients":[]}`), 0o644))

	res := runApp(t, dir, nil, "", "update")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "Invalid .compoderrc configuration.")
}

func TestUpdateUnknownCodegenFails(t *testing.T) {
	_, srv := newService(t)
	dir := t.TempDir()
	cfg := `{"codegen":"Gone","aiClients":["cursor"],"version":"0.0.1"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".compoderrc"), []byte(cfg), 0o644))

	res := runApp(t, dir, nil, "", "update", "--api-base-url", srv.URL)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "Codegen not found")
}

const stream = `<ComponentArtifact name="Landing">
<ComponentFile fileName="App.tsx" isEntryFile="true">
export default () => <main />;
</ComponentFile>
<ComponentFile fileName="styles.css">
main { color: red; }
</ComponentFile>
</ComponentArtifact>
<NewComponentId>abc123</NewComponentId>`

func TestDecodeWritesFilesFromStdin(t *testing.T) {
	dir := t.TempDir()
	res := runApp(t, dir, nil, stream, "decode", "--out", "out", "--codegen-id", "cg1", "--api-base-url", "http://localhost:3000/")
	require.Zero(t, res.code, res.out)

	assert.Contains(t, readFile(t, filepath.Join(dir, "out", "App.tsx")), "export default () => <main />;")
	assert.Contains(t, readFile(t, filepath.Join(dir, "out", "styles.css")), "main { color: red; }")
	assert.Contains(t, res.out, "created App.tsx (entry)")
	assert.Contains(t, res.out, "Open http://localhost:3000/main/codegen/cg1/abc123")
}

func TestDecodeFromFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen.txt"), []byte(stream), 0o644))

	res := runApp(t, dir, nil, "", "decode", "gen.txt")
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "New artifact: abc123")

	res = runApp(t, dir, nil, "", "decode", "gen.txt")
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "unchanged App.tsx")
}

func TestDecodeGenerationError(t *testing.T) {
	dir := t.TempDir()
	in := `<ComponentArtifact><ComponentFile fileName="App.tsx">x</ComponentFile><TryCatchError>Model quota exceeded</TryCatchError>`

	res := runApp(t, dir, nil, in, "decode")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "Generation failed: Model quota exceeded")
	assert.NoFileExists(t, filepath.Join(dir, "App.tsx"))
}

func TestDecodeInterruptedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := runAppContext(t, ctx, dir, nil, stream, "decode")
	require.Zero(t, res.code, res.out)
	assert.Contains(t, res.out, "Decoding cancelled, no files written.")
	assert.NoFileExists(t, filepath.Join(dir, "App.tsx"))
	assert.NotContains(t, res.out, "No files found")
}

func TestDecodeMissingFile(t *testing.T) {
	res := runApp(t, t.TempDir(), nil, "", "decode", "nope.txt")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.out, "Decode failed")
}

func TestMCPServerRejectsInvalidName(t *testing.T) {
	res := runApp(t, t.TempDir(), nil, "", "mcp", "server", "bad/name")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.out)
}

func TestMCPServerServesStdio(t *testing.T) {
	_, srv := newService(t)
	in := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}` + "\n"

	res := runApp(t, t.TempDir(), nil, in, "mcp", "server", "Landing Page", "--api-base-url", srv.URL)
	require.Zero(t, res.code)

	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	require.Len(t, lines, 2, res.out)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
	assert.Contains(t, lines[1], `"component-detail"`)
}
