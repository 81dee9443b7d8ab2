package rules

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Protocol-Lattice/compoder/src/api"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Landing Page Codegen!": "landing-page-codegen",
		"  My_Codegen  v2 ":     "my-codegen-v2",
		"--Admin--":             "admin",
		"shadcn/ui + tailwind":  "shadcnui-tailwind",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func frontmatter(t *testing.T, doc string) map[string]any {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "---\n"))
	end := strings.Index(doc[4:], "---\n")
	require.GreaterOrEqual(t, end, 0)
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc[4:4+end]), &fm))
	return fm
}

func TestIndexMDC(t *testing.T) {
	doc, err := IndexMDC("Landing Page", "landing-page")
	require.NoError(t, err)

	fm := frontmatter(t, doc)
	assert.Equal(t, "compoder Landing Page", fm["description"])
	assert.Equal(t, false, fm["alwaysApply"])
	assert.Contains(t, doc, "# Landing Page Component Generation Orchestration Rules")
	assert.Contains(t, doc, "`./.cursor/rules/compoder/landing-page/step2.md`")
}

func TestSkillMD(t *testing.T) {
	doc, err := SkillMD("Landing Page", "landing-page")
	require.NoError(t, err)

	fm := frontmatter(t, doc)
	assert.Equal(t, "landing-page", fm["name"])
	assert.Equal(t, "compoder Landing Page", fm["description"])
	assert.Contains(t, doc, "`.claude/skills/landing-page/step1.md`")
}

func TestStep1DependsOnlyOnLibraryPresence(t *testing.T) {
	plain, err := Step1(nil, "X")
	require.NoError(t, err)
	assert.Contains(t, plain, "Extract component name and description information")
	assert.NotContains(t, plain, "component-list")

	public, err := Step1([]api.Rule{{Type: api.RulePublicComponents, DataSet: []string{"antd"}}}, "X")
	require.NoError(t, err)
	assert.Contains(t, public, "MCP tool `compoder component-list` with the codegen name(X)")
	assert.Contains(t, public, "## MCP Tools Available\n\n- `component-list`")

	private, err := Step1([]api.Rule{{Type: api.RulePrivateComponents, Docs: map[string]json.RawMessage{"ui": json.RawMessage(`{}`)}}}, "X")
	require.NoError(t, err)
	assert.Equal(t, public, private)

	emptyDocs, err := Step1([]api.Rule{{Type: api.RulePrivateComponents, Docs: map[string]json.RawMessage{}}}, "X")
	require.NoError(t, err)
	assert.Equal(t, plain, emptyDocs)
}

func TestStep2Defaults(t *testing.T) {
	doc, err := Step2(nil, "X")
	require.NoError(t, err)

	assert.Contains(t, doc, "## Style Specification\nUse tailwindcss to write styles\n\n## Additional Rules")
	assert.Contains(t, doc, "**Main Component File** (`ComponentName.tsx`)")
	assert.Contains(t, doc, "- Implement proper accessibility (ARIA) attributes")
	assert.NotContains(t, doc, "## Component Usage Guidelines")
	assert.NotContains(t, doc, "{{")
}

func TestStep2RuleOverrides(t *testing.T) {
	rules := []api.Rule{
		{Type: api.RuleFileStructure, Prompt: "Put everything in index.tsx"},
		{Type: api.RuleStyles, Prompt: "Use CSS modules"},
		{Type: api.RuleAttentionRules, Prompt: "- Never use any"},
		{Type: api.RulePublicComponents, DataSet: []string{"antd", "@mui/material"}},
		{Type: api.RulePrivateComponents, Docs: map[string]json.RawMessage{}},
	}
	doc, err := Step2(rules, "Landing Page")
	require.NoError(t, err)

	assert.Contains(t, doc, "5. Follow the file structure specified below\n\nPut everything in index.tsx\n")
	assert.NotContains(t, doc, "**Main Component File**")
	assert.Contains(t, doc, "## Style Specification\nUse CSS modules\n")
	assert.NotContains(t, doc, "tailwindcss")
	assert.Contains(t, doc, "## Additional Rules\n- Never use any\n")
	assert.Contains(t, doc, "## Component Usage Guidelines\n**Open Source Components**\n- You can use components from antd, @mui/material")
	assert.Contains(t, doc, "Use the latest stable version of APIs\n\n**Private Components**")
	assert.Contains(t, doc, "`codegenName(Landing Page)`")
}

func TestStep2EmptyPromptKeepsDefault(t *testing.T) {
	doc, err := Step2([]api.Rule{{Type: api.RuleStyles, Prompt: ""}}, "X")
	require.NoError(t, err)
	assert.Contains(t, doc, "Use tailwindcss to write styles")
}

func TestGenerationIsDeterministic(t *testing.T) {
	rules := []api.Rule{
		{Type: api.RulePrivateComponents, Docs: map[string]json.RawMessage{"b": nil, "a": nil, "c": nil}},
		{Type: api.RulePublicComponents, DataSet: []string{"antd"}},
	}
	first, err := Files(ClientCursor, "Landing Page", rules)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Files(ClientCursor, "Landing Page", rules)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFilesLayout(t *testing.T) {
	cursor, err := Files(ClientCursor, "Landing Page Codegen!", nil)
	require.NoError(t, err)
	var paths []string
	for _, f := range cursor {
		paths = append(paths, f.Path)
	}
	dir := filepath.Join(".cursor", "rules", "compoder", "landing-page-codegen")
	assert.Equal(t, []string{
		filepath.Join(dir, "index.mdc"),
		filepath.Join(dir, "step1.md"),
		filepath.Join(dir, "step2.md"),
	}, paths)

	claude, err := Files(ClientClaudeCode, "Landing Page Codegen!", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".claude", "skills", "landing-page-codegen", "SKILL.md"), claude[0].Path)

	_, err = Files(Client("vim"), "x", nil)
	assert.Error(t, err)
}

func TestParseClient(t *testing.T) {
	c, err := ParseClient("claude-code")
	require.NoError(t, err)
	assert.Equal(t, ClientClaudeCode, c)
	assert.Equal(t, "Claude Code", c.Label())

	_, err = ParseClient("emacs")
	assert.Error(t, err)
}

func TestMergeMCPConfigKeepsOtherServers(t *testing.T) {
	existing := []byte(`{"mcpServers":{"other":{"command":"other"}},"theme":"dark"}`)
	cfg, err := MergeMCPConfig(existing, Registration("Landing Page", "http://localhost:3000"))
	require.NoError(t, err)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"theme": "dark",
		"mcpServers": {
			"other": {"command": "other"},
			"compoder": {"command": "compoder", "args": ["mcp", "server", "Landing Page", "--api-base-url", "http://localhost:3000"]}
		}
	}`, string(out))

	fresh, err := MergeMCPConfig([]byte("not json"), Registration("x", "u"))
	require.NoError(t, err)
	assert.Len(t, fresh["mcpServers"], 1)
}
