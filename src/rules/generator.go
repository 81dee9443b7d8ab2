// Package rules renders the AI-client rule files that teach an assistant the
// two-step compoder workflow for one codegen. Rendering is pure; writing the
// results is left to the caller.
package rules

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/Protocol-Lattice/compoder/src/api"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("rules").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

type indexFrontmatter struct {
	Description string `yaml:"description"`
	Globs       string `yaml:"globs"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type entryData struct {
	Name string
	Slug string
}

type step1Data struct {
	CodegenName  string
	HasLibraries bool
}

type step2Data struct {
	CodegenName     string
	FileStructure   string
	Styles          string
	AdditionalRules string
	PublicLibraries []string
	HasPrivateDocs  bool
}

// IndexMDC renders the Cursor entry rule for a codegen.
func IndexMDC(codegenName, slug string) (string, error) {
	fm := indexFrontmatter{Description: "compoder " + codegenName}
	return withFrontmatter(fm, "index.mdc.tmpl", entryData{Name: codegenName, Slug: slug})
}

// SkillMD renders the Claude Code skill entry for a codegen.
func SkillMD(codegenName, slug string) (string, error) {
	fm := skillFrontmatter{Name: slug, Description: "compoder " + codegenName}
	return withFrontmatter(fm, "skill.md.tmpl", entryData{Name: codegenName, Slug: slug})
}

// Step1 renders the component design phase. It only changes shape on
// whether any component library (public dataSet or private docs) exists.
func Step1(rules []api.Rule, codegenName string) (string, error) {
	hasLibraries := len(publicLibraries(rules)) > 0
	if r, ok := find(rules, api.RulePrivateComponents); ok && len(r.Docs) > 0 {
		hasLibraries = true
	}
	return render("step1.md.tmpl", step1Data{CodegenName: codegenName, HasLibraries: hasLibraries})
}

// Step2 renders the implementation phase. Rule prompts replace the
// corresponding defaults; an empty prompt keeps the default.
func Step2(rules []api.Rule, codegenName string) (string, error) {
	data := step2Data{
		CodegenName:     codegenName,
		PublicLibraries: publicLibraries(rules),
	}
	if r, ok := find(rules, api.RuleFileStructure); ok {
		data.FileStructure = r.Prompt
	}
	if r, ok := find(rules, api.RuleStyles); ok {
		data.Styles = r.Prompt
	}
	if r, ok := find(rules, api.RuleAttentionRules); ok {
		data.AdditionalRules = r.Prompt
	}
	if r, ok := find(rules, api.RulePrivateComponents); ok && r.Docs != nil {
		data.HasPrivateDocs = true
	}
	return render("step2.md.tmpl", data)
}

// find returns the first rule of type t.
func find(rules []api.Rule, t api.RuleType) (api.Rule, bool) {
	for _, r := range rules {
		if r.Type == t {
			return r, true
		}
	}
	return api.Rule{}, false
}

func publicLibraries(rules []api.Rule) []string {
	r, ok := find(rules, api.RulePublicComponents)
	if !ok {
		return nil
	}
	return r.DataSet
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func withFrontmatter(fm any, name string, data any) (string, error) {
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("frontmatter for %s: %w", name, err)
	}
	body, err := render(name, data)
	if err != nil {
		return "", err
	}
	return "---\n" + string(head) + "---\n\n" + body, nil
}
