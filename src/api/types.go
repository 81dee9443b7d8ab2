package api

import (
	"encoding/json"
	"sort"
)

// CodegenSummary is one entry of the codegen list.
type CodegenSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CodegenListResponse is returned by the codegen-list endpoint. Codegens is
// keyed by codegen name, which equals the title.
type CodegenListResponse struct {
	Markdown string                    `json:"markdown"`
	Codegens map[string]CodegenSummary `json:"codegens"`
}

// Names returns the codegen keys in sorted order.
func (r CodegenListResponse) Names() []string {
	return sortedKeys(r.Codegens)
}

// ComponentSummary describes one component in a library.
type ComponentSummary struct {
	Description string `json:"description"`
}

// ComponentListResponse is returned by the component-list endpoint.
type ComponentListResponse struct {
	Markdown   string                                 `json:"markdown"`
	Components map[string]map[string]ComponentSummary `json:"components"`
}

// ComponentDoc is the documentation of a single component.
type ComponentDoc struct {
	Description string `json:"description"`
	API         string `json:"api"`
}

// ComponentDetailResponse is returned by the component-detail endpoint.
type ComponentDetailResponse struct {
	LibraryName string                  `json:"libraryName"`
	Components  map[string]ComponentDoc `json:"components"`
}

// ComponentNames returns the documented component names in sorted order.
func (r ComponentDetailResponse) ComponentNames() []string {
	return sortedKeys(r.Components)
}

// RuleType tags a codegen rule.
type RuleType string

const (
	RulePublicComponents  RuleType = "public-components"
	RuleStyles            RuleType = "styles"
	RulePrivateComponents RuleType = "private-components"
	RuleFileStructure     RuleType = "file-structure"
	RuleAttentionRules    RuleType = "attention-rules"
)

// Rule is one rule of a codegen. Which of Prompt, DataSet and Docs is set
// depends on Type.
type Rule struct {
	Type        RuleType                   `json:"type"`
	Description string                     `json:"description"`
	Prompt      string                     `json:"prompt,omitempty"`
	DataSet     []string                   `json:"dataSet,omitempty"`
	Docs        map[string]json.RawMessage `json:"docs,omitempty"`
}

// CodegenDetail is returned by the codegen-detail endpoint.
type CodegenDetail struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullStack       string   `json:"fullStack"`
	Guides          []string `json:"guides"`
	CodeRendererURL string   `json:"codeRendererUrl"`
	Rules           []Rule   `json:"rules"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
