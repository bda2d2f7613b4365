package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/MathJSLab/mathjslab-www/matter"
)

func newTestRenderer() *Renderer {
	return NewRenderer(matter.NewRegistry(), GoEngine{})
}

func TestRenderCanonical(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("---\nfoo: 1\n---\nHello")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if res.Matter != "foo: 1" {
		t.Errorf("Expected matter 'foo: 1', got %q", res.Matter)
	}
	if res.Content != "Hello" {
		t.Errorf("Expected content 'Hello', got %q", res.Content)
	}
	if res.Rendered != "Hello" {
		t.Errorf("Expected rendered 'Hello', got %q", res.Rendered)
	}
	if res.Language != "yaml" {
		t.Errorf("Expected language 'yaml', got %q", res.Language)
	}
	if res.Fields["foo"] != 1 {
		t.Errorf("Expected foo=1, got %v", res.Fields["foo"])
	}
	if res.Data["foo"] != 1 {
		t.Errorf("Expected foo merged into context, got %v", res.Data["foo"])
	}
}

func TestRenderNoFrontMatter(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("Hello world")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Content != "Hello world" {
		t.Errorf("Expected content to equal input, got %q", res.Content)
	}
	if len(res.Fields) != 0 {
		t.Errorf("Expected empty data, got %v", res.Fields)
	}
	if res.Rendered != "Hello world" {
		t.Errorf("Expected rendered to equal input, got %q", res.Rendered)
	}
}

func TestRenderBodySeesFrontMatter(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("---\nname: World\n---\nHello {{.name}}!")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Rendered != "Hello World!" {
		t.Errorf("Expected 'Hello World!', got %q", res.Rendered)
	}
}

// Front-matter values may themselves contain template expressions; they
// resolve against the supplied data before structural parsing.
func TestRenderMatterExpressions(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render(
		"---\ntitle: \"{{.project}} docs\"\n---\n{{.title}}",
		Data(map[string]any{"project": "MathJSLab"}),
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.MatterRendered != "title: \"MathJSLab docs\"" {
		t.Errorf("Unexpected rendered matter: %q", res.MatterRendered)
	}
	if res.Fields["title"] != "MathJSLab docs" {
		t.Errorf("Expected resolved title, got %v", res.Fields["title"])
	}
	if res.Rendered != "MathJSLab docs" {
		t.Errorf("Expected body to see resolved title, got %q", res.Rendered)
	}
}

func TestRenderGlobalContext(t *testing.T) {
	r := newTestRenderer()
	global := map[string]any{"site": "mathjslab", "name": "ambient"}
	r.SetGlobal(global)

	res, err := r.Render(
		"---\nname: local\n---\n{{.site}}/{{.name}}",
		Data(map[string]any{"extra": true}),
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Rendered != "mathjslab/local" {
		t.Errorf("Expected front matter to win over globals, got %q", res.Rendered)
	}

	// Redesigned merge: the caller's maps stay untouched
	if global["name"] != "ambient" {
		t.Errorf("Global context was mutated: %v", global)
	}
	if _, ok := global["extra"]; ok {
		t.Error("Call data leaked into the global context")
	}
}

func TestRenderLanguageOverride(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("---\nfoo = 1\n---\nHello", Lang("toml"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Language != "toml" {
		t.Errorf("Expected language 'toml', got %q", res.Language)
	}
	if res.Data["foo"] != int64(1) {
		t.Errorf("Expected foo=1, got %v", res.Data["foo"])
	}
}

func TestRenderDelimiterSuffixWinsOverOverride(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("---json\n{\"foo\": 1}\n---\nHello", Lang("toml"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Language != "json" {
		t.Errorf("Expected delimiter-line notation to win, got %q", res.Language)
	}
}

func TestRenderUnknownNotation(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render("---wat\nfoo: 1\n---\nHello")
	if err == nil {
		t.Fatal("Expected error for unknown notation, got nil")
	}
	if !strings.Contains(err.Error(), "cannot parse front matter of template") {
		t.Errorf("Expected parse-context error, got %v", err)
	}
}

func TestRenderParseErrorContext(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render("---\n[broken\n---\nHello")
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), "cannot parse front matter of template") {
		t.Errorf("Expected parse-context error, got %v", err)
	}
}

func TestRenderRenderErrorContext(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render("---\nfoo: 1\n---\n{{.missing.deep}}")
	if err == nil {
		t.Fatal("Expected render error, got nil")
	}
	if !strings.Contains(err.Error(), "cannot render template") {
		t.Errorf("Expected render-context error, got %v", err)
	}
}

func TestRenderArgumentContract(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		args []Arg
	}{
		{"duplicate language", []Arg{Lang("yaml"), Lang("toml")}},
		{"duplicate data", []Arg{Data(nil), Data(nil)}},
		{"duplicate options", []Arg{Opts(), Opts()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render("Hello", tt.args...)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("Expected ErrInvalidArguments, got %v", err)
			}
		})
	}

	// Any order is fine as long as each kind appears once
	if _, err := r.Render("Hello", Opts(), Lang("yaml"), Data(nil)); err != nil {
		t.Errorf("Expected reordered arguments to work, got %v", err)
	}
}

func TestRenderCallOptions(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render("~~~\nfoo: 1\n~~~\nHello", Opts(matter.WithDelimiters("~~~")))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Matter != "foo: 1" {
		t.Errorf("Expected custom delimiters to apply, got matter %q", res.Matter)
	}
}

func TestRenderExcerpt(t *testing.T) {
	r := newTestRenderer()

	res, err := r.Render(
		"---\ntitle: t\n---\nLead paragraph\n<!-- more -->\nRest",
		Opts(matter.WithExcerptSeparator("<!-- more -->"), matter.WithExcerptAlias("summary")),
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Excerpt != "Lead paragraph" {
		t.Errorf("Expected excerpt, got %q", res.Excerpt)
	}
	if res.Data["summary"] != "Lead paragraph" {
		t.Errorf("Expected excerpt alias in context, got %v", res.Data["summary"])
	}
}

func TestVarEngine(t *testing.T) {
	r := NewRenderer(matter.NewRegistry(), VarEngine{})

	res, err := r.Render("---\nversion: 1.2.3\n---\nv${version}")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Rendered != "v1.2.3" {
		t.Errorf("Expected 'v1.2.3', got %q", res.Rendered)
	}

	_, err = r.Render("${missing}")
	if err == nil {
		t.Fatal("Expected error for unknown placeholder, got nil")
	}
	if !strings.Contains(err.Error(), "cannot render template") {
		t.Errorf("Expected render-context error, got %v", err)
	}
}
