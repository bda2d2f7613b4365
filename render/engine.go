package render

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/valyala/fasttemplate"
)

// Engine renders a text fragment against a data context. The pipeline
// treats the engine as an external collaborator: front matter and body go
// through the same engine within one render call.
type Engine interface {
	Name() string
	Render(text string, data map[string]any) (string, error)
}

// GoEngine renders with text/template. It is the pipeline default.
type GoEngine struct {
	// Funcs are extra template helpers made available to every page.
	Funcs template.FuncMap
}

func (GoEngine) Name() string { return "go" }

func (e GoEngine) Render(text string, data map[string]any) (string, error) {
	tpl, err := template.New("page").Funcs(e.Funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// VarEngine performs plain placeholder substitution with fasttemplate.
// Used for stamping values into style sheets and generator config, where
// full template logic is unwanted.
type VarEngine struct {
	StartTag string
	EndTag   string
}

func (VarEngine) Name() string { return "vars" }

func (e VarEngine) Render(text string, data map[string]any) (string, error) {
	start := e.StartTag
	if start == "" {
		start = "${"
	}
	end := e.EndTag
	if end == "" {
		end = "}"
	}

	t, err := fasttemplate.NewTemplate(text, start, end)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	return t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		v, ok := data[tag]
		if !ok {
			return 0, fmt.Errorf("unknown placeholder %q", tag)
		}
		return fmt.Fprintf(w, "%v", v)
	})
}
