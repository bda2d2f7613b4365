package render

import (
	"errors"
	"fmt"

	"github.com/MathJSLab/mathjslab-www/matter"
)

// ErrInvalidArguments reports a Render call that violates the argument
// contract: at most one language override, one data map, one option set.
var ErrInvalidArguments = errors.New("invalid render arguments")

// Arg is one optional Render argument. The concrete kinds are Lang, Data
// and Opts; each may appear at most once, in any order.
type Arg interface {
	isArg()
}

type langArg string

type dataArg map[string]any

type optsArg []matter.Option

func (langArg) isArg() {}
func (dataArg) isArg() {}
func (optsArg) isArg() {}

// Lang overrides the front-matter notation for this call.
func Lang(name string) Arg { return langArg(name) }

// Data supplies the data context layered over the global context.
func Data(d map[string]any) Arg { return dataArg(d) }

// Opts supplies front-matter options for this call.
func Opts(opts ...matter.Option) Arg { return optsArg(opts) }

// Result is the structured outcome of one render call. Callers inspect the
// intermediate fields, not just Rendered.
type Result struct {
	Input          string
	Language       string
	Matter         string
	MatterRendered string
	Content        string
	Excerpt        string
	Rendered       string

	// Fields is the parsed front matter alone.
	Fields map[string]any

	// Data is the effective context after merging Fields: a fresh map, not
	// the caller's.
	Data map[string]any
}

// Renderer drives the front-matter/template pipeline for one engine and
// notation registry. Safe for concurrent use once configured.
type Renderer struct {
	registry *matter.Registry
	engine   Engine
	global   map[string]any
	defaults matter.Options
}

// NewRenderer creates a renderer over the given registry and engine.
func NewRenderer(reg *matter.Registry, engine Engine) *Renderer {
	return &Renderer{registry: reg, engine: engine}
}

// SetGlobal enables global-context access: every render call starts from
// this data before layering call-specific data on top.
func (r *Renderer) SetGlobal(data map[string]any) {
	r.global = data
}

// SetDefaults installs the front-matter options applied to every call.
func (r *Renderer) SetDefaults(opts matter.Options) {
	r.defaults = opts
}

// Registry exposes the notation registry for custom engine registration.
func (r *Renderer) Registry() *matter.Registry {
	return r.registry
}

// Render resolves front matter and renders the body.
//
// Steps: layer call data over the global context; split the input; render
// the raw front matter through the engine so embedded expressions resolve
// before structural parsing; parse it with the selected notation; merge the
// parsed keys into the effective context; render the body with the
// enriched context. The effective context is a fresh map returned on
// Result.Data; the caller's map is never written.
func (r *Renderer) Render(input string, args ...Arg) (*Result, error) {
	langOverride, callData, callOpts, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	opts, err := matter.ExtendOptions(r.defaults, callOpts...)
	if err != nil {
		return nil, err
	}

	// Effective context: global first, call data wins
	data := make(map[string]any, len(r.global)+len(callData))
	for k, v := range r.global {
		data[k] = v
	}
	for k, v := range callData {
		data[k] = v
	}

	raw, detected, content, had, err := matter.Split(input, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot parse front matter of template: %w", err)
	}

	lang := detected
	if lang == "" {
		lang = langOverride
	}
	if lang == "" {
		lang = opts.Language
	}
	if lang == "" {
		lang = "yaml"
	}

	res := &Result{
		Input:    input,
		Language: r.registry.Resolve(lang),
		Content:  content,
		Fields:   map[string]any{},
		Data:     data,
	}

	if had {
		res.Matter = raw

		rendered, err := r.engine.Render(raw, data)
		if err != nil {
			return nil, fmt.Errorf("cannot render template: %w", err)
		}
		res.MatterRendered = rendered

		engine, err := matter.LookupEngine(r.registry, res.Language, opts)
		if err != nil {
			return nil, fmt.Errorf("cannot parse front matter of template: %w", err)
		}

		fields, err := engine.Parse([]byte(rendered))
		if err != nil {
			return nil, fmt.Errorf("cannot parse front matter of template: %w", err)
		}

		res.Fields = fields

		// Front-matter keys win over ambient context so the body sees them
		for k, v := range fields {
			data[k] = v
		}
	}

	if excerpt, ok := matter.ExtractExcerpt(content, opts); ok {
		res.Excerpt = excerpt
		if opts.ExcerptAlias != "" {
			data[opts.ExcerptAlias] = excerpt
		}
	}

	out, err := r.engine.Render(content, data)
	if err != nil {
		return nil, fmt.Errorf("cannot render template: %w", err)
	}
	res.Rendered = out

	return res, nil
}

// splitArgs enforces the argument contract: each argument kind at most
// once, any order, nothing else.
func splitArgs(args []Arg) (lang string, data map[string]any, opts []matter.Option, err error) {
	var haveLang, haveData, haveOpts bool
	for _, a := range args {
		switch v := a.(type) {
		case langArg:
			if haveLang {
				return "", nil, nil, fmt.Errorf("%w: language override given twice", ErrInvalidArguments)
			}
			haveLang = true
			lang = string(v)
		case dataArg:
			if haveData {
				return "", nil, nil, fmt.Errorf("%w: data context given twice", ErrInvalidArguments)
			}
			haveData = true
			data = v
		case optsArg:
			if haveOpts {
				return "", nil, nil, fmt.Errorf("%w: options given twice", ErrInvalidArguments)
			}
			haveOpts = true
			opts = v
		default:
			return "", nil, nil, fmt.Errorf("%w: unsupported argument %T", ErrInvalidArguments, a)
		}
	}
	return lang, data, opts, nil
}
