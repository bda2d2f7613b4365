package matter

import (
	"bytes"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// Engine is a parse/stringify pair for one structured-data notation.
type Engine struct {
	Parse     func(data []byte) (map[string]any, error)
	Stringify func(fields map[string]any) ([]byte, error)
}

// Registry maps notation names to engines. It is constructed explicitly
// and is read-only after setup; there is no ambient global table.
type Registry struct {
	engines map[string]Engine
	aliases map[string]string
}

// NewRegistry returns a registry with the built-in notations (yaml, json,
// toml) and the standard alias table. Names that resolve through the alias
// table but ship no engine (javascript, coffee) fail at lookup time unless
// the caller registers one.
func NewRegistry() *Registry {
	r := &Registry{
		engines: make(map[string]Engine),
		aliases: map[string]string{
			"yml":           "yaml",
			"json5":         "json",
			"jsonc":         "json",
			"js":            "javascript",
			"node":          "javascript",
			"coffee-script": "coffee",
			"coffeescript":  "coffee",
			"cson":          "coffee",
		},
	}

	r.Register("yaml", Engine{
		Parse:     parseYAML,
		Stringify: stringifyYAML,
	})
	// JSON parsing goes through json5 so comments and trailing commas in
	// front matter are accepted; output is plain indented JSON.
	r.Register("json", Engine{
		Parse:     parseJSON,
		Stringify: stringifyJSON,
	})
	r.Register("toml", Engine{
		Parse:     parseTOML,
		Stringify: stringifyTOML,
	})

	return r
}

// Register installs or replaces the engine for a canonical notation name.
func (r *Registry) Register(name string, e Engine) {
	r.engines[r.Resolve(name)] = e
}

// Resolve maps a name or alias to its canonical notation name,
// case-insensitively. Unrecognized names pass through verbatim (lowercased)
// as custom notation names.
func (r *Registry) Resolve(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[n]; ok {
		return canonical
	}
	return n
}

// Lookup returns the engine for a notation name or alias. A name with no
// registered engine is an error, never a silent default.
func (r *Registry) Lookup(name string) (Engine, error) {
	canonical := r.Resolve(name)
	e, ok := r.engines[canonical]
	if !ok {
		return Engine{}, fmt.Errorf("no engine registered for notation %q", canonical)
	}
	return e, nil
}

func parseYAML(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func stringifyYAML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseJSON(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := json5.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func stringifyJSON(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	out, err := gojson.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func parseTOML(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := toml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func stringifyTOML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	return toml.Marshal(fields)
}
