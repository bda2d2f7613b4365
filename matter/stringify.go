package matter

import (
	"fmt"
	"strings"
)

// Stringify reassembles a document from structured data and body content.
//
// Empty data yields the bare content. The notation defaults to yaml when
// lang is empty.
func Stringify(content string, data map[string]any, reg *Registry, lang string, opts Options) (string, error) {
	if len(data) == 0 {
		return content, nil
	}

	if lang == "" {
		lang = opts.Language
	}
	if lang == "" {
		lang = "yaml"
	}

	engine, err := LookupEngine(reg, lang, opts)
	if err != nil {
		return "", err
	}
	if engine.Stringify == nil {
		return "", fmt.Errorf("engine for notation %q cannot stringify", reg.Resolve(lang))
	}

	raw, err := engine.Stringify(data)
	if err != nil {
		return "", fmt.Errorf("failed to stringify front matter: %w", err)
	}

	text := string(raw)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", opts.OpenDelim(), text, opts.CloseDelim(), content), nil
}
