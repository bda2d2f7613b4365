package matter

import (
	"errors"
	"fmt"
	"strings"
)

// Document is a parsed content file: raw front matter, body, and the
// structured data the front matter contained.
type Document struct {
	Input    string
	Language string
	Matter   string
	Content  string
	Excerpt  string
	Data     map[string]any
}

// ErrMissingClosingDelimiter indicates the document started with an opening
// front-matter delimiter but never closed the block.
var ErrMissingClosingDelimiter = errors.New("front-matter opening delimiter found but closing delimiter is missing")

// Split separates a document into raw front matter and body.
//
// The opening delimiter line may carry a bare notation name suffix
// ("---toml"). If the input does not start with the opening delimiter the
// whole input is body and had is false.
func Split(input string, opts Options) (matter, lang, content string, had bool, err error) {
	open := opts.OpenDelim()
	close := opts.CloseDelim()

	if !strings.HasPrefix(input, open) {
		return "", "", input, false, nil
	}

	rest := input[len(open):]
	lineEnd := strings.IndexByte(rest, '\n')
	if lineEnd < 0 {
		// A lone delimiter line with nothing after it is not a block
		return "", "", input, false, nil
	}

	lang = strings.TrimSpace(rest[:lineEnd])
	if lang != "" && !isNotationToken(lang) {
		// Not a delimiter line after all (e.g. "----" rulers, text)
		return "", "", input, false, nil
	}

	block := rest[lineEnd+1:]

	// Empty block: closing delimiter immediately follows the opening line
	if block == close {
		return "", lang, "", true, nil
	}
	if strings.HasPrefix(block, close+"\n") {
		return "", lang, block[len(close)+1:], true, nil
	}

	closeSeq := "\n" + close
	idx := strings.Index(block, closeSeq)
	for idx >= 0 {
		after := block[idx+len(closeSeq):]
		if after == "" {
			return block[:idx], lang, "", true, nil
		}
		if after[0] == '\n' {
			return block[:idx], lang, after[1:], true, nil
		}
		// Delimiter token in the middle of a line; keep searching
		next := strings.Index(block[idx+1:], closeSeq)
		if next < 0 {
			break
		}
		idx += 1 + next
	}

	return "", "", "", false, ErrMissingClosingDelimiter
}

// Parse splits input and parses the front matter with the notation selected
// by the delimiter-line suffix, the options, or defaultLang, in that order.
func Parse(input string, reg *Registry, defaultLang string, opts Options) (*Document, error) {
	raw, lang, content, had, err := Split(input, opts)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Input:   input,
		Content: content,
		Data:    map[string]any{},
	}

	if lang == "" {
		lang = opts.Language
	}
	if lang == "" {
		lang = defaultLang
	}
	if lang == "" {
		lang = "yaml"
	}
	doc.Language = reg.Resolve(lang)

	if had {
		doc.Matter = raw
		engine, err := LookupEngine(reg, doc.Language, opts)
		if err != nil {
			return nil, err
		}
		data, err := engine.Parse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("cannot parse front matter of template: %w", err)
		}
		doc.Data = data
	}

	if excerpt, ok := ExtractExcerpt(doc.Content, opts); ok {
		doc.Excerpt = excerpt
		if opts.ExcerptAlias != "" {
			doc.Data[opts.ExcerptAlias] = excerpt
		}
	}
	return doc, nil
}

// LookupEngine checks per-call engine overrides before the registry.
// Override names resolve through the same alias table as registry names.
func LookupEngine(reg *Registry, lang string, opts Options) (Engine, error) {
	canonical := reg.Resolve(lang)
	for name, e := range opts.Engines {
		if reg.Resolve(name) == canonical {
			return e, nil
		}
	}
	return reg.Lookup(lang)
}

// ExtractExcerpt pulls the leading body portion up to the excerpt
// separator. Best-effort: a missing separator yields no excerpt.
func ExtractExcerpt(content string, opts Options) (string, bool) {
	if !opts.Excerpt {
		return "", false
	}

	sep := opts.Separator()
	var cut int
	if strings.HasPrefix(content, sep) {
		cut = 0
	} else if idx := strings.Index(content, "\n"+sep); idx >= 0 {
		cut = idx + 1
	} else {
		return "", false
	}

	return strings.TrimSpace(content[:cut]), true
}

// isNotationToken reports whether s looks like a bare notation name
// (letters, digits, hyphens), ruling out rulers and prose.
func isNotationToken(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	// All-dash suffixes are longer delimiters, not names
	return strings.Trim(s, "-") != ""
}
