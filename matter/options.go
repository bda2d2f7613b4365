package matter

import (
	"errors"
	"fmt"
)

// DefaultDelimiter bounds front-matter blocks unless configured otherwise.
const DefaultDelimiter = "---"

// DefaultExcerptSeparator ends an excerpt when excerpts are enabled without
// an explicit separator.
const DefaultExcerptSeparator = "---"

// ErrInvalidConfig reports a caller-supplied option whose shape or value
// is not one of the accepted forms.
var ErrInvalidConfig = errors.New("invalid front-matter configuration")

// Options is the normalized front-matter configuration. Zero values mean
// "system default"; NewOptions only records state that differs from the
// defaults.
type Options struct {
	// Language is the notation used when the opening delimiter carries no
	// name suffix. Empty means yaml.
	Language string

	// Open and Close bound the front-matter block. Empty means "---".
	Open  string
	Close string

	// Excerpt extraction. Separator empty with Excerpt false means no
	// excerpt handling at all.
	Excerpt          bool
	ExcerptSeparator string
	ExcerptAlias     string

	// Engines holds per-call engine overrides layered over the registry.
	Engines map[string]Engine
}

// Option mutates an Options record during normalization.
type Option func(*Options) error

// WithLanguage selects the default notation by name or alias.
func WithLanguage(name string) Option {
	return func(o *Options) error {
		if name == "" {
			return fmt.Errorf("%w: language name is empty", ErrInvalidConfig)
		}
		o.Language = name
		return nil
	}
}

// WithDelimiters configures the delimiter pair. One value is used for both
// open and close, two values are used as given. More than two is an error.
func WithDelimiters(delims ...string) Option {
	return func(o *Options) error {
		switch len(delims) {
		case 0:
			return nil
		case 1:
			o.Open, o.Close = delims[0], delims[0]
		case 2:
			o.Open, o.Close = delims[0], delims[1]
		default:
			return fmt.Errorf("%w: at most two delimiters allowed, got %d", ErrInvalidConfig, len(delims))
		}
		if o.Open == "" || o.Close == "" {
			return fmt.Errorf("%w: delimiters must be non-empty", ErrInvalidConfig)
		}
		return nil
	}
}

// WithExcerpt toggles excerpt extraction under the default separator.
func WithExcerpt(enabled bool) Option {
	return func(o *Options) error {
		o.Excerpt = enabled
		return nil
	}
}

// WithExcerptSeparator enables excerpt extraction under a custom separator.
func WithExcerptSeparator(sep string) Option {
	return func(o *Options) error {
		if sep == "" {
			return fmt.Errorf("%w: excerpt separator is empty", ErrInvalidConfig)
		}
		o.Excerpt = true
		o.ExcerptSeparator = sep
		return nil
	}
}

// WithExcerptAlias stores the excerpt under the given data key instead of
// the default "excerpt".
func WithExcerptAlias(alias string) Option {
	return func(o *Options) error {
		if alias == "" {
			return fmt.Errorf("%w: excerpt alias is empty", ErrInvalidConfig)
		}
		o.ExcerptAlias = alias
		return nil
	}
}

// WithEngine layers a custom engine for one notation over the registry
// for the duration of a call.
func WithEngine(name string, e Engine) Option {
	return func(o *Options) error {
		if name == "" {
			return fmt.Errorf("%w: engine name is empty", ErrInvalidConfig)
		}
		if e.Parse == nil {
			return fmt.Errorf("%w: engine %q has no parse function", ErrInvalidConfig, name)
		}
		if o.Engines == nil {
			o.Engines = make(map[string]Engine)
		}
		o.Engines[name] = e
		return nil
	}
}

// NewOptions applies the supplied options over the defaults and normalizes
// the result. Only state that differs from the defaults survives: default
// delimiters collapse back to empty, and excerpt settings that would be a
// no-op are dropped.
func NewOptions(opts ...Option) (Options, error) {
	var o Options
	for _, opt := range opts {
		if opt == nil {
			return Options{}, fmt.Errorf("%w: nil option", ErrInvalidConfig)
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	o.normalize()
	return o, nil
}

// ExtendOptions layers additional options over an existing record and
// re-normalizes. The base record is not modified.
func ExtendOptions(base Options, opts ...Option) (Options, error) {
	o := base
	if base.Engines != nil {
		o.Engines = make(map[string]Engine, len(base.Engines))
		for k, v := range base.Engines {
			o.Engines[k] = v
		}
	}
	for _, opt := range opts {
		if opt == nil {
			return Options{}, fmt.Errorf("%w: nil option", ErrInvalidConfig)
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	o.normalize()
	return o, nil
}

func (o *Options) normalize() {
	if o.Open == DefaultDelimiter && o.Close == DefaultDelimiter {
		o.Open, o.Close = "", ""
	}
	if o.ExcerptSeparator == DefaultExcerptSeparator {
		o.ExcerptSeparator = ""
	}
	if !o.Excerpt {
		// Alias without excerpt extraction is a no-op
		o.ExcerptSeparator = ""
		o.ExcerptAlias = ""
	}
}

// OpenDelim returns the effective opening delimiter.
func (o Options) OpenDelim() string {
	if o.Open == "" {
		return DefaultDelimiter
	}
	return o.Open
}

// CloseDelim returns the effective closing delimiter.
func (o Options) CloseDelim() string {
	if o.Close == "" {
		return DefaultDelimiter
	}
	return o.Close
}

// Separator returns the effective excerpt separator.
func (o Options) Separator() string {
	if o.ExcerptSeparator == "" {
		return DefaultExcerptSeparator
	}
	return o.ExcerptSeparator
}

// Changed reports whether the record carries anything beyond the defaults.
func (o Options) Changed() bool {
	return o.Language != "" || o.Open != "" || o.Close != "" ||
		o.Excerpt || o.ExcerptSeparator != "" || o.ExcerptAlias != "" ||
		len(o.Engines) > 0
}
