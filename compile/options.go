// Copyright © 2024 The jvs/peg Authors.

package compile

// options holds the functional-option configuration for Compile, mirroring
// gorgo's lr/scanner.Option pattern (NewStdScanner(...Option)) rather than a
// config struct or a growing positional parameter list.
type options struct {
	utf8Positions bool
}

// Option configures Compile.
type Option func(*options)

// WithUTF8Positions makes the resulting Env's position-reporting helpers
// (Env.RunePosition) translate byte offsets to rune counts for
// error-message columns. It never changes match semantics: StrLit/RegexLit
// continue to match byte-for-byte against the ASCII-anchored default
// described in spec.md §3.4, regardless of this option.
func WithUTF8Positions() Option {
	return func(o *options) { o.utf8Positions = true }
}
