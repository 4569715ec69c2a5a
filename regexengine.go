package pegcore

import "github.com/coregx/coregex/meta"

// regexMatcher wraps a compiled github.com/coregx/coregex/meta.Engine to
// serve the Regex token kind (spec.md §4.2). The engine performs leftmost
// search over the whole haystack rather than true start-anchoring, so each
// match is re-checked against the call site's offset: the token is sliced
// from the current position and a match is only accepted if it begins at
// offset 0 of that slice (SPEC_FULL.md's domain-stack wiring for
// coregx/coregex).
type regexMatcher struct {
	engine  *meta.Engine
	pattern string
}

func newRegexMatcher(pattern string) (*regexMatcher, error) {
	eng, err := meta.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &regexMatcher{engine: eng, pattern: pattern}, nil
}

// Regex builds a Regex token pattern backed by a coregx/coregex engine.
func Regex(pattern string) (*TokenPattern, error) {
	rm, err := newRegexMatcher(pattern)
	if err != nil {
		return nil, err
	}
	t := newToken(TokRegex)
	t.regex = rm
	return t, nil
}

// MustRegex is like Regex but panics on a malformed pattern, for use at
// grammar-definition time where the pattern is a compile-time constant.
func MustRegex(pattern string) *TokenPattern {
	t, err := Regex(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func matchRegexToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	if t.regex == nil {
		return FailElement
	}
	m := t.regex.engine.Find([]byte(ctx.input[pos:]))
	if m == nil || m.Start() != 0 {
		return FailElement
	}
	length := m.End() - m.Start()
	return ParsedElement{Start: pos, Length: length, IntermediateValue: m.String(), Success: true}
}
