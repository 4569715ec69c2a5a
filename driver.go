package pegcore

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

func emitBarriers(p *Parser, input string) *BarrierTokenCollection {
	if p.barrierTokenizer == nil {
		return newBarrierTokenCollection(nil, len(input))
	}
	tokens, err := p.barrierTokenizer.Tokenize(input)
	if err != nil {
		return newBarrierTokenCollection(nil, len(input))
	}
	return newBarrierTokenCollection(tokens, len(input))
}

func newRootContext(p *Parser, input string, param interface{}) *ParserContext {
	ctx := newParserContext(p, input, param, p.config)
	ctx.barriers = emitBarriers(p, input)
	return ctx
}

// errAsMultiError wraps a ParserContext's grouped errors into a single Go
// error: the furthest-position group's messages joined via
// github.com/hashicorp/go-multierror (spec.md §4.6/§6's error aggregation).
func errAsMultiError(ctx *ParserContext) error {
	groups := ctx.CreateErrorGroups()
	if len(groups) == 0 {
		return newConfigError("parse failed with no recorded error")
	}
	var merr *multierror.Error
	for _, g := range groups {
		merr = multierror.Append(merr, newParseFailure(ctx, g))
	}
	return merr.ErrorOrNil()
}

// Parse matches rule ruleID against the whole of input starting at
// offset 0, returning a *ParseFailure (wrapped in a *multierror.Error) if
// the match did not succeed or did not consume all of input (spec.md §5).
// param is optional; only its first value is passed on to the parse.
func Parse(p *Parser, input string, ruleID int, param ...interface{}) (ParsedRule, error) {
	var prm interface{}
	if len(param) > 0 {
		prm = param[0]
	}
	ctx := newRootContext(p, input, prm)
	result := matchRule(ctx, ruleID, 0)
	if !result.Success {
		return FailRule, errAsMultiError(ctx)
	}
	if result.End() != len(input) {
		ctx.recordFailure(result.End(), ruleID, false, "input not fully consumed")
		return FailRule, errAsMultiError(ctx)
	}
	return result, nil
}

// TryParse is Parse without the error: ok reports success.
func TryParse(p *Parser, input string, ruleID int, param ...interface{}) (ParsedRule, bool) {
	r, err := Parse(p, input, ruleID, param...)
	return r, err == nil
}

// MustParse is like Parse but panics on failure.
func MustParse(p *Parser, input string, ruleID int, param ...interface{}) ParsedRule {
	r, err := Parse(p, input, ruleID, param...)
	if err != nil {
		panic(err)
	}
	return r
}

// MatchToken runs a single token pattern against input at offset 0,
// without any rule-level skip/recovery wrapping — useful for testing a
// token in isolation (spec.md §3).
func MatchToken(p *Parser, input string, tokenID int) (ParsedElement, error) {
	ctx := newRootContext(p, input, nil)
	el := matchToken(ctx, tokenID, 0)
	if !el.Success {
		return FailElement, errAsMultiError(ctx)
	}
	return el, nil
}

// FindAllMatches scans input left to right for non-overlapping matches of
// ruleID, advancing past each match (or by one rune past a non-match) and
// returning every match found.
func FindAllMatches(p *Parser, input string, ruleID int) []ParsedRule {
	ctx := newRootContext(p, input, nil)
	var out []ParsedRule
	pos := 0
	for pos <= len(input) {
		r := matchRule(ctx, ruleID, pos)
		if r.Success && r.Length > 0 {
			out = append(out, r)
			pos += r.Length
			continue
		}
		if pos >= len(input) {
			break
		}
		_, n := ctx.readRune(pos)
		if n == 0 {
			n = 1
		}
		pos += n
	}
	return out
}

// Split divides input on every non-overlapping match of ruleID, the way
// strings.Split divides on a separator.
func Split(p *Parser, input string, ruleID int) []string {
	matches := FindAllMatches(p, input, ruleID)
	if len(matches) == 0 {
		return []string{input}
	}
	var out []string
	last := 0
	for _, m := range matches {
		out = append(out, input[last:m.Start])
		last = m.Start + m.Length
	}
	out = append(out, input[last:])
	return out
}

// ReplaceAllMatches replaces every non-overlapping match of ruleID with
// replacer's result, leaving unmatched text untouched.
func ReplaceAllMatches(p *Parser, input string, ruleID int, replacer func(ParsedRule) string) string {
	matches := FindAllMatches(p, input, ruleID)
	if len(matches) == 0 {
		return input
	}
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(input[last:m.Start])
		sb.WriteString(replacer(m))
		last = m.Start + m.Length
	}
	sb.WriteString(input[last:])
	return sb.String()
}
