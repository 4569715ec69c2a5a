package pegcore

import "strings"

// TextUntil builds a token that consumes runs of text up to (optionally
// including) wherever child stopPat next matches (spec.md §4.2). failOnEOF
// makes reaching the end of input without a stop match a failure instead
// of an implicit match of the remaining text; allowEmpty permits a
// zero-length match right at the stop pattern.
func TextUntil(stopPat int, consumeStop, failOnEOF, allowEmpty bool) *TokenPattern {
	t := newToken(TokTextUntil)
	t.stopPat = stopPat
	t.consumeStop = consumeStop
	t.failOnEOF = failOnEOF
	t.allowEmpty = allowEmpty
	return t
}

func matchTextUntil(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	// A barrier acts as an early virtual end-of-input for this scan, so the
	// run never crosses it (spec.md §4.5).
	limit := clampToBarrier(ctx, pos, len(ctx.input))
	p := pos
	for {
		if stop := matchToken(ctx, t.stopPat, p); stop.Success {
			end := p
			if t.consumeStop {
				end = p + stop.Length
				if end > limit {
					end = limit
				}
			}
			if end == pos && !t.allowEmpty {
				return FailElement
			}
			return ParsedElement{Start: pos, Length: end - pos, Success: true}
		}
		if p >= limit {
			if t.failOnEOF {
				return FailElement
			}
			if p == pos && !t.allowEmpty {
				return FailElement
			}
			return ParsedElement{Start: pos, Length: p - pos, Success: true}
		}
		_, n := ctx.readRune(p)
		if n == 0 {
			n = 1
		}
		p += n
	}
}

// matchEscapedText implements the EscapedText token (spec.md §4.2): a text
// run terminated by any rune in stopChars, honoring either doubled-escape
// ("" inside a string delimited by ") or backslash-style single-rune
// escaping.
func matchEscapedText(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	// A barrier acts as an early virtual end-of-input for this scan, so the
	// run never crosses it (spec.md §4.5); an escape pair that would
	// straddle the boundary is treated the same as one truncated by EOF.
	limit := clampToBarrier(ctx, pos, len(ctx.input))
	var sb strings.Builder
	p := pos
	for p < limit {
		r, n := ctx.readRune(p)
		if n == 0 || p+n > limit {
			break
		}
		if t.escapeRune != 0 && r == t.escapeRune {
			if t.doubling {
				next, nn := ctx.readRune(p + n)
				if nn > 0 && p+n+nn <= limit && next == t.escapeRune {
					sb.WriteRune(t.escapeRune)
					p += n + nn
					continue
				}
				if strings.ContainsRune(t.stopChars, r) {
					break
				}
				sb.WriteRune(r)
				p += n
				continue
			}
			next, nn := ctx.readRune(p + n)
			if nn == 0 || p+n+nn > limit {
				sb.WriteRune(r)
				p += n
				break
			}
			sb.WriteRune(next)
			p += n + nn
			continue
		}
		if strings.ContainsRune(t.stopChars, r) {
			break
		}
		sb.WriteRune(r)
		p += n
	}
	return ParsedElement{Start: pos, Length: p - pos, IntermediateValue: sb.String(), Success: true}
}

// First tries each child in turn, returning the first success (spec.md
// §4.2). Unlike Choice, First never builds a first-character dispatch
// table: it exists for small, dynamically assembled alternations where the
// bucket-building cost isn't worth it.
func First(passageFn func([]interface{}) (interface{}, error), children ...int) *TokenPattern {
	t := newToken(TokFirst)
	t.children = children
	t.passageFn = passageFn
	return t
}

func matchFirstToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	for _, c := range t.children {
		r := matchToken(ctx, c, pos)
		if !r.Success {
			continue
		}
		if t.passageFn != nil {
			v, err := t.passageFn([]interface{}{r.IntermediateValue})
			if err != nil {
				continue
			}
			r.IntermediateValue = v
		}
		return r
	}
	return FailElement
}

// MapSpan matches child and transforms its matched text through mapFn
// (spec.md §4.2).
func MapSpan(child int, mapFn func(span string) (interface{}, error)) *TokenPattern {
	t := newToken(TokMapSpan)
	t.child = child
	t.mapFn = mapFn
	return t
}

func matchMapSpan(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	r := matchToken(ctx, t.child, pos)
	if !r.Success {
		return FailElement
	}
	v, err := t.mapFn(ctx.input[pos : pos+r.Length])
	if err != nil {
		return FailElement
	}
	return ParsedElement{Start: pos, Length: r.Length, IntermediateValue: v, Success: true}
}
