package pegcore

import "strconv"

// NumberFlags configures the Number token (spec.md §4.2: "Number(kind,
// flags)" collapsed into one bitmask).
type NumberFlags uint16

const (
	// NumInteger allows a bare digit run with no fractional/exponent part.
	NumInteger NumberFlags = 1 << iota
	// NumFloat allows a '.' followed by a digit run.
	NumFloat
	// NumStrictFloat requires a fractional part or exponent (an
	// integer-looking run alone does not match) when combined with
	// NumFloat and NumInteger is not set.
	NumStrictFloat
	// NumScientific allows an exponent suffix ([eE][+-]?digits).
	NumScientific
	// NumUnsigned forbids a leading sign.
	NumUnsigned
	// NumPreferSimpler stores the value as int64 when the text has neither
	// a fractional part nor an exponent, even if NumFloat is also set.
	NumPreferSimpler
)

// NumberDefault allows signed integers and floats with optional exponent,
// preferring the narrower Go type when the literal has no '.' or exponent.
const NumberDefault = NumInteger | NumFloat | NumScientific | NumPreferSimpler

// Number builds a Number token pattern (spec.md §4.2).
func Number(flags NumberFlags) *TokenPattern {
	t := newToken(TokNumber)
	t.numFlags = flags
	return t
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func digitsRun(ctx *ParserContext, p int) int {
	start := p
	for p < len(ctx.input) && isDigit(rune(ctx.input[p])) {
		p++
	}
	return p - start
}

// matchNumber implements spec.md §4.2's Number token, including exponent
// backtracking (spec.md §8 scenario 6: "1e" matches the integer "1",
// backtracking off the dangling exponent marker).
func matchNumber(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	p := pos
	if !t.numFlags.has(NumUnsigned) && p < len(ctx.input) && (ctx.input[p] == '+' || ctx.input[p] == '-') {
		p++
	}
	intStart := p
	n := digitsRun(ctx, p)
	if n == 0 {
		return FailElement
	}
	p += n
	isFloat := false

	if t.numFlags.has(NumFloat) && p < len(ctx.input) && ctx.input[p] == '.' {
		fracStart := p + 1
		fn := digitsRun(ctx, fracStart)
		if fn > 0 {
			p = fracStart + fn
			isFloat = true
		} else if !t.numFlags.has(NumStrictFloat) {
			// lone '.' with no following digit: leave it unconsumed and
			// fall through as a plain integer.
		}
	}
	_ = intStart

	if t.numFlags.has(NumScientific) && p < len(ctx.input) && (ctx.input[p] == 'e' || ctx.input[p] == 'E') {
		save := p
		ep := p + 1
		if ep < len(ctx.input) && (ctx.input[ep] == '+' || ctx.input[ep] == '-') {
			ep++
		}
		en := digitsRun(ctx, ep)
		if en > 0 {
			p = ep + en
			isFloat = true
		} else {
			p = save // backtrack: dangling 'e'/'E' is not part of the match
		}
	}

	if t.numFlags.has(NumStrictFloat) && t.numFlags.has(NumFloat) && !isFloat && !t.numFlags.has(NumInteger) {
		return FailElement
	}

	text := ctx.input[pos:p]
	var value interface{}
	if isFloat || (!t.numFlags.has(NumPreferSimpler) && t.numFlags.has(NumFloat)) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return FailElement
		}
		value = f
	} else {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return FailElement
			}
			value = f
		} else {
			value = i
		}
	}
	return ParsedElement{Start: pos, Length: p - pos, IntermediateValue: value, Success: true}
}

func (f NumberFlags) has(bit NumberFlags) bool { return f&bit != 0 }
