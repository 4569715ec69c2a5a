package pegcore

// Sequence matches each child in order, threading the cursor forward and
// collecting each child's IntermediateValue; passageFn, if non-nil,
// reduces the collected values into the sequence's own value (spec.md
// §4.2).
func Sequence(passageFn func([]interface{}) (interface{}, error), children ...int) *TokenPattern {
	t := newToken(TokSequence)
	t.children = children
	t.passageFn = passageFn
	return t
}

func matchSequenceToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	p := pos
	vals := make([]interface{}, 0, len(t.children))
	for _, c := range t.children {
		r := matchToken(ctx, c, p)
		if !r.Success {
			return FailElement
		}
		vals = append(vals, r.IntermediateValue)
		p += r.Length
	}
	var value interface{} = vals
	if t.passageFn != nil {
		v, err := t.passageFn(vals)
		if err != nil {
			return FailElement
		}
		value = v
	}
	return ParsedElement{Start: pos, Length: p - pos, IntermediateValue: value, Success: true}
}

// Choice tries each child and selects a winner according to mode (spec.md
// §4.2/§8 scenario 2): ChoiceFirst picks the first success, ChoiceLongest/
// ChoiceShortest try every child and keep the longest/shortest match.
func Choice(mode ChoiceMode, children ...int) *TokenPattern {
	t := newToken(TokChoice)
	t.mode = mode
	t.children = children
	return t
}

func matchChoiceToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	candidates := t.children
	if t.buckets != nil {
		if r, n := ctx.readRune(pos); n > 0 {
			if bucket, ok := t.buckets[r]; ok {
				candidates = bucket
			}
		}
	}

	switch t.mode {
	case ChoiceFirst:
		for _, c := range candidates {
			if r := matchToken(ctx, c, pos); r.Success {
				return r
			}
		}
		return FailElement
	case ChoiceLongest, ChoiceShortest:
		var best ParsedElement
		found := false
		for _, c := range candidates {
			r := matchToken(ctx, c, pos)
			if !r.Success {
				continue
			}
			if !found {
				best, found = r, true
				continue
			}
			if t.mode == ChoiceLongest && r.Length > best.Length {
				best = r
			} else if t.mode == ChoiceShortest && r.Length < best.Length {
				best = r
			}
		}
		if !found {
			return FailElement
		}
		return best
	default:
		return FailElement
	}
}

// Optional matches child if possible, otherwise succeeds with a zero-length
// match (spec.md §4.2).
func Optional(child int) *TokenPattern {
	t := newToken(TokOptional)
	t.child = child
	t.optional = true
	return t
}

func matchOptionalToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	if r := matchToken(ctx, t.child, pos); r.Success {
		return r
	}
	return ParsedElement{Start: pos, Length: 0, Success: true}
}

// Repeat matches child between min and max times (max < 0 means unbounded),
// failing if fewer than min repetitions succeed (spec.md §4.2). A
// zero-length child match always terminates the loop after being counted
// once, to guarantee forward progress.
func Repeat(child, min, max int) *TokenPattern {
	t := newToken(TokRepeat)
	t.child = child
	t.min = min
	t.max = max
	if min == 0 {
		t.optional = true
	}
	return t
}

func matchRepeatToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	p := pos
	count := 0
	vals := []interface{}{}
	for t.max < 0 || count < t.max {
		r := matchToken(ctx, t.child, p)
		if !r.Success {
			break
		}
		vals = append(vals, r.IntermediateValue)
		count++
		if r.Length == 0 {
			break
		}
		p += r.Length
	}
	if count < t.min {
		return FailElement
	}
	return ParsedElement{Start: pos, Length: p - pos, IntermediateValue: vals, Success: true}
}

// Barrier matches a precomputed BarrierToken carrying the given alias at
// the current position (spec.md §4.5).
func Barrier(alias string) *TokenPattern {
	t := newToken(TokBarrier)
	t.barrierAlias = alias
	return t
}

func matchBarrierToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	bt, ok := ctx.barriers.tryGetBarrierToken(pos, ctx.barriers.passedAt(pos))
	if !ok || bt.TokenAlias != t.barrierAlias {
		return FailElement
	}
	return ParsedElement{Start: pos, Length: bt.Length, IntermediateValue: bt.TokenAlias, Success: true}
}

// Custom builds a token pattern that delegates matching entirely to fn,
// with children available for fn to call back into (spec.md §4.2).
func Custom(fn CustomTokenFunc, children ...int) *TokenPattern {
	t := newToken(TokCustom)
	t.customFn = fn
	t.customChildren = children
	return t
}

// Group matches child, then stores its matched span for later back-
// reference (spec.md §10, ported from the teacher's grouping.go G/NG).
// An empty name stores into the unnamed group stack.
func Group(name string, child int) *TokenPattern {
	t := newToken(TokGroup)
	t.groupName = name
	t.child = child
	return t
}

func matchGroupToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	r := matchToken(ctx, t.child, pos)
	if !r.Success {
		return FailElement
	}
	ctx.group(t.groupName, ctx.input[pos:pos+r.Length])
	return r
}

// GroupRef matches the literal text of a previously captured group (spec.md
// §10, ported from the teacher's text.go Ref/RefBack).
func GroupRef(name string) *TokenPattern {
	t := newToken(TokGroupRef)
	t.groupName = name
	return t
}

func matchGroupRefToken(ctx *ParserContext, t *TokenPattern, pos int) ParsedElement {
	want := ctx.refer(t.groupName)
	if pos+len(want) > len(ctx.input) || ctx.input[pos:pos+len(want)] != want {
		return FailElement
	}
	return ParsedElement{Start: pos, Length: len(want), IntermediateValue: want, Success: true}
}
