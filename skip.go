package pegcore

// skipOnce runs the configured whitespace/comment rule exactly once at pos
// and returns the new position (pos itself if the skip rule does not
// match, is unset, makes zero-length progress, or pos is already marked
// "avoid skipping" / would step past a barrier token). It does not itself
// mark any position as avoid-skipping -- that bit is set by the one
// strategy spec.md §4.4 actually calls for it (SkipBeforeParsing below),
// since marking every intermediate step's destination would stop a
// greedy/lazy loop after its first step (the next step starts exactly at
// that destination, so it would immediately see "avoid skipping" and quit).
func skipOnce(ctx *ParserContext, skipRuleID int, pos int) int {
	if skipRuleID < 0 || pos > len(ctx.input) {
		return pos
	}
	if ctx.avoidSkipping.get(pos) {
		return pos
	}
	if ctx.config.UseOptimizedWhitespaceSkip {
		if n := skipPlainWhitespace(ctx, pos); n > pos {
			return clampToBarrier(ctx, pos, n)
		}
	}
	prevInSkip := ctx.inSkipAttempt
	ctx.inSkipAttempt = true
	r := matchRule(ctx, skipRuleID, pos)
	ctx.inSkipAttempt = prevInSkip
	if !r.Success || r.Length == 0 {
		return pos
	}
	return clampToBarrier(ctx, pos, pos+r.Length)
}

// skipGreedy repeatedly applies the skip rule until it stops making
// progress, a barrier is reached, or an avoid-skipping marker is hit.
func skipGreedy(ctx *ParserContext, skipRuleID int, pos int) int {
	for {
		next := skipOnce(ctx, skipRuleID, pos)
		if next <= pos {
			return pos
		}
		pos = next
	}
}

// clampToBarrier truncates a proposed skip span [from, to) at the first
// barrier token boundary within it (spec.md §4.5: regular tokens, and the
// whitespace skip in particular, must never cross a barrier).
func clampToBarrier(ctx *ParserContext, from, to int) int {
	if ctx.ambientIgnoreBarriers {
		return to
	}
	if bp, ok := ctx.barriers.nextBarrierPosition(from); ok && bp < to {
		if bp <= from {
			return from
		}
		return bp
	}
	return to
}

// skipPlainWhitespace is the optimized short-circuit (spec.md §4.4: "an
// optimized whitespace short-circuit may run before falling back to the
// configured skip rule"): a tight ASCII space/tab/newline scan avoiding the
// overhead of a full rule dispatch for the overwhelmingly common case.
func skipPlainWhitespace(ctx *ParserContext, pos int) int {
	p := pos
	for p < len(ctx.input) {
		switch ctx.input[p] {
		case ' ', '\t', '\n', '\r':
			p++
		default:
			return p
		}
	}
	return p
}

// applySkipStrategy implements the nine concrete skip strategies around
// a single rule-matching attempt at pos. tryParse must return the match
// attempted at the position it is given. skipRuleID < 0 means no
// whitespace/comment rule is registered, in which case every strategy
// degenerates to SkipNone. Each of the three strategy families (plain,
// Lazy, Greedy) has its own control flow below, matching spec.md §4.4's
// table literally rather than sharing one loop across families.
func applySkipStrategy(ctx *ParserContext, strategy SkipStrategy, skipRuleID int, pos int, tryParse func(p int) ParsedRule) ParsedRule {
	if skipRuleID < 0 {
		strategy = SkipNone
	}

	switch strategy {
	case SkipNone, SkipDefault:
		return tryParse(pos)

	case SkipBeforeParsing:
		// Try skip once; regardless of outcome, parse target once. Mark
		// the post-skip position as avoid-skipping to prevent a later,
		// unrelated skip attempt landing on it from double-skipping the
		// same span (spec.md §4.4).
		next := skipOnce(ctx, skipRuleID, pos)
		ctx.avoidSkipping.set(next)
		return tryParse(next)

	case SkipBeforeParsingGreedy:
		// Skip as many times as possible; parse once.
		return tryParse(skipGreedy(ctx, skipRuleID, pos))

	case SkipBeforeParsingLazy:
		return skipLazyLoop(ctx, skipRuleID, pos, tryParse, false)

	case SkipTryParseThenSkip:
		// Try parse; on failure, skip once then parse once.
		if r := tryParse(pos); r.Success {
			return r
		}
		return tryParse(skipOnce(ctx, skipRuleID, pos))

	case SkipTryParseThenSkipGreedy:
		// Try parse; if fail, skip greedily then parse once.
		if r := tryParse(pos); r.Success {
			return r
		}
		return tryParse(skipGreedy(ctx, skipRuleID, pos))

	case SkipTryParseThenSkipLazy:
		// Try parse; if fail, loop {skip; try-parse}; exit on parse
		// success or when skip stops consuming.
		if r := tryParse(pos); r.Success {
			return r
		}
		return skipLazyLoop(ctx, skipRuleID, pos, tryParse, false)

	case SkipTryParseNonEmptyThenSkip:
		// As TryParseThenSkip, but a zero-length success counts as failure.
		if r := tryParse(pos); r.Success && r.Length > 0 {
			return r
		}
		return tryParse(skipOnce(ctx, skipRuleID, pos))

	case SkipTryParseNonEmptyThenSkipGreedy:
		if r := tryParse(pos); r.Success && r.Length > 0 {
			return r
		}
		return tryParse(skipGreedy(ctx, skipRuleID, pos))

	case SkipTryParseNonEmptyThenSkipLazy:
		if r := tryParse(pos); r.Success && r.Length > 0 {
			return r
		}
		return skipLazyLoop(ctx, skipRuleID, pos, tryParse, true)

	default:
		return tryParse(pos)
	}
}

// skipLazyLoop implements the Lazy family's "try-skip -> try-parse, first
// parse success returns" loop (spec.md §4.4). It terminates when a skip
// step makes no further progress (skipOnce already enforces "a skip
// attempt must advance the cursor to count as success"), at which point it
// falls through to a final parse attempt at the last-reached position —
// this is the explicit termination spec.md §9's open question calls for,
// in place of the legacy loop that never fell through on skip-failure.
func skipLazyLoop(ctx *ParserContext, skipRuleID int, pos int, tryParse func(p int) ParsedRule, nonEmpty bool) ParsedRule {
	cur := pos
	for {
		next := skipOnce(ctx, skipRuleID, cur)
		if next <= cur {
			return tryParse(cur)
		}
		cur = next
		if r := tryParse(cur); r.Success && (!nonEmpty || r.Length > 0) {
			return r
		}
	}
}
