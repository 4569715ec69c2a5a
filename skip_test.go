package pegcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSkipTestParser() (*Parser, int, int) {
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 1, -1))
	word := b.AddToken(Literal("go"))
	skip := b.AddRule(RuleT(ws))
	rule := b.AddRule(RuleT(word))
	return b.MustBuild(), skip, rule
}

func TestApplySkipStrategyBeforeParsingGreedy(t *testing.T) {
	p, skip, rule := buildSkipTestParser()
	ctx := newRootContext(p, "   go", nil)
	r := applySkipStrategy(ctx, SkipBeforeParsingGreedy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[rule], rule, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 3, r.Start)
}

func TestApplySkipStrategyNone(t *testing.T) {
	p, skip, rule := buildSkipTestParser()
	ctx := newRootContext(p, "   go", nil)
	r := applySkipStrategy(ctx, SkipNone, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[rule], rule, pos)
	})
	assert.False(t, r.Success, "SkipNone must not skip leading whitespace before trying the rule")
}

func TestApplySkipStrategyTryParseThenSkip(t *testing.T) {
	p, skip, rule := buildSkipTestParser()

	// Succeeds without skipping at all: TryParseThenSkip must not skip
	// first and instead accept the unskipped attempt.
	ctx := newRootContext(p, "go", nil)
	r := applySkipStrategy(ctx, SkipTryParseThenSkip, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[rule], rule, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 0, r.Start)

	// Only succeeds after skipping.
	ctx2 := newRootContext(p, "  go", nil)
	r2 := applySkipStrategy(ctx2, SkipTryParseThenSkip, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx2, p.rules[rule], rule, pos)
	})
	assert.True(t, r2.Success)
	assert.Equal(t, 2, r2.Start)
}

func TestApplySkipStrategyTryParseNonEmptyThenSkip(t *testing.T) {
	// A zero-length successful attempt at the unskipped position must not
	// be accepted by the NonEmpty variant; it must fall through to skip.
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 1, -1))
	opt := b.AddToken(RepeatChars(RuneSetPredicate("x", false), 0, -1))
	skip := b.AddRule(RuleT(ws))
	rule := b.AddRule(RuleT(opt))
	p := b.MustBuild()

	ctx := newRootContext(p, "  xx", nil)
	r := applySkipStrategy(ctx, SkipTryParseNonEmptyThenSkip, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[rule], rule, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 2, r.Start, "the empty unskipped match must be rejected in favor of the post-skip match")
}

func TestSkipOnceVsGreedy(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 1, -1))
	commentStart := b.AddToken(Literal("#"))
	commentBody := b.AddToken(TextUntil(b.AddToken(Literal("\n")), false, false, true))
	comment := b.AddRule(RuleSeq(b.AddRule(RuleT(commentStart)), b.AddRule(RuleT(commentBody))))
	wsRule := b.AddRule(RuleT(ws))
	skip := b.AddRule(RuleAlt(ChoiceFirst, wsRule, comment))
	p := b.MustBuild()

	ctx := newRootContext(p, " # hi\n  x", nil)
	once := skipOnce(ctx, skip, 0)
	assert.Equal(t, 1, once, "skipOnce applies the skip rule exactly once")

	ctx2 := newRootContext(p, " # hi\n  x", nil)
	greedy := skipGreedy(ctx2, skip, 0)
	assert.Equal(t, 8, greedy, "skipGreedy repeats until no more progress is made")
}

// buildCommentSkipParser's skip rule (whitespace|comment) only ever advances
// one "kind" of content per skipOnce call, so plain/Lazy/Greedy strategies
// built on it are actually distinguishable: the leading run of this input
// requires three separate skipOnce steps (space, then comment, then
// newline-then-spaces) to fully clear before "x" is reachable.
func buildCommentSkipParser() (*Parser, int, int) {
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" \n", false), 1, -1))
	commentStart := b.AddToken(Literal("#"))
	commentBody := b.AddToken(TextUntil(b.AddToken(Literal("\n")), false, false, true))
	comment := b.AddRule(RuleSeq(b.AddRule(RuleT(commentStart)), b.AddRule(RuleT(commentBody))))
	wsRule := b.AddRule(RuleT(ws))
	skip := b.AddRule(RuleAlt(ChoiceFirst, wsRule, comment))
	x := b.AddRule(RuleT(b.AddToken(Literal("x"))))
	return b.MustBuild(), skip, x
}

func TestApplySkipStrategyBeforeParsingIsSingleStepNotGreedy(t *testing.T) {
	p, skip, x := buildCommentSkipParser()
	ctx := newRootContext(p, " # hi\n  x", nil)
	r := applySkipStrategy(ctx, SkipBeforeParsing, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[x], x, pos)
	})
	assert.False(t, r.Success, "a single skip step only clears the leading space, landing on '#', not 'x'")
	assert.True(t, ctx.avoidSkipping.get(1), "SkipBeforeParsing must mark the post-skip position avoid-skipping")
}

func TestApplySkipStrategyBeforeParsingGreedyClearsEverything(t *testing.T) {
	p, skip, x := buildCommentSkipParser()
	ctx := newRootContext(p, " # hi\n  x", nil)
	r := applySkipStrategy(ctx, SkipBeforeParsingGreedy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[x], x, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 8, r.Start)
}

func TestApplySkipStrategyBeforeParsingLazyLoopsUntilParseSucceeds(t *testing.T) {
	p, skip, x := buildCommentSkipParser()
	ctx := newRootContext(p, " # hi\n  x", nil)
	r := applySkipStrategy(ctx, SkipBeforeParsingLazy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[x], x, pos)
	})
	assert.True(t, r.Success, "Lazy must keep looping skip-then-parse past the space and the comment")
	assert.Equal(t, 8, r.Start)
}

func TestApplySkipStrategyTryParseThenSkipLazy(t *testing.T) {
	p, skip, x := buildCommentSkipParser()
	ctx := newRootContext(p, " # hi\n  x", nil)
	r := applySkipStrategy(ctx, SkipTryParseThenSkipLazy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[x], x, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 8, r.Start)
}

func TestApplySkipStrategyTryParseNonEmptyThenSkipLazy(t *testing.T) {
	// A zero-length successful attempt at any intermediate position must be
	// rejected, forcing the loop to keep skipping until a non-empty match.
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" \n", false), 1, -1))
	commentStart := b.AddToken(Literal("#"))
	commentBody := b.AddToken(TextUntil(b.AddToken(Literal("\n")), false, false, true))
	comment := b.AddRule(RuleSeq(b.AddRule(RuleT(commentStart)), b.AddRule(RuleT(commentBody))))
	wsRule := b.AddRule(RuleT(ws))
	skip := b.AddRule(RuleAlt(ChoiceFirst, wsRule, comment))
	opt := b.AddRule(RuleT(b.AddToken(RepeatChars(RuneSetPredicate("x", false), 0, -1))))
	p := b.MustBuild()

	ctx := newRootContext(p, " # hi\n  x", nil)
	r := applySkipStrategy(ctx, SkipTryParseNonEmptyThenSkipLazy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[opt], opt, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 8, r.Start, "zero-length matches at '#' (pos 1) and '\\n' (pos 5) must both be rejected")
	assert.Equal(t, 1, r.Length)
}

func TestApplySkipStrategyTryParseNonEmptyThenSkipGreedy(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 1, -1))
	opt := b.AddToken(RepeatChars(RuneSetPredicate("x", false), 0, -1))
	skip := b.AddRule(RuleT(ws))
	rule := b.AddRule(RuleT(opt))
	p := b.MustBuild()

	ctx := newRootContext(p, "  xx", nil)
	r := applySkipStrategy(ctx, SkipTryParseNonEmptyThenSkipGreedy, skip, 0, func(pos int) ParsedRule {
		return matchRuleBody(ctx, p.rules[rule], rule, pos)
	})
	assert.True(t, r.Success)
	assert.Equal(t, 2, r.Start, "the empty unskipped match must be rejected in favor of the post-skip match")
}
