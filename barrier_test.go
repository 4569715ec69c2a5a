package pegcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrierTokenCollectionPassedAt(t *testing.T) {
	tokens := []BarrierToken{
		{TokenAlias: BarrierIndent, StartIndex: 2, Length: 2},
		{TokenAlias: BarrierIndent, StartIndex: 10, Length: 2},
	}
	col := newBarrierTokenCollection(tokens, 20)

	assert.Equal(t, 0, col.passedAt(0))
	assert.Equal(t, 0, col.passedAt(3)) // inside the first barrier's span
	assert.Equal(t, 1, col.passedAt(5))
	assert.Equal(t, 1, col.passedAt(11)) // inside the second barrier's span
	assert.Equal(t, 2, col.passedAt(13))
}

func TestBarrierTokenCollectionCrosses(t *testing.T) {
	col := newBarrierTokenCollection([]BarrierToken{{StartIndex: 5, Length: 1}}, 10)
	assert.True(t, col.crosses(0, 6))
	assert.False(t, col.crosses(0, 5))
	assert.False(t, col.crosses(6, 10))
}

func TestIndentTokenizer(t *testing.T) {
	src := "a\n  b\n  c\nd\n"
	toks, err := IndentTokenizer{TabSize: 4}.Tokenize(src)
	require.NoError(t, err)

	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, tok.TokenAlias)
	}
	assert.Equal(t, []string{BarrierIndent, BarrierDedent}, kinds)
}

func TestBarrierClampsSkip(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	ws := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 0, -1))
	skip := b.AddRule(RuleT(ws))
	b.SetSkipRuleID(skip)
	b.SetBarrierTokenizer(fixedBarrierTokenizer{{StartIndex: 2, Length: 1, TokenAlias: "BAR"}})
	p := b.MustBuild()

	ctx := newRootContext(p, "a  b", nil)
	to := skipGreedy(ctx, skip, 1)
	assert.Equal(t, 2, to, "the greedy skip must stop at the barrier token's start, not run through it")
}

type fixedBarrierTokenizer []BarrierToken

func (f fixedBarrierTokenizer) Tokenize(input string) ([]BarrierToken, error) { return f, nil }

func TestTryGetBarrierTokenSelectsWithinSharedPositionGroup(t *testing.T) {
	// Three zero-length DEDENTs sharing one StartIndex, as IndentTokenizer
	// emits when dedenting several levels in one step.
	tokens := []BarrierToken{
		{TokenAlias: "DEDENT0", StartIndex: 5, Length: 0},
		{TokenAlias: "DEDENT1", StartIndex: 5, Length: 0},
		{TokenAlias: "DEDENT2", StartIndex: 5, Length: 0},
	}
	col := newBarrierTokenCollection(tokens, 10)

	tok0, ok0 := col.tryGetBarrierToken(5, 0)
	require.True(t, ok0)
	assert.Equal(t, "DEDENT0", tok0.TokenAlias)

	tok1, ok1 := col.tryGetBarrierToken(5, 1)
	require.True(t, ok1)
	assert.Equal(t, "DEDENT1", tok1.TokenAlias)

	tok2, ok2 := col.tryGetBarrierToken(5, 2)
	require.True(t, ok2)
	assert.Equal(t, "DEDENT2", tok2.TokenAlias)

	_, ok3 := col.tryGetBarrierToken(5, 3)
	assert.False(t, ok3, "the group only has 3 entries; a 4th has already been consumed by something else")
}

func TestBarrierClampsEscapedTextTokenMatch(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	text := b.AddToken(EscapedText("", 0, false))
	rule := b.AddRule(RuleT(text))
	b.SetBarrierTokenizer(fixedBarrierTokenizer{{StartIndex: 5, Length: 0, TokenAlias: "BAR"}})
	p := b.MustBuild()

	ctx := newRootContext(p, "hello world", nil)
	r := matchRule(ctx, rule, 0)
	require.True(t, r.Success)
	assert.Equal(t, 5, r.Length, "an open-ended text match must cap at the barrier and not consume further")
}

func TestBarrierClampsOrdinaryTokenMatchGenerically(t *testing.T) {
	// RepeatChars has no barrier awareness of its own; the generic clamp in
	// matchToken's dispatch must still stop it from crossing the barrier.
	b := NewBuilder(0, DefaultConfig())
	spaces := b.AddToken(RepeatChars(RuneSetPredicate(" ", false), 0, -1))
	rule := b.AddRule(RuleT(spaces))
	b.SetBarrierTokenizer(fixedBarrierTokenizer{{StartIndex: 2, Length: 0, TokenAlias: "BAR"}})
	p := b.MustBuild()

	ctx := newRootContext(p, "    x", nil)
	r := matchRule(ctx, rule, 0)
	require.True(t, r.Success)
	assert.Equal(t, 2, r.Length, "the 4-space run must be capped at the barrier 2 positions in")
}
