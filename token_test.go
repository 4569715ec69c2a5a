package pegcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLiteral(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Literal("func"))
	p := b.MustBuild()

	el, err := MatchToken(p, "func main", tok)
	require.NoError(t, err)
	assert.Equal(t, 4, el.Length)

	_, err = MatchToken(p, "fun main", tok)
	assert.Error(t, err)
}

func TestMatchLiteralIgnoreCase(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Literal("func"))
	p := b.MustBuild()

	// No exported constructor turns ignoreCase on (LiteralChoice and
	// KeywordChoice pass false to setChoiceSet), so folded matching is
	// exercised here by setting the field directly.
	p.tokens[tok].ignoreCase = true
	el, err := MatchToken(p, "FUNC main", tok)
	require.NoError(t, err)
	assert.Equal(t, 4, el.Length)
}

func TestLiteralChoiceLongestMatch(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(LiteralChoice("a", "ab", "abc"))
	p := b.MustBuild()

	el, err := MatchToken(p, "abcd", tok)
	require.NoError(t, err)
	assert.Equal(t, 3, el.Length, "LiteralChoice must return the longest matching alternative")
}

func TestKeywordBoundary(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	kw := b.AddToken(Keyword("if", defaultIdentCont))
	p := b.MustBuild()

	el, err := MatchToken(p, "if (x)", kw)
	require.NoError(t, err)
	assert.Equal(t, 2, el.Length)

	_, err = MatchToken(p, "ifx (x)", kw)
	assert.Error(t, err, "Keyword must not match when followed by an identifier-continuation rune")
}

func TestKeywordChoiceLongestThenBoundary(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	kw := b.AddToken(KeywordChoice(defaultIdentCont, "in", "instanceof"))
	p := b.MustBuild()

	el, err := MatchToken(p, "instanceof x", kw)
	require.NoError(t, err)
	assert.Equal(t, len("instanceof"), el.Length)

	_, err = MatchToken(p, "instances", kw)
	assert.Error(t, err)
}

func TestRepeatChars(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(RepeatChars(RuneSetPredicate("0123456789", false), 1, -1))
	p := b.MustBuild()

	el, err := MatchToken(p, "12345abc", tok)
	require.NoError(t, err)
	assert.Equal(t, 5, el.Length)

	_, err = MatchToken(p, "abc", tok)
	assert.Error(t, err)
}

func TestIdentifier(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Identifier(defaultIdentStart, defaultIdentCont))
	p := b.MustBuild()

	el, err := MatchToken(p, "_foo123 bar", tok)
	require.NoError(t, err)
	assert.Equal(t, 7, el.Length)

	_, err = MatchToken(p, "123abc", tok)
	assert.Error(t, err)
}

func TestNumberExponentBacktracking(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Number(NumberDefault))
	p := b.MustBuild()

	el, err := MatchToken(p, "1e", tok)
	require.NoError(t, err)
	assert.Equal(t, 1, el.Length, "a dangling exponent marker must back off to the integer-only match")
	assert.EqualValues(t, 1, el.IntermediateValue)
}

func TestNumberFloatAndScientific(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Number(NumberDefault))
	p := b.MustBuild()

	el, err := MatchToken(p, "3.14x", tok)
	require.NoError(t, err)
	assert.Equal(t, 4, el.Length)
	assert.InDelta(t, 3.14, el.IntermediateValue.(float64), 1e-9)

	el, err = MatchToken(p, "-2.5e10rest", tok)
	require.NoError(t, err)
	assert.Equal(t, len("-2.5e10"), el.Length)
}

func TestNumberUnsignedRejectsSign(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Number(NumInteger | NumUnsigned))
	p := b.MustBuild()

	_, err := MatchToken(p, "-5", tok)
	assert.Error(t, err)

	el, err := MatchToken(p, "5", tok)
	require.NoError(t, err)
	assert.Equal(t, 1, el.Length)
}

func TestRegexToken(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(MustRegex(`[a-z]+[0-9]*`))
	p := b.MustBuild()

	el, err := MatchToken(p, "foo42!", tok)
	require.NoError(t, err)
	assert.Equal(t, 5, el.Length)

	_, err = MatchToken(p, "42foo", tok)
	assert.Error(t, err, "the match must begin at offset 0, not merely occur somewhere in the haystack")
}

func TestEscapedText(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(EscapedText(`"`, '\\', false))
	p := b.MustBuild()

	el, err := MatchToken(p, `hello\nworld"`, tok)
	require.NoError(t, err)
	assert.Equal(t, `hellonworld`, el.IntermediateValue)
	assert.Equal(t, len(`hello\nworld`), el.Length)
}

func TestTextUntil(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	stop := b.AddToken(Literal(";"))
	tok := b.AddToken(TextUntil(stop, false, true, true))
	p := b.MustBuild()

	el, err := MatchToken(p, "abc;def", tok)
	require.NoError(t, err)
	assert.Equal(t, 3, el.Length)

	_, err = MatchToken(p, "abcdef", tok)
	assert.Error(t, err, "failOnEOF must reject input with no stop match")
}

func TestChoiceTokenModes(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	a := b.AddToken(Literal("a"))
	ab := b.AddToken(Literal("ab"))
	first := b.AddToken(Choice(ChoiceFirst, a, ab))
	longest := b.AddToken(Choice(ChoiceLongest, a, ab))
	p := b.MustBuild()

	el, err := MatchToken(p, "abc", first)
	require.NoError(t, err)
	assert.Equal(t, 1, el.Length, "ChoiceFirst must stop at the first successful alternative")

	el, err = MatchToken(p, "abc", longest)
	require.NoError(t, err)
	assert.Equal(t, 2, el.Length, "ChoiceLongest must keep trying every alternative for the longest match")
}

func TestGroupAndGroupRef(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	word := b.AddToken(RepeatChars(RuneSetPredicate("abcdefghijklmnopqrstuvwxyz", false), 1, 4))
	grouped := b.AddToken(Group("tag", word))
	ref := b.AddToken(GroupRef("tag"))
	seq := b.AddToken(Sequence(nil, grouped, ref))
	p := b.MustBuild()

	el, err := MatchToken(p, "footfoot", seq)
	require.NoError(t, err)
	assert.Equal(t, len("footfoot"), el.Length)

	_, err = MatchToken(p, "footbar", seq)
	assert.Error(t, err)
}

func TestCustomToken(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Custom(func(m *TokenMatcher) ParsedElement {
		if len(m.Remaining()) >= 3 && m.Remaining()[:3] == "xyz" {
			return m.Ok(3, "xyz")
		}
		return FailElement
	}))
	p := b.MustBuild()

	el, err := MatchToken(p, "xyz123", tok)
	require.NoError(t, err)
	assert.Equal(t, 3, el.Length)
}
