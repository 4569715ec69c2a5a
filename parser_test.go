package pegcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveRuleAndDefineRuleSupportRecursion(t *testing.T) {
	// value := "(" value ")" | "atom"
	b := NewBuilder(FlagFirstCharacterMatch, DefaultConfig())
	atomTok := b.AddToken(Literal("atom"))
	lparen := b.AddToken(Literal("("))
	rparen := b.AddToken(Literal(")"))

	valueID := b.ReserveRule()
	paren := b.AddRule(RuleSeq(b.AddRule(RuleT(lparen)), valueID, b.AddRule(RuleT(rparen))).WithAliases("paren"))
	atom := b.AddRule(RuleT(atomTok).WithAliases("atom"))
	b.DefineRule(valueID, RuleAlt(ChoiceFirst, paren, atom).WithAliases("value"))

	p := b.MustBuild()

	r, err := Parse(p, "((atom))", valueID)
	require.NoError(t, err)
	assert.Equal(t, 8, r.Length)

	_, err = Parse(p, "(atom", valueID)
	assert.Error(t, err)
}

func TestDefineRulePanicsOnUnreservedID(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	assert.Panics(t, func() {
		b.DefineRule(5, RuleEnd())
	})
}

func TestBuildDetectsCircularReferenceOnly(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	id := b.ReserveRule()
	b.DefineRule(id, RuleOpt(id))

	_, err := b.Build()
	require.Error(t, err)
	be, ok := err.(*BuildError)
	require.True(t, ok)
	assert.Equal(t, ErrCircularReference, be.Kind)
}

func TestFirstCharacterDispatchNarrowsChoiceCandidates(t *testing.T) {
	b := NewBuilder(FlagFirstCharacterMatch, DefaultConfig())
	trueTok := b.AddToken(Literal("true"))
	falseTok := b.AddToken(Literal("false"))
	trueRule := b.AddRule(RuleT(trueTok))
	falseRule := b.AddRule(RuleT(falseTok))
	boolRule := b.AddRule(RuleAlt(ChoiceFirst, trueRule, falseRule))
	p := b.MustBuild()

	rule := p.rules[boolRule]
	require.NotNil(t, rule.buckets)
	assert.Equal(t, []int{trueRule}, rule.buckets['t'])
	assert.Equal(t, []int{falseRule}, rule.buckets['f'])

	r, err := Parse(p, "false", boolRule)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Length)
}

func TestAliasLookup(t *testing.T) {
	b := NewBuilder(0, DefaultConfig())
	tok := b.AddToken(Literal("x"))
	b.AddRule(RuleT(tok).WithAliases("myrule"))
	p := b.MustBuild()

	id, ok := p.aliasToRule["myrule"]
	require.True(t, ok)

	r, err := Parse(p, "x", id)
	require.NoError(t, err)
	assert.True(t, r.Success)
}
