// Package pegdemo builds a small JSON-like grammar on top of pegcore,
// exercised by cmd/pegctl (whitespace skipping, ordered Choice, Keyword
// boundaries).
package pegdemo

import "github.com/scannerless/pegcore"

// Grammar bundles a built *pegcore.Parser with the ids callers need.
type Grammar struct {
	Parser *pegcore.Parser
	Root   int

	tokenAliases map[string]int
}

// TokenByAlias resolves a token alias registered while building the
// grammar, for ad hoc MatchToken calls (e.g. from cmd/pegctl's match
// subcommand).
func (g *Grammar) TokenByAlias(alias string) (int, bool) {
	id, ok := g.tokenAliases[alias]
	return id, ok
}

// Build constructs the demo grammar:
//
//	value   := object | array | string | number | "true" | "false" | "null"
//	object  := "{" (member ("," member)*)? "}"
//	member  := string ":" value
//	array   := "[" (value ("," value)*)? "]"
//
// Whitespace is skipped greedily before every rule's own match attempt.
func Build(cfg pegcore.Config) *Grammar {
	b := pegcore.NewBuilder(pegcore.FlagFirstCharacterMatch|pegcore.FlagEnableMemoization, cfg)

	ws := b.AddToken(pegcore.RepeatChars(pegcore.RuneSetPredicate(" \t\r\n", false), 0, -1))
	lbrace := b.AddToken(pegcore.Literal("{"))
	rbrace := b.AddToken(pegcore.Literal("}"))
	lbrack := b.AddToken(pegcore.Literal("["))
	rbrack := b.AddToken(pegcore.Literal("]"))
	colon := b.AddToken(pegcore.Literal(":"))
	comma := b.AddToken(pegcore.Literal(","))
	trueTok := b.AddToken(pegcore.Keyword("true", identContPredicate))
	falseTok := b.AddToken(pegcore.Keyword("false", identContPredicate))
	nullTok := b.AddToken(pegcore.Keyword("null", identContPredicate))
	str := b.AddToken(jsonStringToken())
	num := b.AddToken(pegcore.Number(pegcore.NumberDefault))

	skipRuleID := b.AddRule(pegcore.RuleT(ws).WithAliases("whitespace"))
	b.SetSkipRuleID(skipRuleID)

	ruleStr := b.AddRule(pegcore.RuleT(str).WithAliases("string"))
	ruleNum := b.AddRule(pegcore.RuleT(num).WithAliases("number"))
	ruleTrue := b.AddRule(pegcore.RuleT(trueTok).WithAliases("true"))
	ruleFalse := b.AddRule(pegcore.RuleT(falseTok).WithAliases("false"))
	ruleNull := b.AddRule(pegcore.RuleT(nullTok).WithAliases("null"))

	ruleLBrace := b.AddRule(pegcore.RuleT(lbrace))
	ruleRBrace := b.AddRule(pegcore.RuleT(rbrace))
	ruleLBrack := b.AddRule(pegcore.RuleT(lbrack))
	ruleRBrack := b.AddRule(pegcore.RuleT(rbrack))
	ruleColon := b.AddRule(pegcore.RuleT(colon))
	ruleComma := b.AddRule(pegcore.RuleT(comma))

	// value is mutually recursive with object/array/member, so its id is
	// reserved up front and its body defined once every branch exists.
	valueID := b.ReserveRule()

	member := b.AddRule(pegcore.RuleSeq(ruleStr, ruleColon, valueID).WithAliases("member"))

	commaMember := b.AddRule(pegcore.RuleSeq(ruleComma, member))
	memberList := b.AddRule(pegcore.RuleRep(commaMember, 0, -1))
	membersOpt := b.AddRule(pegcore.RuleOpt(b.AddRule(pegcore.RuleSeq(member, memberList))))
	object := b.AddRule(pegcore.RuleSeq(ruleLBrace, membersOpt, ruleRBrace).WithAliases("object"))

	commaValue := b.AddRule(pegcore.RuleSeq(ruleComma, valueID))
	valueList := b.AddRule(pegcore.RuleRep(commaValue, 0, -1))
	valuesOpt := b.AddRule(pegcore.RuleOpt(b.AddRule(pegcore.RuleSeq(valueID, valueList))))
	array := b.AddRule(pegcore.RuleSeq(ruleLBrack, valuesOpt, ruleRBrack).WithAliases("array"))

	b.DefineRule(valueID, pegcore.RuleAlt(pegcore.ChoiceFirst, object, array, ruleStr, ruleNum, ruleTrue, ruleFalse, ruleNull).WithAliases("value"))

	parser := b.MustBuild()

	return &Grammar{
		Parser: parser,
		Root:   valueID,
		tokenAliases: map[string]int{
			"string": str,
			"number": num,
			"true":   trueTok,
			"false":  falseTok,
			"null":   nullTok,
		},
	}
}

func identContPredicate(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// jsonStringToken is a Custom token (spec.md §4.2) rather than a composed
// EscapedText, since JSON's backslash escapes are two-character sequences
// ("\n", "\t", ...) rather than the doubled-delimiter or bare-escape forms
// EscapedText models directly.
func jsonStringToken() *pegcore.TokenPattern {
	return pegcore.Custom(func(m *pegcore.TokenMatcher) pegcore.ParsedElement {
		input := m.Remaining()
		if len(input) == 0 || input[0] != '"' {
			return pegcore.FailElement
		}
		p := 1
		for p < len(input) && input[p] != '"' {
			if input[p] == '\\' && p+1 < len(input) {
				p += 2
				continue
			}
			p++
		}
		if p >= len(input) {
			return pegcore.FailElement
		}
		p++ // closing quote
		return m.Ok(p, unquoteJSON(input[1:p-1]))
	})
}

func unquoteJSON(body string) string {
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, body[i])
	}
	return string(out)
}
