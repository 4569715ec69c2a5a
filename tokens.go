package pegcore

import "sort"

// TokenKind is the closed enumeration of token pattern variants (spec.md
// §4.2). TokenPattern dispatches on Kind via a switch instead of virtual
// method calls, per Design Note #1.
type TokenKind int

const (
	TokLiteral TokenKind = iota
	TokLiteralChoice
	TokKeyword
	TokKeywordChoice
	TokChar
	TokChars
	TokRepeatChars
	TokIdentifier
	TokNumber
	TokRegex
	TokEscapedText
	TokTextUntil
	TokSequence
	TokChoice
	TokOptional
	TokRepeat
	TokFirst
	TokMapSpan
	TokBarrier
	TokCustom
	// TokGroup/TokGroupRef are supplemented from the teacher's grouping
	// mechanism (grouping.go/text.go): SPEC_FULL.md §10.
	TokGroup
	TokGroupRef
)

func (k TokenKind) String() string {
	switch k {
	case TokLiteral:
		return "Literal"
	case TokLiteralChoice:
		return "LiteralChoice"
	case TokKeyword:
		return "Keyword"
	case TokKeywordChoice:
		return "KeywordChoice"
	case TokChar:
		return "Char"
	case TokChars:
		return "Chars"
	case TokRepeatChars:
		return "RepeatChars"
	case TokIdentifier:
		return "Identifier"
	case TokNumber:
		return "Number"
	case TokRegex:
		return "Regex"
	case TokEscapedText:
		return "EscapedText"
	case TokTextUntil:
		return "TextUntil"
	case TokSequence:
		return "Sequence"
	case TokChoice:
		return "Choice"
	case TokOptional:
		return "Optional"
	case TokRepeat:
		return "Repeat"
	case TokFirst:
		return "First"
	case TokMapSpan:
		return "MapSpan"
	case TokBarrier:
		return "Barrier"
	case TokCustom:
		return "Custom"
	case TokGroup:
		return "Group"
	case TokGroupRef:
		return "GroupRef"
	default:
		return "Unknown"
	}
}

// ChoiceMode selects the winning branch among Choice alternatives, shared
// by both token-level and rule-level Choice (spec.md §4.2/§4.3).
type ChoiceMode int

const (
	ChoiceFirst ChoiceMode = iota
	ChoiceShortest
	ChoiceLongest
)

// CharPredicate tests whether a rune is accepted by Char/Chars/RepeatChars
// and by the identifier predicate used to terminate Keyword/KeywordChoice.
type CharPredicate func(r rune) bool

// CustomTokenFunc is the escape hatch for user-supplied token matching
// (spec.md §4.2: Custom(fn, children)).
type CustomTokenFunc func(m *TokenMatcher) ParsedElement

// TokenPattern is the terminal matcher type (spec.md §3). It carries
// fields for every TokenKind; only the fields relevant to Kind are
// populated by the corresponding constructor.
type TokenPattern struct {
	elementBase
	Kind TokenKind

	// Literal / Keyword / LiteralChoice / KeywordChoice
	text        string
	choiceSet   []string
	tree        prefixTree
	ignoreCase  bool
	identPred   CharPredicate

	// Char / Chars / RepeatChars
	charPred CharPredicate
	repMin   int
	repMax   int // < 0 means unbounded

	// Identifier
	identStart CharPredicate
	identCont  CharPredicate

	// Number
	numFlags NumberFlags

	// Regex
	regex *regexMatcher

	// EscapedText
	stopChars string
	escapeRune rune
	doubling   bool

	// TextUntil
	stopPat     int // child id of the stop sub-pattern
	consumeStop bool
	failOnEOF   bool
	allowEmpty  bool

	// Sequence / First
	children  []int
	passageFn func(vals []interface{}) (interface{}, error)

	// Choice
	mode    ChoiceMode
	buckets map[rune][]int // built by buildChoiceBuckets during Build when FlagFirstCharacterMatch is set
	hasNondeterministicChild bool

	// Optional / Repeat: single child
	child int
	min   int
	max   int // Repeat upper bound, < 0 unbounded

	// MapSpan
	mapFn func(span string) (interface{}, error)

	// Barrier
	barrierAlias string

	// Custom
	customFn       CustomTokenFunc
	customChildren []int

	// Group / GroupRef
	groupName string
	backward  bool
}

// newToken leaves firstChar nil (meaning "not yet computed" as well as
// spec.md §3's None / non-deterministic): computeTokenFirstChars fills in
// the real set during Build. A forward reference read before that pass
// reaches the referenced element (only possible for rules, via
// Builder.ReserveRule) must see "unknown" rather than "matches nothing",
// so leaving this nil instead of an empty *firstCharSet matters.
func newToken(kind TokenKind) *TokenPattern {
	return &TokenPattern{Kind: kind}
}

// --- constructors: spec.md §4.2 required primitives ---

// Literal matches the exact string s.
func Literal(s string) *TokenPattern {
	t := newToken(TokLiteral)
	t.text = s
	return t
}

// LiteralChoice performs trie-based longest match over a fixed string set.
func LiteralChoice(set ...string) *TokenPattern {
	t := newToken(TokLiteralChoice)
	t.setChoiceSet(set, false)
	return t
}

// Keyword matches s only if the following character does not satisfy
// identPred (an identifier-continuation predicate).
func Keyword(s string, identPred CharPredicate) *TokenPattern {
	t := newToken(TokKeyword)
	t.text = s
	t.identPred = identPred
	return t
}

// KeywordChoice is the trie-based KeywordChoice variant.
func KeywordChoice(identPred CharPredicate, set ...string) *TokenPattern {
	t := newToken(TokKeywordChoice)
	t.identPred = identPred
	t.setChoiceSet(set, false)
	return t
}

func (t *TokenPattern) setChoiceSet(set []string, insensitive bool) {
	copied := append([]string(nil), set...)
	if insensitive {
		for i := range copied {
			copied[i] = foldCase(copied[i])
		}
	}
	sort.Strings(copied)
	t.choiceSet = copied
	t.ignoreCase = insensitive
	t.tree = buildPrefixTree(copied)
}

// Char matches exactly one rune satisfying pred.
func Char(pred CharPredicate) *TokenPattern {
	t := newToken(TokChar)
	t.charPred = pred
	return t
}

// Chars is an alias of Char kept for spec-name parity (a predicate testing
// set membership is the caller's responsibility, e.g. via RuneSetPredicate).
func Chars(pred CharPredicate) *TokenPattern {
	t := newToken(TokChars)
	t.charPred = pred
	return t
}

// RepeatChars greedily matches a run of runes satisfying pred, failing if
// the count is below min. max < 0 means unbounded.
func RepeatChars(pred CharPredicate, min, max int) *TokenPattern {
	t := newToken(TokRepeatChars)
	t.charPred = pred
	t.repMin = min
	t.repMax = max
	return t
}

// Identifier matches an alphanumeric/underscore run starting with a
// letter or underscore.
func Identifier(start, cont CharPredicate) *TokenPattern {
	t := newToken(TokIdentifier)
	t.identStart = start
	t.identCont = cont
	return t
}

// EscapedText matches a text run terminated by any rune in stopChars,
// honoring escape doubling (escape appearing twice) when doubling is true,
// or backslash-style escaping (escape followed by any rune) otherwise.
func EscapedText(stopChars string, escape rune, doubling bool) *TokenPattern {
	t := newToken(TokEscapedText)
	t.stopChars = stopChars
	t.escapeRune = escape
	t.doubling = doubling
	return t
}

// RuneSetPredicate builds a CharPredicate testing membership (or, if not
// is true, non-membership) in set.
func RuneSetPredicate(set string, not bool) CharPredicate {
	runes := []rune(set)
	return func(r rune) bool {
		for _, s := range runes {
			if s == r {
				return !not
			}
		}
		return not
	}
}

// RuneRangePredicate builds a CharPredicate testing membership in any of
// the given [low, high] rune range pairs.
func RuneRangePredicate(not bool, pairs ...[2]rune) CharPredicate {
	return func(r rune) bool {
		in := false
		for _, p := range pairs {
			if r >= p[0] && r <= p[1] {
				in = true
				break
			}
		}
		if not {
			return !in
		}
		return in
	}
}
