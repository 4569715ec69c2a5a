package pegcore

// BuildFlags controls which optional initialization behaviors run over the
// element array at build time (spec.md §4.1). It is a plain bitmask rather
// than a set of boxed closures, per Design Note #4.
type BuildFlags uint8

const (
	// FlagFirstCharacterMatch enables lookahead-char dispatch tables for
	// Choice token patterns and rules.
	FlagFirstCharacterMatch BuildFlags = 1 << iota
	// FlagInlineRules is accepted but has no effect: every rule goes
	// through the same settings-resolution wrapper in matchRule.
	FlagInlineRules
	// FlagEnableMemoization turns on the (rule_id, start, passed_barriers)
	// memoization cache.
	FlagEnableMemoization
	// FlagStackTraceWriting maintains ParserContext.stackFrames.
	FlagStackTraceWriting
	// FlagWalkTraceRecording appends Enter/Info/Success/Fail events to
	// ParserContext.WalkTrace.
	FlagWalkTraceRecording
)

func (f BuildFlags) has(bit BuildFlags) bool { return f&bit != 0 }

// firstCharSet is the "legal first characters" set of an element (spec.md
// §3). A nil *firstCharSet means None: non-deterministic, dispatch must
// fall back to trying the element unconditionally.
type firstCharSet struct {
	// runes holds explicit single runes when the set is small/discrete.
	runes map[rune]bool
	// anyByteAt0x00To0x7f etc. are not tracked separately; universal is
	// set when the element can start with (almost) any rune, in which
	// case per-character dispatch degrades to "always a candidate".
	universal bool
}

func newFirstCharSet() *firstCharSet {
	return &firstCharSet{runes: make(map[rune]bool)}
}

func universalFirstCharSet() *firstCharSet {
	return &firstCharSet{universal: true}
}

func (s *firstCharSet) add(r rune) {
	if s == nil || s.universal {
		return
	}
	s.runes[r] = true
}

func (s *firstCharSet) addSet(other *firstCharSet) {
	if s == nil {
		return
	}
	if other == nil {
		s.universal = true
		return
	}
	if other.universal {
		s.universal = true
		return
	}
	for r := range other.runes {
		s.runes[r] = true
	}
}

// contains reports whether r is a legal first character. A nil receiver
// (None / non-deterministic) always reports true: callers must try the
// element.
func (s *firstCharSet) contains(r rune) bool {
	if s == nil || s.universal {
		return true
	}
	return s.runes[r]
}

// elementBase is embedded by both TokenPattern and Rule, carrying the
// fields common to ParserElement (spec.md §3): id, aliases, a back
// reference to the owning parser, the computed first-char set and the
// optional flag.
type elementBase struct {
	id        int
	aliases   []string
	parser    *Parser
	firstChar *firstCharSet
	optional  bool
}

func (e *elementBase) ID() int             { return e.id }
func (e *elementBase) Aliases() []string    { return e.aliases }
func (e *elementBase) IsOptional() bool     { return e.optional }
func (e *elementBase) Owner() *Parser       { return e.parser }
func (e *elementBase) firstChars() *firstCharSet { return e.firstChar }
