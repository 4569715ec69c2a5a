package pegcore

// SkipStrategy enumerates the whitespace/comment-skipping policies a rule
// may use around its children (spec.md §4.4). SkipDefault defers to the
// enclosing scope/global setting; the remaining values are SkipNone and
// the nine concrete strategies that must be reproduced bit-exactly.
type SkipStrategy int

const (
	SkipDefault SkipStrategy = iota
	SkipNone
	SkipBeforeParsing
	SkipBeforeParsingLazy
	SkipBeforeParsingGreedy
	SkipTryParseThenSkip
	SkipTryParseThenSkipLazy
	SkipTryParseThenSkipGreedy
	SkipTryParseNonEmptyThenSkip
	SkipTryParseNonEmptyThenSkipLazy
	SkipTryParseNonEmptyThenSkipGreedy
)

func (s SkipStrategy) String() string {
	switch s {
	case SkipDefault:
		return "Default"
	case SkipNone:
		return "None"
	case SkipBeforeParsing:
		return "BeforeParsing"
	case SkipBeforeParsingLazy:
		return "BeforeParsingLazy"
	case SkipBeforeParsingGreedy:
		return "BeforeParsingGreedy"
	case SkipTryParseThenSkip:
		return "TryParseThenSkip"
	case SkipTryParseThenSkipLazy:
		return "TryParseThenSkipLazy"
	case SkipTryParseThenSkipGreedy:
		return "TryParseThenSkipGreedy"
	case SkipTryParseNonEmptyThenSkip:
		return "TryParseNonEmptyThenSkip"
	case SkipTryParseNonEmptyThenSkipLazy:
		return "TryParseNonEmptyThenSkipLazy"
	case SkipTryParseNonEmptyThenSkipGreedy:
		return "TryParseNonEmptyThenSkipGreedy"
	default:
		return "Unknown"
	}
}

// ErrorHandling selects whether a rule's own failures are recorded into
// the furthest-error tracker (spec.md §4.6).
type ErrorHandling int

const (
	ErrorThrow ErrorHandling = iota
	ErrorNoRecord
)

// OverrideMode controls how a Settings value propagates from a rule to its
// descendants (spec.md §4.4's "self/children/both, local/global" matrix).
// Local overrides apply only within the subtree rooted at the rule that
// set them; global overrides replace the ambient default for the rest of
// the parse, even after the rule that set them returns.
type OverrideMode int

const (
	OverrideInherit OverrideMode = iota
	OverrideLocalSelf
	OverrideLocalChildren
	OverrideLocalBoth
	OverrideGlobalSelf
	OverrideGlobalChildren
	OverrideGlobalBoth
)

func (m OverrideMode) appliesToSelf() bool {
	switch m {
	case OverrideLocalSelf, OverrideLocalBoth, OverrideGlobalSelf, OverrideGlobalBoth:
		return true
	default:
		return false
	}
}

func (m OverrideMode) appliesToChildren() bool {
	switch m {
	case OverrideLocalChildren, OverrideLocalBoth, OverrideGlobalChildren, OverrideGlobalBoth:
		return true
	default:
		return false
	}
}

func (m OverrideMode) isGlobal() bool {
	switch m {
	case OverrideGlobalSelf, OverrideGlobalChildren, OverrideGlobalBoth:
		return true
	default:
		return false
	}
}

// Settings is a rule/token-local override bundle (spec.md §4.3/§4.4). The
// zero value means "inherit everything".
type Settings struct {
	SkipStrategy     SkipStrategy
	SkipMode         OverrideMode
	ErrorHandling    ErrorHandling
	ErrorMode        OverrideMode
	IgnoreBarriers   bool
	BarriersMode     OverrideMode
	SkipRuleID       int // 0 keeps Config.SkipRuleID; other values replace it for this rule (-1: no skip rule) unless SkipMode is OverrideInherit
}

// ErrorFormattingFlags controls which optional sections formatErrorGroup
// (errors_format.go) renders (spec.md §6). FormatShowStack is not
// consulted: no stack section is rendered.
type ErrorFormattingFlags uint8

const (
	FormatShowLineColumn ErrorFormattingFlags = 1 << iota
	FormatShowSourceLine
	FormatShowExpected
	FormatShowBarrier
	FormatShowStack
)

const DefaultErrorFormattingFlags = FormatShowLineColumn | FormatShowSourceLine | FormatShowExpected | FormatShowBarrier

// ASTFactory converts a successful top-level ParsedRule into a caller
// value, the optional hook spec.md §5 allows a driver to register.
type ASTFactory func(ParsedRule) (interface{}, error)

// Config is the parser-wide, build-time-fixed configuration (spec.md §4.3
// MainSettings / §4.7 engine configuration). It is distinct from Settings,
// which is attached per rule/token and can locally override parts of it.
type Config struct {
	DefaultSkipStrategy        SkipStrategy
	DefaultErrorHandling       ErrorHandling
	SkipRuleID                 int // -1 if no whitespace/comment rule is registered
	ErrorFormattingFlags       ErrorFormattingFlags
	RecordSkippedRules         bool
	TabSize                    int
	MaxWalkStepsDisplay        int
	UseOptimizedWhitespaceSkip bool
	ASTFactory                 ASTFactory
}

// DefaultConfig returns the engine defaults (spec.md §4.3): skip greedily
// before parsing, throw (record) on failure, four-column tabs, optimized
// whitespace short-circuit enabled.
func DefaultConfig() Config {
	return Config{
		DefaultSkipStrategy:        SkipBeforeParsingGreedy,
		DefaultErrorHandling:       ErrorThrow,
		SkipRuleID:                 -1,
		ErrorFormattingFlags:       DefaultErrorFormattingFlags,
		RecordSkippedRules:        false,
		TabSize:                    4,
		MaxWalkStepsDisplay:        64,
		UseOptimizedWhitespaceSkip: true,
	}
}
