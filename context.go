package pegcore

import "unicode/utf8"

// ParsedElement is the result of a terminal token match (spec.md §3).
type ParsedElement struct {
	Start             int
	Length            int
	IntermediateValue interface{}
	Success           bool
}

// FailElement is the sentinel unsuccessful ParsedElement.
var FailElement = ParsedElement{Success: false}

// ParsedRule is the result of a non-terminal rule match (spec.md §3). A
// failed rule equals FailRule. Version numbers successive recovery
// (re)attempts at the same rule/position, so callers can distinguish a
// recovered match from a first-attempt one.
type ParsedRule struct {
	RuleID            int
	Start             int
	Length            int
	Children          []ParsedRule
	IntermediateValue interface{}
	OccurrenceIndex   int
	Version           int
	Success           bool
	Value             interface{}
}

// FailRule is the sentinel unsuccessful ParsedRule.
var FailRule = ParsedRule{Success: false}

// End returns Start+Length, the exclusive end offset of a successful match.
func (p ParsedRule) End() int { return p.Start + p.Length }

// WalkEventKind enumerates the walk-trace event kinds (spec.md §4.7).
type WalkEventKind int

const (
	WalkEnter WalkEventKind = iota
	WalkInfo
	WalkSuccess
	WalkFail
)

// WalkEvent is one entry of the optional walk-trace event stream.
type WalkEvent struct {
	Kind    WalkEventKind
	RuleID  int
	Start   int
	Length  int
	Message string
}

type memoKey struct {
	ruleID         int
	start          int
	passedBarriers int
}

// ParserContext holds all mutable state for a single parse call (spec.md
// §3/§4.7). A ParserContext is not safe for concurrent use; a parse call
// owns it exclusively (spec.md §5).
type ParserContext struct {
	parser *Parser

	input       string
	maxPosition int
	param       interface{}

	errors   []ParsingError
	furthest furthestTracker

	successPositions bitset
	avoidSkipping    bitset

	barriers *BarrierTokenCollection

	skippedRules []ParsedRule
	recordSkips  bool

	stackTraceEnabled bool
	stackFrames       []StackEntry

	walkTraceEnabled bool
	WalkTrace        []WalkEvent

	memoEnabled bool
	memo        map[memoKey]ParsedRule

	recoveryVersion int

	groups      []string
	namedGroups map[string]string

	posCalc *positionCalculator
	config  Config

	// ambient* hold the settings inherited by the rules being matched
	// (spec.md §4.4). A rule whose override applies to its children sets
	// them for the duration of its own match; a local override is restored
	// when the rule returns, a global one stays in force for the rest of
	// the parse.
	ambientSkip           SkipStrategy
	ambientError          ErrorHandling
	ambientIgnoreBarriers bool

	// inSkipAttempt is set while matching the registered skip rule itself
	// (skip.go's skipOnce), forcing that one dispatch to SkipNone: "a skip
	// rule is itself a regular rule; recursive skipping is disabled inside
	// a skip attempt" (spec.md §4.4).
	inSkipAttempt bool
}

func newParserContext(p *Parser, input string, param interface{}, cfg Config) *ParserContext {
	ctx := &ParserContext{
		parser:      p,
		input:       input,
		maxPosition: len(input),
		param:       param,
		posCalc:     newPositionCalculator(input),
		config:      cfg,
		recordSkips: cfg.RecordSkippedRules,
	}
	ctx.ambientSkip = cfg.DefaultSkipStrategy
	ctx.ambientError = cfg.DefaultErrorHandling
	ctx.successPositions = newBitset(len(input) + 1)
	ctx.avoidSkipping = newBitset(len(input) + 1)
	ctx.barriers = newBarrierTokenCollection(nil, len(input))
	if p != nil {
		ctx.stackTraceEnabled = p.flags.has(FlagStackTraceWriting)
		ctx.walkTraceEnabled = p.flags.has(FlagWalkTraceRecording)
		ctx.memoEnabled = p.flags.has(FlagEnableMemoization)
	}
	if ctx.memoEnabled {
		ctx.memo = make(map[memoKey]ParsedRule)
	}
	return ctx
}

// recordFailure implements spec.md §4.6's furthest-position error
// tracking. It is called by every token/rule match function on failure.
func (ctx *ParserContext) recordFailure(pos int, elementID int, isToken bool, message string) {
	ctx.furthest.record(ParsingError{
		Position:       pos,
		PassedBarriers: ctx.barriers.passedAt(pos),
		Message:        message,
		ElementID:      elementID,
		IsToken:        isToken,
		StackFrame:     ctx.snapshotStack(),
	})
	ctx.errors = ctx.furthest.errs
}

func (ctx *ParserContext) snapshotStack() []StackEntry {
	if !ctx.stackTraceEnabled || len(ctx.stackFrames) == 0 {
		return nil
	}
	out := make([]StackEntry, len(ctx.stackFrames))
	copy(out, ctx.stackFrames)
	return out
}

func (ctx *ParserContext) pushStack(ruleID, pos int) {
	if !ctx.stackTraceEnabled {
		return
	}
	ctx.stackFrames = append(ctx.stackFrames, StackEntry{RuleID: ruleID, Position: pos})
}

func (ctx *ParserContext) popStack() {
	if !ctx.stackTraceEnabled || len(ctx.stackFrames) == 0 {
		return
	}
	ctx.stackFrames = ctx.stackFrames[:len(ctx.stackFrames)-1]
}

func (ctx *ParserContext) traceEnter(ruleID, start int) {
	if !ctx.walkTraceEnabled {
		return
	}
	ctx.WalkTrace = append(ctx.WalkTrace, WalkEvent{Kind: WalkEnter, RuleID: ruleID, Start: start})
}

func (ctx *ParserContext) traceSuccess(ruleID, start, length int) {
	if !ctx.walkTraceEnabled {
		return
	}
	ctx.WalkTrace = append(ctx.WalkTrace, WalkEvent{Kind: WalkSuccess, RuleID: ruleID, Start: start, Length: length})
}

func (ctx *ParserContext) traceFail(ruleID, start int) {
	if !ctx.walkTraceEnabled {
		return
	}
	ctx.WalkTrace = append(ctx.WalkTrace, WalkEvent{Kind: WalkFail, RuleID: ruleID, Start: start})
}

func (ctx *ParserContext) markSuccess(start int) {
	ctx.successPositions.set(start)
}

// group appends span to the unnamed group list, or overwrites the named
// group grpname. Ported from the teacher's context.group (grouping.go).
func (ctx *ParserContext) group(grpname, span string) {
	if grpname != "" {
		if ctx.namedGroups == nil {
			ctx.namedGroups = map[string]string{}
		}
		ctx.namedGroups[grpname] = span
		return
	}
	ctx.groups = append(ctx.groups, span)
}

// refer returns the text stored in named group grpname, or the latest
// unnamed group if grpname is "".
func (ctx *ParserContext) refer(grpname string) string {
	if grpname != "" {
		return ctx.namedGroups[grpname]
	}
	if len(ctx.groups) == 0 {
		return ""
	}
	return ctx.groups[len(ctx.groups)-1]
}

func (ctx *ParserContext) memoGet(ruleID, start, passedBarriers int) (ParsedRule, bool) {
	if !ctx.memoEnabled {
		return ParsedRule{}, false
	}
	v, ok := ctx.memo[memoKey{ruleID, start, passedBarriers}]
	return v, ok
}

func (ctx *ParserContext) memoPut(ruleID, start, passedBarriers int, result ParsedRule) {
	if !ctx.memoEnabled {
		return
	}
	ctx.memo[memoKey{ruleID, start, passedBarriers}] = result
}

// readRune decodes the rune at pos, returning (0, 0) at or past EOF.
func (ctx *ParserContext) readRune(pos int) (rune, int) {
	if pos >= len(ctx.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(ctx.input[pos:])
}

// readPrevRune decodes the rune immediately preceding pos, for SOL/EOL-style
// lookbehind predicates. Returns (0, 0) at the start of input.
func (ctx *ParserContext) readPrevRune(pos int) (rune, int) {
	if pos <= 0 {
		return 0, 0
	}
	return utf8.DecodeLastRuneInString(ctx.input[:pos])
}
