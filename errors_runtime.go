package pegcore

import "sort"

// ParsingError is a single recorded match/barrier failure (spec.md §3).
type ParsingError struct {
	Position      int
	PassedBarriers int
	Message       string
	ElementID     int
	IsToken       bool
	StackFrame    []StackEntry // snapshot, only populated when stack-trace writing is on
}

// StackEntry is one frame of a captured call-stack snapshot (Design Note
// #6: index-linked records in a pool, not heap-allocated linked nodes).
type StackEntry struct {
	RuleID   int
	Position int
}

// furthestTracker implements spec.md §4.6's furthest-position error
// tracking: "whenever a token or rule fails, if position_of_failure >=
// furthest_position the error is recorded (or replaces prior at a lesser
// position)".
type furthestTracker struct {
	furthest int
	errs     []ParsingError
}

func (ft *furthestTracker) record(err ParsingError) {
	switch {
	case len(ft.errs) == 0 || err.Position > ft.furthest:
		ft.furthest = err.Position
		ft.errs = []ParsingError{err}
	case err.Position == ft.furthest:
		ft.errs = append(ft.errs, err)
	default:
		// strictly behind the furthest position: dropped.
	}
}

// ErrorGroup is the derived, grouped view over recorded errors at one
// (position, passed_barriers) pair (spec.md §4.6).
type ErrorGroup struct {
	Position       int
	PassedBarriers int
	Line, Column   int
	Expected       []string // deduplicated element descriptions
	Messages       []string // deduplicated non-empty messages
	Relevant       bool
	UnexpectedChar string // "" if at EOF
	AtEOF          bool
	BarrierAlias   string // "" if no barrier sits at Position
}

// CreateErrorGroups groups the context's recorded errors by
// (position, passed_barriers), computing relevance against
// success_positions (spec.md §4.6).
func (ctx *ParserContext) CreateErrorGroups() []ErrorGroup {
	type key struct {
		pos, barriers int
	}
	index := map[key]int{}
	var groups []ErrorGroup

	for _, e := range ctx.errors {
		k := key{e.Position, e.PassedBarriers}
		gi, ok := index[k]
		if !ok {
			calc := ctx.posCalc
			pos := calc.calculate(e.Position)
			g := ErrorGroup{
				Position:       e.Position,
				PassedBarriers: e.PassedBarriers,
				Line:           pos.Line,
				Column:         pos.Column,
				Relevant:       !ctx.successPositions.get(e.Position),
			}
			if e.Position < len(ctx.input) {
				r := []rune(ctx.input[e.Position:])
				if len(r) > 0 {
					g.UnexpectedChar = string(r[0])
				}
			} else {
				g.AtEOF = true
			}
			if bt, ok := ctx.barriers.tryGetBarrierToken(e.Position, e.PassedBarriers); ok {
				g.BarrierAlias = bt.TokenAlias
			}
			index[k] = len(groups)
			groups = append(groups, g)
			gi = index[k]
		}
		g := &groups[gi]
		if e.Message != "" && !containsStr(g.Messages, e.Message) {
			g.Messages = append(g.Messages, e.Message)
		}
		desc := ctx.describeElement(e.ElementID, e.IsToken)
		if desc != "" && !containsStr(g.Expected, desc) {
			g.Expected = append(g.Expected, desc)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Position != groups[j].Position {
			return groups[i].Position < groups[j].Position
		}
		return groups[i].PassedBarriers < groups[j].PassedBarriers
	})
	return groups
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func (ctx *ParserContext) describeElement(id int, isToken bool) string {
	if isToken {
		if id < 0 || id >= len(ctx.parser.tokens) {
			return ""
		}
		t := ctx.parser.tokens[id]
		if len(t.aliases) > 0 {
			return t.aliases[0]
		}
		return t.Kind.String()
	}
	if id < 0 || id >= len(ctx.parser.rules) {
		return ""
	}
	r := ctx.parser.rules[id]
	if len(r.aliases) > 0 {
		return r.aliases[0]
	}
	return r.Kind.String()
}

// RecoveryKind enumerates the per-rule recovery strategies (spec.md §4.6).
type RecoveryKind int

const (
	RecoveryNone RecoveryKind = iota
	RecoveryFindNext
	RecoverySkipUntilAnchor
	RecoverySkipAfterAnchor
)

// RecoveryDescriptor configures a rule's error recovery.
type RecoveryDescriptor struct {
	Kind   RecoveryKind
	Anchor int // rule id, used by SkipUntilAnchor/SkipAfterAnchor
}
