package pegcore

import (
	"fmt"
	"strings"
)

// ParseFailure is the Go error value wrapping one ErrorGroup (spec.md §6).
// Multiple ParseFailures for the same parse attempt are joined by
// github.com/hashicorp/go-multierror in driver.go.
type ParseFailure struct {
	Group   ErrorGroup
	Message string
}

func (e *ParseFailure) Error() string { return e.Message }

func newParseFailure(ctx *ParserContext, g ErrorGroup) *ParseFailure {
	return &ParseFailure{Group: g, Message: formatErrorGroup(ctx, g)}
}

// formatErrorGroup renders one ErrorGroup into the human-readable block
// format spec.md §6 describes: a "line:col: unexpected X (expected ...)"
// headline, optionally followed by the offending source line with a caret
// under the failure column (tab-aware via Position.VisualColumn) and the
// barrier token in play. No call-stack section is rendered.
func formatErrorGroup(ctx *ParserContext, g ErrorGroup) string {
	flags := ctx.config.ErrorFormattingFlags
	var sb strings.Builder

	what := "end of input"
	if !g.AtEOF {
		what = fmt.Sprintf("%q", g.UnexpectedChar)
	}

	if flags&FormatShowLineColumn != 0 {
		fmt.Fprintf(&sb, "%d:%d: unexpected %s", g.Line+1, g.Column+1, what)
	} else {
		fmt.Fprintf(&sb, "offset %d: unexpected %s", g.Position, what)
	}

	if flags&FormatShowExpected != 0 && len(g.Expected) > 0 {
		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(g.Expected, ", "))
		sb.WriteString(")")
	}
	if !g.Relevant {
		sb.WriteString(" [superseded by a later successful match]")
	}

	if flags&FormatShowBarrier != 0 && g.BarrierAlias != "" {
		fmt.Fprintf(&sb, "\n  at barrier token %s", g.BarrierAlias)
	}

	if flags&FormatShowSourceLine != 0 {
		line := ctx.posCalc.lineText(g.Position)
		pos := Position{Offset: g.Position, Line: g.Line, Column: g.Column}
		col := pos.VisualColumn(line, ctx.config.TabSize)
		sb.WriteString("\n  " + line)
		sb.WriteString("\n  " + strings.Repeat(" ", col) + "^")
	}

	for _, m := range g.Messages {
		sb.WriteString("\n  " + m)
	}

	return sb.String()
}
