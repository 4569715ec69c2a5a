package pegcore

import "sort"

// BarrierToken is a precomputed layout-sensitive synchronization marker
// (spec.md §4.5), e.g. an INDENT/DEDENT pair emitted from leading
// whitespace before any rule matching begins. Regular tokens must not
// cross a barrier token's span.
type BarrierToken struct {
	TokenAlias string
	StartIndex int
	Length     int
}

func (b BarrierToken) End() int { return b.StartIndex + b.Length }

// Tokenizer produces the full barrier token stream for an input before
// parsing starts (spec.md §4.5: "emit_barriers runs once, up front").
type Tokenizer interface {
	Tokenize(input string) ([]BarrierToken, error)
}

// BarrierTokenCollection answers "how many barriers precede position p"
// and "is there a barrier token starting exactly at p" in O(log n) after
// an O(n) preprocessing pass over the sorted token list (spec.md §4.5).
type BarrierTokenCollection struct {
	tokens []BarrierToken // sorted by StartIndex
	ends   []int          // tokens[i].End(), parallel, sorted (tokens never overlap)
}

func newBarrierTokenCollection(tokens []BarrierToken, inputLen int) *BarrierTokenCollection {
	sorted := append([]BarrierToken(nil), tokens...)
	// Stable: tokens sharing a StartIndex (e.g. several DEDENTs emitted for
	// one multi-level dedent) keep their emission order, so their position
	// in the sorted slice is the monotonically increasing index
	// tryGetBarrierToken's passedBarriers argument indexes into.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartIndex < sorted[j].StartIndex })
	ends := make([]int, len(sorted))
	for i, t := range sorted {
		ends[i] = t.End()
	}
	return &BarrierTokenCollection{tokens: sorted, ends: ends}
}

// passedAt returns how many barrier tokens lie entirely before pos, i.e.
// the passed_barriers count a token/rule match starting at pos must carry.
func (c *BarrierTokenCollection) passedAt(pos int) int {
	return sort.Search(len(c.ends), func(i int) bool { return c.ends[i] > pos })
}

// tryGetBarrierToken returns the barrier token starting exactly at pos with
// index >= passedBarriers, if any. Several barrier tokens can share a
// StartIndex (e.g. IndentTokenizer emits one zero-length DEDENT per level
// when dedenting several levels at once); passedBarriers says how many of
// that group have already been consumed, so each call picks the next one
// in the group rather than always the first (spec.md §4.5).
func (c *BarrierTokenCollection) tryGetBarrierToken(pos, passedBarriers int) (BarrierToken, bool) {
	i := sort.Search(len(c.tokens), func(i int) bool { return c.tokens[i].StartIndex >= pos })
	for ; i < len(c.tokens) && c.tokens[i].StartIndex == pos; i++ {
		if i >= passedBarriers {
			return c.tokens[i], true
		}
	}
	return BarrierToken{}, false
}

// nextBarrierPosition returns the start offset of the first barrier token
// at or after pos, used by skip strategies that must not cross a barrier
// (spec.md §4.5).
func (c *BarrierTokenCollection) nextBarrierPosition(pos int) (int, bool) {
	i := sort.Search(len(c.tokens), func(i int) bool { return c.tokens[i].StartIndex >= pos })
	if i < len(c.tokens) {
		return c.tokens[i].StartIndex, true
	}
	return 0, false
}

// crosses reports whether the half-open span [from, to) would step over
// any barrier token, i.e. a regular token/skip must not extend that far.
func (c *BarrierTokenCollection) crosses(from, to int) bool {
	pos, ok := c.nextBarrierPosition(from)
	return ok && pos < to
}

// IndentTokenizer is a reference Tokenizer producing INDENT/DEDENT barrier
// tokens from leading-whitespace changes between non-blank lines, the
// layout-sensitive case spec.md §4.5 names as the motivating example.
// Blank lines and lines consisting only of whitespace are ignored for
// indent-level computation, matching common off-side-rule lexers.
type IndentTokenizer struct {
	TabSize int
}

const (
	BarrierIndent = "INDENT"
	BarrierDedent = "DEDENT"
)

func (it IndentTokenizer) Tokenize(input string) ([]BarrierToken, error) {
	tabSize := it.TabSize
	if tabSize <= 0 {
		tabSize = 8
	}
	var tokens []BarrierToken
	levels := []int{0}
	pos := 0
	for pos < len(input) {
		lineStart := pos
		width := 0
		for pos < len(input) && (input[pos] == ' ' || input[pos] == '\t') {
			if input[pos] == '\t' {
				width += tabSize - width%tabSize
			} else {
				width++
			}
			pos++
		}
		contentStart := pos
		for pos < len(input) && input[pos] != '\n' {
			pos++
		}
		blank := contentStart >= len(input) || input[contentStart] == '\n' || input[contentStart] == '\r'
		if !blank {
			top := levels[len(levels)-1]
			switch {
			case width > top:
				levels = append(levels, width)
				tokens = append(tokens, BarrierToken{TokenAlias: BarrierIndent, StartIndex: lineStart, Length: contentStart - lineStart})
			case width < top:
				for len(levels) > 1 && levels[len(levels)-1] > width {
					levels = levels[:len(levels)-1]
					tokens = append(tokens, BarrierToken{TokenAlias: BarrierDedent, StartIndex: lineStart, Length: 0})
				}
			}
		}
		if pos < len(input) && input[pos] == '\n' {
			pos++
		}
	}
	return tokens, nil
}
