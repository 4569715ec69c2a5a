package pegcore

// Parser is the compiled, immutable grammar: a flat array of token
// patterns and a flat array of rules, cross-referencing each other by
// integer id (spec.md §3/§4.1). It is built once via Builder.Build and is
// safe for concurrent use by multiple ParserContexts.
type Parser struct {
	tokens []*TokenPattern
	rules  []*Rule

	aliasToToken map[string]int
	aliasToRule  map[string]int

	flags  BuildFlags
	config Config

	barrierTokenizer Tokenizer
}

// Builder accumulates tokens and rules in leaf-to-root order (Design Note
// #3's two-pass construction: AddToken/AddRule is pass one — plain
// collection and id assignment; Build is pass two — deriving first-
// character sets, choice dispatch buckets, and alias tables from the now-
// complete element array).
type Builder struct {
	tokens    []*TokenPattern
	rules     []*Rule
	flags     BuildFlags
	config    Config
	tokenizer Tokenizer
}

// NewBuilder starts a grammar under construction. cfg is typically
// DefaultConfig(), customized by the caller.
func NewBuilder(flags BuildFlags, cfg Config) *Builder {
	return &Builder{flags: flags, config: cfg}
}

// AddToken registers t and returns its id, for use as a child reference
// (e.g. Sequence(nil, idA, idB)) by tokens/rules added afterward.
func (b *Builder) AddToken(t *TokenPattern) int {
	id := len(b.tokens)
	t.id = id
	b.tokens = append(b.tokens, t)
	return id
}

// AddRule registers r and returns its id.
func (b *Builder) AddRule(r *Rule) int {
	id := len(b.rules)
	r.id = id
	b.rules = append(b.rules, r)
	return id
}

// ReserveRule allocates a rule id without defining its body yet, letting a
// grammar with mutual/self recursion (e.g. value -> object -> member ->
// value) hand out the id to earlier-registered rules before the
// recursive rule itself is known. Pair with DefineRule once the real Rule
// is ready.
func (b *Builder) ReserveRule() int {
	id := len(b.rules)
	b.rules = append(b.rules, newRule(RuleChoice))
	b.rules[id].id = id
	return id
}

// DefineRule fills in a slot previously returned by ReserveRule with r's
// body, keeping the original id. It panics if id is outside the ids this
// Builder has handed out; an in-range id from AddRule is not rejected and
// its rule is replaced.
func (b *Builder) DefineRule(id int, r *Rule) {
	if id < 0 || id >= len(b.rules) {
		panic(newUsageError("DefineRule: id %d was never reserved", id))
	}
	r.id = id
	r.aliases = append(r.aliases, b.rules[id].aliases...)
	b.rules[id] = r
}

// SetSkipRuleID records which rule is the ambient whitespace/comment rule
// (spec.md §4.4), usually set once the rule wrapping the grammar's
// whitespace token has been registered.
func (b *Builder) SetSkipRuleID(id int) *Builder {
	b.config.SkipRuleID = id
	return b
}

// SetBarrierTokenizer registers the Tokenizer used to emit barrier tokens
// up front, before any rule matching begins (spec.md §4.5).
func (b *Builder) SetBarrierTokenizer(tz Tokenizer) *Builder {
	b.tokenizer = tz
	return b
}

// Build finalizes the grammar, returning a *BuildError for an alias
// clash, an empty composite, or a circular reference-only chain (spec.md
// §4.1). Child ids are not range-checked here.
func (b *Builder) Build() (*Parser, error) {
	p := &Parser{
		tokens:           b.tokens,
		rules:            b.rules,
		flags:            b.flags,
		config:           b.config,
		barrierTokenizer: b.tokenizer,
		aliasToToken:     map[string]int{},
		aliasToRule:      map[string]int{},
	}
	for _, t := range p.tokens {
		t.parser = p
		for _, a := range t.aliases {
			if _, exists := p.aliasToToken[a]; exists {
				return nil, newBuildError(ErrAliasClash, a, "token alias already registered")
			}
			p.aliasToToken[a] = t.id
		}
		if err := validateToken(p, t); err != nil {
			return nil, err
		}
	}
	for _, r := range p.rules {
		r.parser = p
		for _, a := range r.aliases {
			if _, exists := p.aliasToRule[a]; exists {
				return nil, newBuildError(ErrAliasClash, a, "rule alias already registered")
			}
			p.aliasToRule[a] = r.id
		}
		if err := validateRule(p, r); err != nil {
			return nil, err
		}
	}

	if err := detectCircularReferenceOnly(p); err != nil {
		return nil, err
	}

	for _, t := range p.tokens {
		computeTokenFirstChars(p, t)
	}
	for _, r := range p.rules {
		computeRuleFirstChars(p, r)
	}
	if p.flags.has(FlagFirstCharacterMatch) {
		buildChoiceBuckets(p)
	}

	return p, nil
}

// MustBuild is like Build but panics on error, for grammars defined as
// package-level variables where failure is a programming error.
func (b *Builder) MustBuild() *Parser {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

func validateToken(p *Parser, t *TokenPattern) error {
	switch t.Kind {
	case TokSequence, TokFirst:
		if len(t.children) == 0 {
			return newBuildError(ErrEmptyRule, firstAlias(t.aliases), "token has no children")
		}
	case TokChoice:
		if len(t.children) == 0 {
			return newBuildError(ErrEmptyRule, firstAlias(t.aliases), "choice token has no children")
		}
	}
	return nil
}

func validateRule(p *Parser, r *Rule) error {
	switch r.Kind {
	case RuleSequence:
		if len(r.children) == 0 {
			return newBuildError(ErrEmptyRule, firstAlias(r.aliases), "sequence rule has no children")
		}
	case RuleChoice:
		if len(r.children) == 0 {
			return newBuildError(ErrEmptyRule, firstAlias(r.aliases), "choice rule has no children")
		}
	}
	return nil
}

func firstAlias(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	return aliases[0]
}

// detectCircularReferenceOnly rejects rules that form a cycle through
// zero-width "pure reference" wrapping alone (Optional/Lookahead/a single-
// child Sequence or Choice), which can never make progress and would
// otherwise recurse forever (spec.md §4.1 BuildError: circular reference).
func detectCircularReferenceOnly(p *Parser) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(p.rules))

	var visit func(id int) error
	visit = func(id int) error {
		if id < 0 || id >= len(p.rules) {
			return nil
		}
		switch color[id] {
		case gray:
			return newBuildError(ErrCircularReference, firstAlias(p.rules[id].aliases), "rule references itself through a zero-width chain")
		case black:
			return nil
		}
		color[id] = gray
		r := p.rules[id]
		switch r.Kind {
		case RuleOptional:
			if err := visit(r.child); err != nil {
				return err
			}
		case RuleLookahead:
			if err := visit(r.lookChild); err != nil {
				return err
			}
		case RuleSequence:
			if len(r.children) == 1 {
				if err := visit(r.children[0]); err != nil {
					return err
				}
			}
		case RuleChoice:
			for _, c := range r.children {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for i := range p.rules {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func computeTokenFirstChars(p *Parser, t *TokenPattern) {
	switch t.Kind {
	case TokLiteral, TokKeyword:
		if t.text == "" {
			t.firstChar = nil
			return
		}
		r := []rune(t.text)[0]
		fc := newFirstCharSet()
		fc.add(r)
		if t.ignoreCase {
			fc.add(runeFoldCase(r))
		}
		t.firstChar = fc
	case TokLiteralChoice, TokKeywordChoice:
		fc := newFirstCharSet()
		for _, s := range t.choiceSet {
			if s == "" {
				t.firstChar = nil
				return
			}
			fc.add([]rune(s)[0])
		}
		t.firstChar = fc
	case TokNumber:
		fc := newFirstCharSet()
		for _, r := range "+-0123456789" {
			fc.add(r)
		}
		t.firstChar = fc
	case TokSequence:
		if len(t.children) > 0 {
			t.firstChar = childFirstChars(p.tokenFirstChars, t.children[0])
		}
	case TokChoice, TokFirst:
		fc := newFirstCharSet()
		for _, c := range t.children {
			fc.addSet(childFirstChars(p.tokenFirstChars, c))
			if fc.universal {
				break
			}
		}
		t.firstChar = fc
	case TokOptional:
		t.firstChar = nil
	case TokRepeat:
		if t.min > 0 {
			t.firstChar = childFirstChars(p.tokenFirstChars, t.child)
		} else {
			t.firstChar = nil
		}
	case TokMapSpan:
		t.firstChar = childFirstChars(p.tokenFirstChars, t.child)
	default:
		t.firstChar = nil
	}
}

// tokenFirstChars is a convenience accessor kept on Parser purely to give
// computeTokenFirstChars/computeRuleFirstChars a uniform lookup signature;
// token first-char sets are computed strictly before rule ones, so by the
// time a rule consults a token's set it is already final.
func (p *Parser) tokenFirstChars(id int) *firstCharSet {
	if id < 0 || id >= len(p.tokens) {
		return nil
	}
	return p.tokens[id].firstChar
}

func (p *Parser) ruleFirstChars(id int) *firstCharSet {
	if id < 0 || id >= len(p.rules) {
		return nil
	}
	return p.rules[id].firstChar
}

func childFirstChars(lookup func(int) *firstCharSet, id int) *firstCharSet {
	return lookup(id)
}

func computeRuleFirstChars(p *Parser, r *Rule) {
	switch r.Kind {
	case RuleToken:
		r.firstChar = p.tokenFirstChars(r.tokenID)
	case RuleSequence:
		if len(r.children) > 0 {
			r.firstChar = childFirstChars(p.ruleFirstChars, r.children[0])
		}
	case RuleChoice:
		fc := newFirstCharSet()
		for _, c := range r.children {
			fc.addSet(childFirstChars(p.ruleFirstChars, c))
			if fc.universal {
				break
			}
		}
		r.firstChar = fc
	case RuleOptional:
		r.firstChar = nil
	case RuleRepeat:
		if r.min > 0 {
			r.firstChar = childFirstChars(p.ruleFirstChars, r.child)
		} else {
			r.firstChar = nil
		}
	case RuleLookahead, RuleEOF:
		r.firstChar = nil
	default:
		r.firstChar = nil
	}
}

// buildChoiceBuckets populates the first-character dispatch tables for
// every Choice token/rule. When some child has no concrete (non-nil,
// non-universal) first-character set, each bucket lists the children whose
// set holds that rune, followed by all the other children. This gives O(1)
// candidate narrowing
// in matchChoiceToken/matchRuleChoice (spec.md §4.1 FlagFirstCharacterMatch).
func buildChoiceBuckets(p *Parser) {
	for _, t := range p.tokens {
		if t.Kind != TokChoice {
			continue
		}
		buckets, nondet := bucketsFor(p.tokenFirstChars, t.children)
		t.buckets = buckets
		t.hasNondeterministicChild = nondet
	}
	for _, r := range p.rules {
		if r.Kind != RuleChoice {
			continue
		}
		buckets, nondet := bucketsFor(p.ruleFirstChars, r.children)
		r.buckets = buckets
		r.hasNondeterministicChild = nondet
	}
}

func bucketsFor(lookup func(int) *firstCharSet, children []int) (map[rune][]int, bool) {
	buckets := map[rune][]int{}
	nondet := false
	for _, c := range children {
		fc := lookup(c)
		if fc == nil || fc.universal {
			nondet = true
			continue
		}
		for r := range fc.runes {
			buckets[r] = append(buckets[r], c)
		}
	}
	if nondet {
		for r, list := range buckets {
			full := append([]int(nil), list...)
			full = append(full, childrenWithout(children, list)...)
			buckets[r] = full
		}
	}
	return buckets, nondet
}

func childrenWithout(all, already []int) []int {
	in := map[int]bool{}
	for _, a := range already {
		in[a] = true
	}
	var out []int
	for _, c := range all {
		if !in[c] {
			out = append(out, c)
		}
	}
	return out
}
