package pegcore

// matchRule is the single dispatch point for every RuleKind (Design Note
// #1). It resolves the rule's local Settings against the ambient ones,
// applies the resulting skip strategy around the rule's own matching
// attempt, consults/populates the (rule_id, start, passed_barriers)
// memoization cache, and runs error recovery on failure (spec.md §4.3,
// §4.4, §4.6).
func matchRule(ctx *ParserContext, ruleID int, pos int) ParsedRule {
	if ruleID < 0 || ruleID >= len(ctx.parser.rules) {
		return FailRule
	}
	rule := ctx.parser.rules[ruleID]

	passedBarriers := ctx.barriers.passedAt(pos)
	if cached, ok := ctx.memoGet(ruleID, pos, passedBarriers); ok {
		return cached
	}

	savedSkip, savedErr, savedBarriers := ctx.ambientSkip, ctx.ambientError, ctx.ambientIgnoreBarriers
	skipToUse, errToUse, effSkipRuleID := savedSkip, savedErr, ctx.config.SkipRuleID
	s := rule.settings

	if s.SkipMode != OverrideInherit {
		if s.SkipMode.appliesToSelf() {
			skipToUse = s.SkipStrategy
		}
		if s.SkipRuleID != 0 {
			effSkipRuleID = s.SkipRuleID
		}
		if s.SkipMode.appliesToChildren() {
			ctx.ambientSkip = s.SkipStrategy
		}
	}
	if s.ErrorMode != OverrideInherit {
		if s.ErrorMode.appliesToSelf() {
			errToUse = s.ErrorHandling
		}
		if s.ErrorMode.appliesToChildren() {
			ctx.ambientError = s.ErrorHandling
		}
	}
	if s.BarriersMode != OverrideInherit {
		if s.BarriersMode.appliesToChildren() {
			ctx.ambientIgnoreBarriers = s.IgnoreBarriers
		}
	}

	// A skip rule is itself a regular rule, but matching it must never
	// recursively trigger another skip attempt (spec.md §4.4) -- this
	// overrides whatever skipToUse the settings resolution above picked.
	if ctx.inSkipAttempt {
		skipToUse = SkipNone
	}

	result := applySkipStrategy(ctx, skipToUse, effSkipRuleID, pos, func(p int) ParsedRule {
		// With FlagFirstCharacterMatch, the rule is rejected without
		// running its body when the rune at the post-skip position is
		// outside its first-character set.
		if ctx.parser.flags.has(FlagFirstCharacterMatch) && rule.firstChars() != nil {
			if r, _ := ctx.readRune(p); p < len(ctx.input) && !rule.firstChars().contains(r) {
				return FailRule
			}
		}
		return matchRuleBody(ctx, rule, ruleID, p)
	})

	if !result.Success && rule.recovery != nil {
		result = attemptRecovery(ctx, rule, ruleID, pos)
	}

	if !s.SkipMode.isGlobal() {
		ctx.ambientSkip = savedSkip
	}
	if !s.ErrorMode.isGlobal() {
		ctx.ambientError = savedErr
	}
	if !s.BarriersMode.isGlobal() {
		ctx.ambientIgnoreBarriers = savedBarriers
	}

	if result.Success {
		ctx.markSuccess(pos)
		if rule.valueFn != nil {
			v, err := rule.valueFn(&RuleMatch{
				Start:    result.Start,
				Length:   result.Length,
				Children: result.Children,
				Text:     ctx.input[result.Start : result.Start+result.Length],
			})
			if err != nil {
				result = FailRule
			} else {
				result.Value = v
			}
		}
	}
	if !result.Success && errToUse != ErrorNoRecord {
		ctx.recordFailure(pos, ruleID, false, "")
	}

	ctx.memoPut(ruleID, pos, passedBarriers, result)
	return result
}

func matchRuleBody(ctx *ParserContext, rule *Rule, ruleID int, pos int) ParsedRule {
	ctx.pushStack(ruleID, pos)
	ctx.traceEnter(ruleID, pos)
	defer ctx.popStack()

	var result ParsedRule
	switch rule.Kind {
	case RuleToken:
		// matchToken already caps el.Length at the next barrier position
		// (spec.md §4.5), so this rule's match inherits that clamp too.
		el := matchToken(ctx, rule.tokenID, pos)
		if !el.Success {
			result = FailRule
			break
		}
		result = ParsedRule{RuleID: ruleID, Start: pos, Length: el.Length, IntermediateValue: el.IntermediateValue, Success: true}

	case RuleSequence:
		result = matchRuleSequence(ctx, rule, ruleID, pos)

	case RuleChoice:
		result = matchRuleChoice(ctx, rule, ruleID, pos)

	case RuleRepeat:
		result = matchRuleRepeat(ctx, rule, ruleID, pos)

	case RuleOptional:
		if cr := matchRule(ctx, rule.child, pos); cr.Success {
			result = ParsedRule{RuleID: ruleID, Start: pos, Length: cr.Length, Children: []ParsedRule{cr}, IntermediateValue: cr.IntermediateValue, Success: true}
		} else {
			if ctx.recordSkips {
				ctx.skippedRules = append(ctx.skippedRules, ParsedRule{RuleID: rule.child, Start: pos, Success: false})
			}
			result = ParsedRule{RuleID: ruleID, Start: pos, Length: 0, Success: true}
		}

	case RuleLookahead:
		cr := matchRule(ctx, rule.lookChild, pos)
		ok := cr.Success
		if rule.negate {
			ok = !ok
		}
		if !ok {
			result = FailRule
			break
		}
		result = ParsedRule{RuleID: ruleID, Start: pos, Length: 0, Success: true}

	case RuleEOF:
		if pos < len(ctx.input) {
			result = FailRule
			break
		}
		result = ParsedRule{RuleID: ruleID, Start: pos, Length: 0, Success: true}

	default:
		result = FailRule
	}

	if result.Success {
		ctx.traceSuccess(ruleID, pos, result.Length)
	} else {
		ctx.traceFail(ruleID, pos)
	}
	return result
}

// matchRuleSequence assigns occurrence_index = i, the child's position
// within this sequence invocation (spec.md §4.3), overwriting whatever
// index the child's own matchRule call left on it.
func matchRuleSequence(ctx *ParserContext, rule *Rule, ruleID int, pos int) ParsedRule {
	p := pos
	children := make([]ParsedRule, 0, len(rule.children))
	for i, c := range rule.children {
		cr := matchRule(ctx, c, p)
		if !cr.Success {
			return FailRule
		}
		cr.OccurrenceIndex = i
		children = append(children, cr)
		p = cr.End()
	}
	return ParsedRule{RuleID: ruleID, Start: pos, Length: p - pos, Children: children, Success: true}
}

func matchRuleChoice(ctx *ParserContext, rule *Rule, ruleID int, pos int) ParsedRule {
	candidates := rule.children
	if rule.buckets != nil {
		if r, n := ctx.readRune(pos); n > 0 {
			if bucket, ok := rule.buckets[r]; ok {
				candidates = bucket
			}
		}
	}

	switch rule.mode {
	case ChoiceFirst:
		for _, c := range candidates {
			if cr := matchRule(ctx, c, pos); cr.Success {
				return ParsedRule{RuleID: ruleID, Start: pos, Length: cr.Length, Children: []ParsedRule{cr}, IntermediateValue: cr.IntermediateValue, Success: true}
			}
		}
		return FailRule
	case ChoiceLongest, ChoiceShortest:
		var best ParsedRule
		found := false
		for _, c := range candidates {
			cr := matchRule(ctx, c, pos)
			if !cr.Success {
				continue
			}
			if !found || (rule.mode == ChoiceLongest && cr.Length > best.Length) || (rule.mode == ChoiceShortest && cr.Length < best.Length) {
				best, found = cr, true
			}
		}
		if !found {
			return FailRule
		}
		return ParsedRule{RuleID: ruleID, Start: pos, Length: best.Length, Children: []ParsedRule{best}, IntermediateValue: best.IntermediateValue, Success: true}
	default:
		return FailRule
	}
}

// matchRuleRepeat assigns occurrence_index = 0, 1, 2, ..., this
// invocation's iteration count (spec.md §4.3), overwriting whatever index
// the child's own matchRule call left on it.
func matchRuleRepeat(ctx *ParserContext, rule *Rule, ruleID int, pos int) ParsedRule {
	p := pos
	count := 0
	var children []ParsedRule
	for rule.max < 0 || count < rule.max {
		cr := matchRule(ctx, rule.child, p)
		if !cr.Success {
			break
		}
		cr.OccurrenceIndex = count
		children = append(children, cr)
		count++
		if cr.Length == 0 {
			break
		}
		p = cr.End()
	}
	if count < rule.min {
		return FailRule
	}
	return ParsedRule{RuleID: ruleID, Start: pos, Length: p - pos, Children: children, Success: true}
}
