package pegcore

// attemptRecovery runs one of the three recovery strategies (spec.md
// §4.6) after rule has failed to match at pos. All three scan forward
// byte-by-byte and resume matching rule itself from a strategy-dependent
// resume point:
//
//   - FindNext: retries rule at every following position, without
//     consulting Anchor, until rule succeeds or input is exhausted.
//   - SkipUntilAnchor: retries rule exactly once, at the first position
//     where Anchor succeeds (Anchor itself is not consumed).
//   - SkipAfterAnchor: retries rule exactly once, just past the end of
//     the first successful Anchor match.
func attemptRecovery(ctx *ParserContext, rule *Rule, ruleID int, pos int) ParsedRule {
	if rule.recovery == nil {
		return FailRule
	}

	switch rule.recovery.Kind {
	case RecoveryFindNext:
		for p := pos + 1; p <= len(ctx.input); p++ {
			ctx.recoveryVersion++
			if retried := matchRuleBody(ctx, rule, ruleID, p); retried.Success {
				retried.Version = ctx.recoveryVersion
				return retried
			}
		}
		return FailRule

	case RecoverySkipUntilAnchor:
		for p := pos; p <= len(ctx.input); p++ {
			if !matchRule(ctx, rule.recovery.Anchor, p).Success {
				continue
			}
			ctx.recoveryVersion++
			retried := matchRuleBody(ctx, rule, ruleID, p)
			retried.Version = ctx.recoveryVersion
			return retried
		}
		return FailRule

	case RecoverySkipAfterAnchor:
		for p := pos; p <= len(ctx.input); p++ {
			anchor := matchRule(ctx, rule.recovery.Anchor, p)
			if !anchor.Success {
				continue
			}
			ctx.recoveryVersion++
			retried := matchRuleBody(ctx, rule, ruleID, p+anchor.Length)
			retried.Version = ctx.recoveryVersion
			return retried
		}
		return FailRule

	default:
		return FailRule
	}
}
