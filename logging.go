package pegcore

import "go.uber.org/zap"

// NewLogger builds the default structured logger used by the cmd/pegctl
// demo and by WalkTrace dumping (spec.md §4.7's optional debug tracing).
// The core matching path never uses a logger; LogWalkTrace below takes a
// *zap.Logger.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// LogWalkTrace emits ctx's recorded WalkTrace events through log, capped
// at maxEvents (spec.md §4.7 "max_walk_steps_display"). Intended for
// grammar debugging, not for the hot matching path.
func LogWalkTrace(log *zap.Logger, trace []WalkEvent, maxEvents int) {
	if log == nil {
		return
	}
	n := len(trace)
	if maxEvents > 0 && n > maxEvents {
		n = maxEvents
	}
	for _, ev := range trace[:n] {
		switch ev.Kind {
		case WalkEnter:
			log.Debug("enter rule", zap.Int("rule_id", ev.RuleID), zap.Int("pos", ev.Start))
		case WalkSuccess:
			log.Debug("rule matched", zap.Int("rule_id", ev.RuleID), zap.Int("pos", ev.Start), zap.Int("length", ev.Length))
		case WalkFail:
			log.Debug("rule failed", zap.Int("rule_id", ev.RuleID), zap.Int("pos", ev.Start))
		case WalkInfo:
			log.Debug(ev.Message, zap.Int("rule_id", ev.RuleID), zap.Int("pos", ev.Start))
		}
	}
	if maxEvents > 0 && len(trace) > maxEvents {
		log.Debug("walk trace truncated", zap.Int("total_events", len(trace)), zap.Int("shown", maxEvents))
	}
}
