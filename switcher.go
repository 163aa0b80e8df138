package gotdir

import (
	"go.uber.org/zap"
)

// Switcher binds a compiled rule table to the known directions and decides,
// for each input change, which direction translation should use.
//
// A Switcher is immutable. When settings change, build a new one.
type Switcher struct {
	eval       *Evaluator
	directions Directions
	problems   []error
	logger     *zap.Logger
}

// SwitcherOption configures a Switcher.
type SwitcherOption func(*Switcher)

// WithSwitcherLogger sets the logger used to report skipped rules and switches.
func WithSwitcherLogger(l *zap.Logger) SwitcherOption {
	return func(s *Switcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSwitcher compiles rules and returns a Switcher over directions.
// Malformed rules and bad patterns are logged and skipped; see Problems.
func NewSwitcher(rules RuleTable, directions Directions, opts ...SwitcherOption) *Switcher {
	s := &Switcher{
		directions: directions,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.eval, s.problems = CompileRules(rules)
	for _, err := range s.problems {
		s.logger.Warn("skipping direction rule", zap.Error(err))
	}

	return s
}

// Decide returns the direction to translate text in when current is active.
// The second result is true when the direction changed.
func (s *Switcher) Decide(current Direction, text string) (Direction, bool) {
	rule, ok := s.eval.Select(current.Source, text, s.directions)
	if !ok {
		return current, false
	}

	next, ok := s.directions.Lookup(rule.Target)
	if !ok || next == current {
		return current, false
	}

	s.logger.Debug("auto-switching direction",
		zap.Stringer("from", current),
		zap.Stringer("to", next),
		zap.String("rule", rule.Source+"→"+rule.Target),
	)
	return next, true
}

// Directions returns the known directions.
func (s *Switcher) Directions() Directions {
	return s.directions
}

// Problems returns the errors found while compiling the rule table.
func (s *Switcher) Problems() []error {
	return s.problems
}

// Rules returns the number of usable rules.
func (s *Switcher) Rules() int {
	return s.eval.Len()
}
