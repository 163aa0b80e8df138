package gotdir

import (
	"fmt"
	"regexp"
)

/*
 * Direction rule evaluation.
 *
 * A rule holds when every one of its conditions holds. Patterns are searched,
 * not anchored: "[а-я]" is satisfied by any Cyrillic letter anywhere in the text.
 *
 * ShouldAutoSwitch keeps the polarity of the client it replaces: it answers
 * "is this rule broken". It returns false only when every condition holds and
 * true for an empty list or on the first failing condition.
 *
 * Failure policy: a pattern that does not compile, or a condition without a
 * pattern, never holds. This applies to NotMatch as well, so a typo in a
 * negated pattern disables its rule instead of making it apply everywhere.
 */

// ShouldAutoSwitch reports whether the conditions are NOT all satisfied by
// text. It returns false only when every condition holds; it returns true if
// conditions is empty or any condition fails. It never panics.
func ShouldAutoSwitch(conditions []Condition, text string) bool {
	if len(conditions) == 0 {
		return true
	}
	for _, c := range conditions {
		if !conditionHolds(c, text) {
			return true
		}
	}
	return false
}

func conditionHolds(c Condition, text string) bool {
	if c.Pattern == "" {
		return false
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return false
	}
	return evalCompiled(c.Kind, re, text)
}

func evalCompiled(kind ConditionKind, re *regexp.Regexp, text string) bool {
	switch kind {
	case KindMatch:
		return re.MatchString(text)
	case KindNotMatch:
		return !re.MatchString(text)
	default:
		return false
	}
}

// DetectCandidateRules returns, in table order, the rules whose conditions are
// all satisfied by text. Malformed rules are skipped.
func DetectCandidateRules(table RuleTable, text string) []Rule {
	var candidates []Rule
	for _, r := range table {
		if !r.Valid() {
			continue
		}
		if !ShouldAutoSwitch(r.Conditions, text) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// SelectSwitchTarget returns the target of the first candidate whose source is
// currentSource and whose target starts a known direction.
func SelectSwitchTarget(candidates []Rule, currentSource string, known Directions) (string, bool) {
	for _, r := range candidates {
		if r.Source != currentSource {
			continue
		}
		if _, ok := known.Lookup(r.Target); ok {
			return r.Target, true
		}
	}
	return "", false
}

type compiledCondition struct {
	kind ConditionKind
	re   *regexp.Regexp // nil when the pattern is missing or does not compile
}

type compiledRule struct {
	rule  Rule
	conds []compiledCondition
}

func (cr compiledRule) holds(text string) bool {
	if len(cr.conds) == 0 {
		return false
	}
	for _, c := range cr.conds {
		if c.re == nil || !evalCompiled(c.kind, c.re, text) {
			return false
		}
	}
	return true
}

// Evaluator is a rule table with every pattern compiled once. It gives the
// same answers as the package-level functions and is safe for concurrent use.
type Evaluator struct {
	rules []compiledRule
}

// CompileRules compiles every pattern of table. Malformed rules are dropped and
// bad patterns fail closed; each problem is reported as a *RuleError.
func CompileRules(table RuleTable) (*Evaluator, []error) {
	var errs []error
	e := &Evaluator{rules: make([]compiledRule, 0, len(table))}

	for i, r := range table {
		if !r.Valid() {
			errs = append(errs, &RuleError{Index: i, Rule: r, Message: invalidReason(r)})
			continue
		}

		cr := compiledRule{rule: r, conds: make([]compiledCondition, len(r.Conditions))}
		for j, c := range r.Conditions {
			re, err := regexp.Compile(c.Pattern)
			if err != nil {
				errs = append(errs, &RuleError{
					Index:   i,
					Rule:    r,
					Message: fmt.Sprintf("condition %d: bad pattern %q", j, c.Pattern),
					Cause:   err,
				})
				re = nil
			}
			cr.conds[j] = compiledCondition{kind: c.Kind, re: re}
		}
		e.rules = append(e.rules, cr)
	}

	return e, errs
}

func invalidReason(r Rule) string {
	switch {
	case r.invalid != "":
		return r.invalid
	case r.Source == "":
		return "missing source language"
	case r.Target == "":
		return "missing target language"
	default:
		return "condition without pattern"
	}
}

// Candidates returns the rules that hold for text, in table order.
func (e *Evaluator) Candidates(text string) []Rule {
	var out []Rule
	for _, cr := range e.rules {
		if cr.holds(text) {
			out = append(out, cr.rule)
		}
	}
	return out
}

// Select returns the first rule that holds for text, starts at currentSource
// and targets a language with a known direction.
func (e *Evaluator) Select(currentSource, text string, known Directions) (Rule, bool) {
	for _, cr := range e.rules {
		if cr.rule.Source != currentSource {
			continue
		}
		if _, ok := known.Lookup(cr.rule.Target); !ok {
			continue
		}
		if cr.holds(text) {
			return cr.rule, true
		}
	}
	return Rule{}, false
}

// Len returns the number of usable rules.
func (e *Evaluator) Len() int {
	return len(e.rules)
}
