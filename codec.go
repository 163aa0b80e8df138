package gotdir

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

/*
 * External representation of the rule table.
 *
 * A rule is a three-element tuple (source, target, conditions). A condition is
 * either a plain pattern string (Match) or a two-element ["not", pattern]
 * marker (NotMatch):
 *
 *   [["en", "ru", ["[а-яё]"]],
 *    ["ru", "en", [["not", "[а-яё]"], "[a-z]"]]]
 *
 * All encoders share the generic form produced by Value and read by
 * RuleFromValue, so JSON, YAML and TOML round-trip the same shape.
 *
 * Decoding is lenient per entry: a tuple that cannot be read becomes an
 * invalid Rule that keeps its raw value. The evaluator skips it and the
 * encoders write it back unchanged.
 */

// NegationMarker is the first element of a negated condition tuple.
const NegationMarker = "not"

// Value returns the generic form of the condition: the pattern for Match,
// ["not", pattern] for NotMatch.
func (c Condition) Value() any {
	if c.Kind == KindNotMatch {
		return []any{NegationMarker, c.Pattern}
	}
	return c.Pattern
}

// ConditionFromValue reads a condition from its generic form.
func ConditionFromValue(v any) (Condition, error) {
	switch x := v.(type) {
	case string:
		return Match(x), nil
	case []any:
		if len(x) != 2 {
			return Condition{}, fmt.Errorf("negated condition must have 2 elements, got %d", len(x))
		}
		marker, ok := x[0].(string)
		if !ok || marker != NegationMarker {
			return Condition{}, fmt.Errorf("unknown condition marker %v", x[0])
		}
		pattern, ok := x[1].(string)
		if !ok {
			return Condition{}, fmt.Errorf("negated pattern must be a string, got %T", x[1])
		}
		return NotMatch(pattern), nil
	default:
		return Condition{}, fmt.Errorf("condition must be a string or [%q, pattern], got %T", NegationMarker, v)
	}
}

// Value returns the generic tuple form of the rule. Unreadable entries
// return the value they were decoded from; the zero Rule is nil.
func (r Rule) Value() any {
	if r.invalid != "" {
		return r.raw
	}
	if r.Source == "" && r.Target == "" && r.Conditions == nil {
		return nil
	}
	conds := make([]any, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = c.Value()
	}
	return []any{r.Source, r.Target, conds}
}

// RuleFromValue reads a rule from its generic tuple form. Entries that cannot
// be read produce an invalid rule rather than an error.
func RuleFromValue(v any) Rule {
	r, err := ruleFromValue(v)
	if err != nil {
		return Rule{invalid: err.Error(), raw: v}
	}
	return r
}

func ruleFromValue(v any) (Rule, error) {
	tuple, ok := v.([]any)
	if !ok {
		return Rule{}, fmt.Errorf("rule must be a [source, target, conditions] tuple, got %T", v)
	}
	if len(tuple) != 3 {
		return Rule{}, fmt.Errorf("rule tuple must have 3 elements, got %d", len(tuple))
	}

	source, ok := tuple[0].(string)
	if !ok {
		return Rule{}, fmt.Errorf("source language must be a string, got %T", tuple[0])
	}
	target, ok := tuple[1].(string)
	if !ok {
		return Rule{}, fmt.Errorf("target language must be a string, got %T", tuple[1])
	}

	var raw []any
	switch x := tuple[2].(type) {
	case []any:
		raw = x
	case nil:
	default:
		return Rule{}, fmt.Errorf("conditions must be a list, got %T", tuple[2])
	}

	conds := make([]Condition, 0, len(raw))
	for i, rc := range raw {
		c, err := ConditionFromValue(rc)
		if err != nil {
			return Rule{}, fmt.Errorf("condition %d: %w", i, err)
		}
		conds = append(conds, c)
	}

	return Rule{Source: source, Target: target, Conditions: conds}, nil
}

// MarshalJSON encodes the condition in tuple form.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// UnmarshalJSON decodes the condition from tuple form.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	cond, err := ConditionFromValue(v)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// MarshalJSON encodes the rule as a tuple.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// UnmarshalJSON decodes the rule from a tuple. Only malformed JSON is an
// error; a well-formed but unreadable tuple yields an invalid rule.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RuleFromValue(v)
	return nil
}

// MarshalYAML encodes the rule as a flow-style tuple.
func (r Rule) MarshalYAML() (any, error) {
	node := &yaml.Node{}
	if err := node.Encode(r.Value()); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return node, nil
}

// UnmarshalYAML decodes the rule from a tuple.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	*r = RuleFromValue(v)
	return nil
}

// MarshalYAML encodes the condition in tuple form.
func (c Condition) MarshalYAML() (any, error) {
	return c.Value(), nil
}

// UnmarshalYAML decodes the condition from tuple form.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	cond, err := ConditionFromValue(v)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// UnmarshalTOML decodes the table from the value BurntSushi/toml hands over
// for an array of tuples.
func (t *RuleTable) UnmarshalTOML(v any) error {
	list, ok := v.([]any)
	if !ok {
		return fmt.Errorf("rules must be an array, got %T", v)
	}
	table := make(RuleTable, len(list))
	for i, item := range list {
		table[i] = RuleFromValue(item)
	}
	*t = table
	return nil
}

// Values returns the generic form of every rule, for encoders without
// per-element marshal hooks. Null entries are dropped since TOML has no null.
func (t RuleTable) Values() []any {
	out := make([]any, 0, len(t))
	for _, r := range t {
		if v := r.Value(); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Invalid returns the reason a decoded rule could not be read, or "".
func (r Rule) Invalid() string {
	return r.invalid
}
