package gotdir

// ConditionKind tells whether a condition requires a match or its absence.
type ConditionKind int

const (
	// KindMatch holds when the pattern matches somewhere in the text.
	KindMatch ConditionKind = iota
	// KindNotMatch holds when the pattern matches nowhere in the text.
	KindNotMatch
)

func (k ConditionKind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindNotMatch:
		return "not-match"
	default:
		return "unknown"
	}
}

// Condition is a positive or negated regular-expression check against input text.
type Condition struct {
	Kind    ConditionKind
	Pattern string
}

// Match returns a condition that holds when pattern matches the text.
func Match(pattern string) Condition {
	return Condition{Kind: KindMatch, Pattern: pattern}
}

// NotMatch returns a condition that holds when pattern does not match the text.
func NotMatch(pattern string) Condition {
	return Condition{Kind: KindNotMatch, Pattern: pattern}
}

// Rule switches the direction away from Source toward Target when every
// condition holds for the input text.
type Rule struct {
	Source     string
	Target     string
	Conditions []Condition

	// invalid is set by the decoders for entries that could not be read.
	// Such rules keep their decoded form in raw so configuration
	// round-trips, but they never apply.
	invalid string
	raw     any
}

// Valid reports whether the rule is well formed: both languages are set and
// every condition carries a pattern.
func (r Rule) Valid() bool {
	if r.invalid != "" || r.Source == "" || r.Target == "" {
		return false
	}
	for _, c := range r.Conditions {
		if c.Pattern == "" || (c.Kind != KindMatch && c.Kind != KindNotMatch) {
			return false
		}
	}
	return true
}

// Holds reports whether every condition of the rule is satisfied by text.
// It is the negation of ShouldAutoSwitch.
func (r Rule) Holds(text string) bool {
	return !ShouldAutoSwitch(r.Conditions, text)
}

// RuleTable is an ordered list of rules. Earlier rules take precedence.
type RuleTable []Rule

// Direction is an ordered (source, target) language pair.
type Direction struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

func (d Direction) String() string {
	return d.Source + "→" + d.Target
}

// Reverse returns the direction with source and target swapped.
func (d Direction) Reverse() Direction {
	return Direction{Source: d.Target, Target: d.Source}
}

// Directions is the table of translation directions the client knows about.
type Directions []Direction

// Lookup returns the first known direction whose source is lang.
func (ds Directions) Lookup(lang string) (Direction, bool) {
	for _, d := range ds {
		if d.Source == lang {
			return d, true
		}
	}
	return Direction{}, false
}

// Contains reports whether d is a known direction.
func (ds Directions) Contains(d Direction) bool {
	for _, known := range ds {
		if known == d {
			return true
		}
	}
	return false
}

// DefaultRules is the built-in rule table for English, Russian and Ukrainian input.
var DefaultRules = RuleTable{
	{Source: "en", Target: "ru", Conditions: []Condition{Match("[а-яё]")}},
	{Source: "ru", Target: "en", Conditions: []Condition{NotMatch("[а-яё]"), Match("[a-z]")}},
	{Source: "uk", Target: "en", Conditions: []Condition{NotMatch("[а-яіїєґ]"), Match("[a-z]")}},
	{Source: "ru", Target: "uk", Conditions: []Condition{Match("[іїєґ]")}},
}

// DefaultDirections lists the directions known out of the box.
var DefaultDirections = Directions{
	{Source: "en", Target: "ru"},
	{Source: "ru", Target: "en"},
	{Source: "uk", Target: "en"},
}

// DefaultPopupThreshold is the text length, in runes, at which rendering moves
// from the popup surface to the echo surface.
const DefaultPopupThreshold = 600

// TranslateRequest contains the parameters for a single translation.
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string

	// Token is the request token some backends require. Set by TokenStamper.
	Token string

	// Suggested marks the re-translation of a backend suggestion.
	Suggested bool
}

// Result is the outcome of a translation.
type Result struct {
	Text        string // Text that was translated
	Translation string
	SourceLang  string
	TargetLang  string

	// Raw is the backend's undecoded response, used for suggestion extraction.
	Raw []byte

	// Original is the input the user typed when a suggestion replaced it.
	Original string

	// Cached is set when the result came from a translation cache.
	Cached bool
}

// Direction returns the direction the result was translated in.
func (r *Result) Direction() Direction {
	return Direction{Source: r.SourceLang, Target: r.TargetLang}
}
