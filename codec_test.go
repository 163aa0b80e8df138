package gotdir

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func TestRuleJSON_TupleShape(t *testing.T) {
	data, err := json.Marshal(DefaultRules[:2])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `[["en","ru",["[а-яё]"]],["ru","en",[["not","[а-яё]"],"[a-z]"]]]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestRuleJSON_RoundTrip(t *testing.T) {
	data, err := json.Marshal(DefaultRules)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded RuleTable
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, DefaultRules) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, DefaultRules)
	}
}

func TestRuleJSON_LenientEntries(t *testing.T) {
	input := `[
		["en", "ru", ["[а-я]"]],
		["en", 5, []],
		["ru", "en", [["maybe", "x"]]],
		"garbage"
	]`

	var table RuleTable
	if err := json.Unmarshal([]byte(input), &table); err != nil {
		t.Fatalf("Unmarshal should not fail on bad entries: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(table))
	}

	if !table[0].Valid() {
		t.Error("first entry should be valid")
	}
	for i := 1; i < 4; i++ {
		if table[i].Valid() || table[i].Invalid() == "" {
			t.Errorf("entry %d should be invalid with a reason", i)
		}
	}

	// Bad entries are written back unchanged.
	out, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[["en","ru",["[а-я]"]],["en",5,[]],["ru","en",[["maybe","x"]]],"garbage"]`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}

	// And the evaluator ignores them.
	if got := DetectCandidateRules(table, "привет"); len(got) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(got))
	}
}

func TestRuleTable_NullEntryKept(t *testing.T) {
	input := `[null,["en","ru",["[а-я]"]]]`

	var table RuleTable
	if err := json.Unmarshal([]byte(input), &table); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(table) != 2 || table[0].Valid() || table[0].Invalid() == "" {
		t.Fatalf("null entry should decode as an invalid rule, got %+v", table)
	}

	out, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal = %s, want %s", out, input)
	}

	var fromYAML RuleTable
	if err := yaml.Unmarshal([]byte("- null\n- [en, ru, [\"[а-я]\"]]\n"), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if len(fromYAML) != 2 || fromYAML[0].Value() != nil {
		t.Errorf("YAML null entry should stay null, got %+v", fromYAML)
	}

	if vals := table.Values(); len(vals) != 1 {
		t.Errorf("Values() should drop the null entry, got %v", vals)
	}
}

func TestRuleJSON_SyntaxError(t *testing.T) {
	var table RuleTable
	if err := json.Unmarshal([]byte(`[["en", "ru"`), &table); err == nil {
		t.Error("expected syntax error")
	}
}

func TestConditionJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Condition
		wantErr bool
	}{
		{`"[a-z]"`, Match("[a-z]"), false},
		{`["not", "[a-z]"]`, NotMatch("[a-z]"), false},
		{`["not"]`, Condition{}, true},
		{`["nope", "x"]`, Condition{}, true},
		{`["not", 3]`, Condition{}, true},
		{`42`, Condition{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Condition
			err := json.Unmarshal([]byte(tt.input), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && c != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, c, tt.want)
			}
		})
	}
}

func TestRuleYAML_RoundTrip(t *testing.T) {
	type doc struct {
		Rules RuleTable `yaml:"rules"`
	}

	data, err := yaml.Marshal(doc{Rules: DefaultRules})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "- [en, ru,") {
		t.Errorf("expected flow-style tuples, got:\n%s", data)
	}

	var decoded doc
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.Rules, DefaultRules) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded.Rules, DefaultRules)
	}
}

func TestRuleYAML_HandWritten(t *testing.T) {
	input := `
rules:
  - [en, ru, ["[а-я]"]]
  - [ru, en, [[not, "[а-я]"], "[a-z]"]]
  - [uk]
`
	var decoded struct {
		Rules RuleTable `yaml:"rules"`
	}
	if err := yaml.Unmarshal([]byte(input), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := RuleTable{
		{Source: "en", Target: "ru", Conditions: []Condition{Match("[а-я]")}},
		{Source: "ru", Target: "en", Conditions: []Condition{NotMatch("[а-я]"), Match("[a-z]")}},
	}
	if !reflect.DeepEqual(decoded.Rules[:2], want) {
		t.Errorf("decoded = %+v, want %+v", decoded.Rules[:2], want)
	}
	if decoded.Rules[2].Valid() {
		t.Error("short tuple should be invalid")
	}
}

func TestRuleTOML_Decode(t *testing.T) {
	input := `
rules = [
  ["en", "ru", ["[а-я]"]],
  ["ru", "en", [["not", "[а-я]"], "[a-z]"]],
]
`
	var decoded struct {
		Rules RuleTable `toml:"rules"`
	}
	if _, err := toml.Decode(input, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := RuleTable{
		{Source: "en", Target: "ru", Conditions: []Condition{Match("[а-я]")}},
		{Source: "ru", Target: "en", Conditions: []Condition{NotMatch("[а-я]"), Match("[a-z]")}},
	}
	if !reflect.DeepEqual(decoded.Rules, want) {
		t.Errorf("decoded = %+v, want %+v", decoded.Rules, want)
	}
}

func TestRuleTable_Values(t *testing.T) {
	values := DefaultRules.Values()
	if len(values) != len(DefaultRules) {
		t.Fatalf("expected %d values, got %d", len(DefaultRules), len(values))
	}
	for i, v := range values {
		if got := RuleFromValue(v); !reflect.DeepEqual(got, DefaultRules[i]) {
			t.Errorf("value %d does not read back: %+v", i, got)
		}
	}
}
