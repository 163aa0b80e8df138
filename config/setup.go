package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZaguanLabs/gotdir"
	"github.com/jeandeaual/go-locale"
)

// systemLanguage returns the user's desktop language. Replaced in tests.
var systemLanguage = locale.GetLanguage

// ErrSetupAborted is returned when input ends before a valid answer.
var ErrSetupAborted = errors.New("setup aborted")

// Setup runs the one-time interactive initialization: it asks for the default
// source and target languages, offering the system language and base's values
// as defaults, and returns a copy of base using them. The chosen direction is
// made the first known direction for its source language.
func Setup(in io.Reader, out io.Writer, base *Settings) (*Settings, error) {
	if base == nil {
		base = DefaultSettings()
	}
	s := base.Clone()
	scanner := bufio.NewScanner(in)

	source := base.Source
	if lang, err := systemLanguage(); err == nil && gotdir.IsSupported(lang) {
		source = baseLang(lang)
	}

	source, err := ask(scanner, out, "Default source language", source, "")
	if err != nil {
		return nil, err
	}

	target := base.Target
	if target == source {
		if d, ok := s.Directions.Lookup(source); ok {
			target = d.Target
		} else {
			target = "en"
		}
	}

	target, err = ask(scanner, out, "Default target language", target, source)
	if err != nil {
		return nil, err
	}

	s.Source, s.Target = source, target
	s.Directions = promote(s.Directions, s.Direction())

	fmt.Fprintf(out, "Default direction: %s (%s → %s)\n", s.Direction(), gotdir.GetLanguageName(source), gotdir.GetLanguageName(target))
	return s, nil
}

// InitFile runs Setup over the settings already at path, or the defaults,
// and saves the result there.
func InitFile(path string, in io.Reader, out io.Writer) (*Settings, error) {
	base, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}

	s, err := Setup(in, out, base)
	if err != nil {
		return nil, err
	}
	if err := Save(s, path); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Settings saved to %s\n", path)
	return s, nil
}

// ask prompts until the answer is a supported language other than exclude.
// An empty answer takes def.
func ask(scanner *bufio.Scanner, out io.Writer, prompt, def, exclude string) (string, error) {
	for {
		fmt.Fprintf(out, "%s [%s]: ", prompt, def)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("read answer: %w", err)
			}
			return "", ErrSetupAborted
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			answer = def
		}
		answer = baseLang(answer)

		switch {
		case !gotdir.IsSupported(answer):
			fmt.Fprintf(out, "Unsupported language %q. Choose one of: %s\n", answer, strings.Join(gotdir.SupportedLanguages(), " "))
		case answer == exclude:
			fmt.Fprintf(out, "Target language must differ from the source language.\n")
		default:
			return answer, nil
		}
	}
}

// baseLang reduces "en_US" or "en-US" to "en".
func baseLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(gotdir.NormalizeLocale(lang)))
	if i := strings.IndexByte(lang, '_'); i >= 0 {
		return lang[:i]
	}
	return lang
}

// promote moves d ahead of any other direction with the same source,
// adding it when missing.
func promote(ds gotdir.Directions, d gotdir.Direction) gotdir.Directions {
	out := gotdir.Directions{d}
	for _, known := range ds {
		if known != d {
			out = append(out, known)
		}
	}
	return out
}
