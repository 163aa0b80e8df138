// Package gotdir picks the translation direction for a translation client
// while the user types, and customizes that client through explicit
// decorators.
//
// A RuleTable maps a source language and a set of regular-expression
// conditions to another language. When the text being typed satisfies every
// condition of a rule whose source is the current source language, the
// direction switches to the known direction starting at the rule's target.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/ZaguanLabs/gotdir"
//	    "github.com/ZaguanLabs/gotdir/provider"
//	)
//
//	func main() {
//	    host := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    switcher := gotdir.NewSwitcher(gotdir.DefaultRules, gotdir.DefaultDirections)
//
//	    t := gotdir.NewTranslator(host,
//	        gotdir.WithSwitcher(switcher),
//	        gotdir.WithRenderer(gotdir.NewThresholdRenderer(os.Stdout, gotdir.DefaultPopupThreshold)),
//	    )
//
//	    // Cyrillic input while on en→ru flips to ru→en.
//	    _, err := t.Translate(context.Background(), gotdir.Direction{Source: "en", Target: "ru"}, "привет мир")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
package gotdir
