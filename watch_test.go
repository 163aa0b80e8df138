package gotdir

import (
	"sync"
	"testing"
)

func TestDirectionWatcher_SwitchSticks(t *testing.T) {
	w := NewDirectionWatcher(NewSwitcher(DefaultRules, DefaultDirections), Direction{Source: "en", Target: "ru"})

	steps := []struct {
		text     string
		want     Direction
		switched bool
	}{
		{"h", Direction{Source: "en", Target: "ru"}, false},
		{"hп", Direction{Source: "ru", Target: "en"}, true},
		// Still Cyrillic: ru→en has no rule for it.
		{"hпр", Direction{Source: "ru", Target: "en"}, false},
		// Latin only again: back to en.
		{"hi", Direction{Source: "en", Target: "ru"}, true},
	}

	for i, s := range steps {
		d, evaluated := w.Update(s.text)
		if !evaluated {
			t.Fatalf("step %d: new text should be evaluated", i)
		}
		if d.Direction != s.want || d.Switched != s.switched {
			t.Errorf("step %d (%q): got %s switched=%v, want %s switched=%v", i, s.text, d.Direction, d.Switched, s.want, s.switched)
		}
	}
	if w.Current() != (Direction{Source: "en", Target: "ru"}) {
		t.Errorf("Current() = %s", w.Current())
	}
}

func TestDirectionWatcher_AtMostOncePerChange(t *testing.T) {
	w := NewDirectionWatcher(NewSwitcher(DefaultRules, DefaultDirections), Direction{Source: "en", Target: "ru"})

	for _, text := range []string{"привет", "привет", "привет", "привет мир", "привет мир"} {
		w.Update(text)
	}
	if w.Evaluations() != 2 {
		t.Errorf("Evaluations() = %d, want 2", w.Evaluations())
	}

	d, evaluated := w.Update("привет мир")
	if evaluated || d.Switched {
		t.Error("repeated text should not be evaluated")
	}
	if d.Direction != (Direction{Source: "ru", Target: "en"}) {
		t.Errorf("repeated text should report the active direction, got %s", d.Direction)
	}
}

func TestDirectionWatcher_Reset(t *testing.T) {
	w := NewDirectionWatcher(NewSwitcher(DefaultRules, DefaultDirections), Direction{Source: "en", Target: "ru"})
	w.Update("привет")

	w.Reset(Direction{Source: "en", Target: "ru"})
	if w.Current() != (Direction{Source: "en", Target: "ru"}) {
		t.Errorf("Current() = %s after Reset", w.Current())
	}
	if _, evaluated := w.Update("привет"); !evaluated {
		t.Error("Reset should forget the last input")
	}
}

func TestDirectionWatcher_NoSwitcher(t *testing.T) {
	start := Direction{Source: "en", Target: "ru"}
	w := NewDirectionWatcher(nil, start)

	d, evaluated := w.Update("привет")
	if !evaluated || d.Switched || d.Direction != start {
		t.Errorf("got %+v evaluated=%v", d, evaluated)
	}
	if w.Evaluations() != 0 {
		t.Error("nothing should be evaluated without a switcher")
	}
}

func TestDirectionWatcher_Concurrent(t *testing.T) {
	w := NewDirectionWatcher(NewSwitcher(DefaultRules, DefaultDirections), Direction{Source: "en", Target: "ru"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				w.Update("hello")
			} else {
				w.Update("привет")
			}
		}(i)
	}
	wg.Wait()

	if c := w.Current(); !DefaultDirections.Contains(c) {
		t.Errorf("Current() = %s is not a known direction", c)
	}
}
