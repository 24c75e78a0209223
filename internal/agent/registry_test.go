package agent

import (
	"errors"
	"testing"

	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

func TestBuiltinsRegistered(t *testing.T) {
	list := List()
	if len(list) < 2 {
		t.Fatalf("List() returned %d agents, want at least 2", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
	for _, id := range []string{IDMinimax, IDRandom} {
		if !Exists(id) {
			t.Errorf("%q should be registered", id)
		}
	}
	if Exists("oracle") {
		t.Error("unexpected agent \"oracle\"")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate ID should panic")
		}
	}()
	Register(IDRandom, "again", func(Settings) (Agent, error) { return NewRandom(0), nil })
}

func TestCreate(t *testing.T) {
	a, err := Create(IDMinimax, Settings{Depth: 4, Heuristic: heuristic.CriticalMass})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.Name() != "minimax:4:critical-mass" {
		t.Errorf("Name() = %q", a.Name())
	}

	if _, err := Create("oracle", DefaultSettings()); err == nil {
		t.Error("Create with unknown ID should fail")
	}
}

func TestParseSpec(t *testing.T) {
	defaults := DefaultSettings()

	tests := []struct {
		in        string
		id        string
		depth     int
		heuristic heuristic.Kind
	}{
		{"random", IDRandom, defaults.Depth, defaults.Heuristic},
		{"minimax", IDMinimax, defaults.Depth, defaults.Heuristic},
		{"minimax:5", IDMinimax, 5, defaults.Heuristic},
		{"Minimax:2:edge-priority", IDMinimax, 2, heuristic.EdgePriority},
		{"minimax::4", IDMinimax, defaults.Depth, heuristic.CriticalMass},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := ParseSpec(tt.in, defaults)
			if err != nil {
				t.Fatalf("ParseSpec failed: %v", err)
			}
			if spec.ID != tt.id || spec.Settings.Depth != tt.depth || spec.Settings.Heuristic != tt.heuristic {
				t.Errorf("ParseSpec = %+v", spec)
			}
		})
	}

	for _, bad := range []string{"", "oracle", "minimax:0", "minimax:x", "minimax:3:greedy", "minimax:1:2:3"} {
		if _, err := ParseSpec(bad, defaults); err == nil {
			t.Errorf("ParseSpec(%q) should fail", bad)
		}
	}
	if _, err := ParseSpec("minimax:3:greedy", defaults); !errors.Is(err, heuristic.ErrUnknown) {
		t.Errorf("unknown heuristic error = %v, want ErrUnknown", err)
	}
}

func TestSpecStringRoundTrip(t *testing.T) {
	for _, in := range []string{"random", "minimax:3:aggressive"} {
		spec, err := ParseSpec(in, DefaultSettings())
		if err != nil {
			t.Fatalf("ParseSpec(%q) failed: %v", in, err)
		}
		if spec.String() != in {
			t.Errorf("String() = %q, want %q", spec.String(), in)
		}
	}

	a, err := New("minimax:1:simple", DefaultSettings())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.Name() != "minimax:1:simple" {
		t.Errorf("Name() = %q", a.Name())
	}
}
