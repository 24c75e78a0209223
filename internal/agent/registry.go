package agent

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

// Built-in agent IDs.
const (
	IDMinimax = "minimax"
	IDRandom  = "random"
)

// Info contains metadata about a registered agent.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new agent from settings.
type Factory func(Settings) (Agent, error)

type entry struct {
	title   string
	factory Factory
}

var (
	factories = make(map[string]entry)
	mu        sync.RWMutex
)

func init() {
	Register(IDMinimax, "Minimax with alpha-beta pruning", func(s Settings) (Agent, error) {
		return NewMinimax(s.Depth, s.Heuristic)
	})
	Register(IDRandom, "Uniformly random legal moves", func(s Settings) (Agent, error) {
		return NewRandom(s.Seed), nil
	})
}

// Register adds an agent factory to the registry.
// Panics if an agent with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("agent: %q already registered", id))
	}
	factories[id] = entry{title: title, factory: f}
}

// List returns all registered agents, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id, e := range factories {
		result = append(result, Info{ID: id, Title: e.title})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates an agent by its ID.
func Create(id string, s Settings) (Agent, error) {
	mu.RLock()
	e, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("agent: unknown agent %q", id)
	}
	return e.factory(s)
}

// Exists checks if an agent with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Spec is a parsed agent description of the form id[:depth[:heuristic]].
type Spec struct {
	ID       string
	Settings Settings
}

// ParseSpec parses s, filling fields it does not name from defaults.
//
//	random
//	minimax:4
//	minimax:4:edge-priority
func ParseSpec(s string, defaults Settings) (Spec, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	spec := Spec{ID: strings.ToLower(parts[0]), Settings: defaults}

	if spec.ID == "" {
		return Spec{}, fmt.Errorf("agent: empty spec")
	}
	if !Exists(spec.ID) {
		return Spec{}, fmt.Errorf("agent: spec %q: unknown agent %q", s, spec.ID)
	}
	if len(parts) > 3 {
		return Spec{}, fmt.Errorf("agent: spec %q: too many fields", s)
	}
	if len(parts) > 1 && parts[1] != "" {
		depth, err := strconv.Atoi(parts[1])
		if err != nil || depth < 1 {
			return Spec{}, fmt.Errorf("agent: spec %q: bad depth %q", s, parts[1])
		}
		spec.Settings.Depth = depth
	}
	if len(parts) > 2 && parts[2] != "" {
		k, err := heuristic.Parse(parts[2])
		if err != nil {
			return Spec{}, fmt.Errorf("agent: spec %q: %w", s, err)
		}
		spec.Settings.Heuristic = k
	}
	return spec, nil
}

// String formats the spec so that ParseSpec reads it back.
func (s Spec) String() string {
	if s.ID == IDMinimax {
		return fmt.Sprintf("%s:%d:%s", s.ID, s.Settings.Depth, s.Settings.Heuristic)
	}
	return s.ID
}

// New parses spec and creates the agent it describes.
func New(spec string, defaults Settings) (Agent, error) {
	parsed, err := ParseSpec(spec, defaults)
	if err != nil {
		return nil, err
	}
	return Create(parsed.ID, parsed.Settings)
}
