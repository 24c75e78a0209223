// Package tournament plays round-robin series between agents. Games are
// independent and run concurrently, each on its own board with its own
// agent instances.
package tournament

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
)

// ResultSaver persists finished games.
// This allows the tournament to store results without depending on the storage package.
type ResultSaver interface {
	SaveMatchResult(res match.Result) error
}

// Config describes a tournament.
type Config struct {
	Agents      []string       // agent specs, e.g. "minimax:3:simple"
	Defaults    agent.Settings // fills fields a spec leaves out
	Games       int            // games per ordered pairing
	Workers     int            // concurrent games; 0 means one per pairing game
	Rows        int
	Cols        int
	MaxPlies    int
	KeepRecords bool // keep per-ply records in the report (needed for export)
	Saver       ResultSaver
	Logger      *log.Logger
}

// Standing is one agent's line in the table.
type Standing struct {
	Agent  string
	Games  int
	Wins   int
	Losses int
	Draws  int
}

// Points scores a win as 1 and a draw as 0.5.
func (s Standing) Points() float64 {
	return float64(s.Wins) + 0.5*float64(s.Draws)
}

// Report is the outcome of a tournament.
type Report struct {
	Results   []match.Result
	Standings []Standing
	Duration  time.Duration
}

type pairing struct {
	red, blue agent.Spec
	seed      uint64
}

// Run plays every ordered pair of distinct agents cfg.Games times.
// The first error cancels the remaining games.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if len(cfg.Agents) < 2 {
		return Report{}, fmt.Errorf("tournament: need at least two agents, got %d", len(cfg.Agents))
	}
	if cfg.Games < 1 {
		return Report{}, fmt.Errorf("tournament: games per pairing %d: must be at least 1", cfg.Games)
	}

	specs := make([]agent.Spec, len(cfg.Agents))
	for i, s := range cfg.Agents {
		spec, err := agent.ParseSpec(s, cfg.Defaults)
		if err != nil {
			return Report{}, fmt.Errorf("tournament: %w", err)
		}
		specs[i] = spec
	}

	var games []pairing
	for i := range specs {
		for j := range specs {
			if i == j {
				continue
			}
			for g := 0; g < cfg.Games; g++ {
				games = append(games, pairing{
					red:  specs[i],
					blue: specs[j],
					seed: cfg.Defaults.Seed + uint64(len(games))*2,
				})
			}
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Info("tournament started", "agents", len(specs), "games", len(games), "workers", cfg.Workers)

	start := time.Now()
	results := make([]match.Result, len(games))
	var saveMu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		eg.SetLimit(cfg.Workers)
	}

	for i, p := range games {
		eg.Go(func() error {
			res, err := playOne(ctx, cfg, p)
			if err != nil {
				return fmt.Errorf("tournament: game %d (%s vs %s): %w", i+1, p.red, p.blue, err)
			}
			if !cfg.KeepRecords {
				res.Records = nil
			}
			results[i] = res

			if cfg.Saver != nil {
				saveMu.Lock()
				err := cfg.Saver.SaveMatchResult(res)
				saveMu.Unlock()
				if err != nil {
					return fmt.Errorf("tournament: save game %d: %w", i+1, err)
				}
			}
			logger.Debug("game finished", "game", i+1, "red", res.Red, "blue", res.Blue,
				"winner", res.WinnerName(), "plies", res.Plies)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Results:   results,
		Standings: Standings(results),
		Duration:  time.Since(start),
	}
	logger.Info("tournament finished", "games", len(results), "duration", report.Duration)
	return report, nil
}

func playOne(ctx context.Context, cfg Config, p pairing) (match.Result, error) {
	redSettings := p.red.Settings
	redSettings.Seed = p.seed
	red, err := agent.Create(p.red.ID, redSettings)
	if err != nil {
		return match.Result{}, err
	}

	blueSettings := p.blue.Settings
	blueSettings.Seed = p.seed + 1
	blue, err := agent.Create(p.blue.ID, blueSettings)
	if err != nil {
		return match.Result{}, err
	}

	m, err := match.New(red, blue, match.Config{
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		MaxPlies: cfg.MaxPlies,
	})
	if err != nil {
		return match.Result{}, err
	}
	return m.Run(ctx)
}

// Standings aggregates results per agent, best first: by points, then
// wins, then name.
func Standings(results []match.Result) []Standing {
	byAgent := make(map[string]*Standing)
	get := func(name string) *Standing {
		s, ok := byAgent[name]
		if !ok {
			s = &Standing{Agent: name}
			byAgent[name] = s
		}
		return s
	}

	for _, r := range results {
		red, blue := get(r.Red), get(r.Blue)
		red.Games++
		blue.Games++
		switch r.Winner {
		case board.Red:
			red.Wins++
			blue.Losses++
		case board.Blue:
			blue.Wins++
			red.Losses++
		default:
			red.Draws++
			blue.Draws++
		}
	}

	table := make([]Standing, 0, len(byAgent))
	for _, s := range byAgent {
		table = append(table, *s)
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Points() != table[j].Points() {
			return table[i].Points() > table[j].Points()
		}
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		return table[i].Agent < table[j].Agent
	})
	return table
}
