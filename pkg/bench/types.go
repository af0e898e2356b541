package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/movelog"
)

// Points awarded per game
const (
	WinPoints  = 1.0
	DrawPoints = 0.5
)

// Head to head record, from the row strategy's point of view
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func (r Record) Total() int {
	return r.Wins + r.Losses + r.Draws
}

// Aggregate statistics of a tournament, maps are keyed by strategy name
type Results struct {
	RunID    string        `json:"run_id"`
	Settings game.Settings `json:"settings"`

	Wins   map[string]int     `json:"wins"`
	Losses map[string]int     `json:"losses"`
	Draws  map[string]int     `json:"draws"`
	Points map[string]float64 `json:"points"`
	// Seconds spent choosing moves
	ExecutionTime map[string]float64 `json:"execution_time"`
	// matchups[a][b] is a's record against b, over both seatings
	Matchups   map[string]map[string]*Record `json:"matchups"`
	TotalGames int                           `json:"total_games"`
}

func newResults(runID string, settings game.Settings, names []string) *Results {
	r := &Results{
		RunID:         runID,
		Settings:      settings,
		Wins:          make(map[string]int, len(names)),
		Losses:        make(map[string]int, len(names)),
		Draws:         make(map[string]int, len(names)),
		Points:        make(map[string]float64, len(names)),
		ExecutionTime: make(map[string]float64, len(names)),
		Matchups:      make(map[string]map[string]*Record, len(names)),
	}
	for _, a := range names {
		r.Matchups[a] = make(map[string]*Record, len(names))
		for _, b := range names {
			r.Matchups[a][b] = &Record{}
		}
	}
	return r
}

// Outcome of a single game, First always moved first
type GameResult struct {
	First, Second string
	GameID        int
	// 1, 2 or 0 for a draw
	Winner int
	// Time spent by each side choosing moves
	FirstTime, SecondTime time.Duration
	Moves                 int

	// Present when moves are being saved
	Log *movelog.Log
}

func (g GameResult) String() string {
	switch g.Winner {
	case 1:
		return fmt.Sprintf("%s beat %s in %d moves", g.First, g.Second, g.Moves)
	case 2:
		return fmt.Sprintf("%s beat %s in %d moves", g.Second, g.First, g.Moves)
	}
	return fmt.Sprintf("%s drew with %s in %d moves", g.First, g.Second, g.Moves)
}

func (r *Results) add(g GameResult) {
	a, b := g.First, g.Second
	switch g.Winner {
	case 1:
		r.Wins[a]++
		r.Losses[b]++
		r.Points[a] += WinPoints
		r.Matchups[a][b].Wins++
		r.Matchups[b][a].Losses++
	case 2:
		r.Wins[b]++
		r.Losses[a]++
		r.Points[b] += WinPoints
		r.Matchups[b][a].Wins++
		r.Matchups[a][b].Losses++
	default:
		r.Draws[a]++
		r.Draws[b]++
		r.Points[a] += DrawPoints
		r.Points[b] += DrawPoints
		r.Matchups[a][b].Draws++
		r.Matchups[b][a].Draws++
	}

	r.ExecutionTime[a] += g.FirstTime.Seconds()
	r.ExecutionTime[b] += g.SecondTime.Seconds()
	r.TotalGames++
}

type Standing struct {
	Name          string
	Points        float64
	Wins          int
	Losses        int
	Draws         int
	ExecutionTime float64
}

// Strategies by points, best first, ties broken by wins and then name
func (r *Results) Ranking() []Standing {
	standings := make([]Standing, 0, len(r.Matchups))
	for name := range r.Matchups {
		standings = append(standings, Standing{
			Name:          name,
			Points:        r.Points[name],
			Wins:          r.Wins[name],
			Losses:        r.Losses[name],
			Draws:         r.Draws[name],
			ExecutionTime: r.ExecutionTime[name],
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Name < b.Name
	})
	return standings
}

// File name of the results, stamped with the unix time
func ResultsFileName(t time.Time) string {
	return fmt.Sprintf("tournament_%d.json", t.Unix())
}

// Save writes the results as indented JSON into 'dir', returning the file path
func (r *Results) Save(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ResultsFileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}

func LoadResults(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &r, nil
}
