// Package catalog holds the static stage definitions and the question bank.
// Stages and questions are immutable once loaded; the runner copies layouts
// into live entities when a stage starts.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed stages.yaml
var defaultYAML []byte

// ErrUnknownStage is returned when a stage number is not in the catalog.
var ErrUnknownStage = errors.New("catalog: unknown stage")

// ObstacleKind is the visual and thematic type of an obstacle. All kinds
// collide the same way.
type ObstacleKind string

const (
	KindSpike ObstacleKind = "spike"
	KindPit   ObstacleKind = "pit"
	KindBlock ObstacleKind = "block"
)

// Valid reports whether k is a known obstacle kind.
func (k ObstacleKind) Valid() bool {
	return k == KindSpike || k == KindPit || k == KindBlock
}

// Point is a spawn position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// CoinRow is a compact description of a wavy line of coins.
type CoinRow struct {
	Count   int     `yaml:"count"`
	StartX  float64 `yaml:"start_x"`
	Spacing float64 `yaml:"spacing"`
	BaseY   float64 `yaml:"base_y"`
	Wave    float64 `yaml:"wave"`
}

// Expand returns the coin positions of the row.
func (r CoinRow) Expand() []Point {
	pts := make([]Point, 0, r.Count)
	for i := 0; i < r.Count; i++ {
		pts = append(pts, Point{
			X: r.StartX + float64(i)*r.Spacing,
			Y: r.BaseY + math.Sin(float64(i))*r.Wave,
		})
	}
	return pts
}

// ObstacleSpec places one obstacle.
type ObstacleSpec struct {
	X    float64      `yaml:"x"`
	Y    float64      `yaml:"y"`
	Kind ObstacleKind `yaml:"kind"`
}

// WallSpec places one knowledge wall bound to a question.
type WallSpec struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	QuestionID string  `yaml:"question"`
}

// Reward is granted once per player when a stage is completed.
type Reward struct {
	Tokens decimal.Decimal `yaml:"tokens"`
	Badge  string          `yaml:"badge"`
}

// Stage describes one course.
type Stage struct {
	ID        int            `yaml:"id"`
	Name      string         `yaml:"name"`
	Speed     float64        `yaml:"speed"`  // World units scrolled per tick
	Length    float64        `yaml:"length"` // Distance needed to complete
	CoinRows  []CoinRow      `yaml:"coin_rows"`
	Coins     []Point        `yaml:"coins"` // Explicit coins, added after rows
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Walls     []WallSpec     `yaml:"walls"`
	Reward    Reward         `yaml:"reward"`
}

// CoinLayout returns every coin position of the stage, rows first.
func (s Stage) CoinLayout() []Point {
	var pts []Point
	for _, row := range s.CoinRows {
		pts = append(pts, row.Expand()...)
	}
	return append(pts, s.Coins...)
}

// Ticks returns how many ticks the stage takes at its own speed.
func (s Stage) Ticks() int {
	if s.Speed <= 0 {
		return 0
	}
	return int(math.Ceil(s.Length / s.Speed))
}

// Question is a multiple choice question shown at a knowledge wall.
type Question struct {
	ID        string   `yaml:"id"`
	Prompt    string   `yaml:"prompt"`
	Options   []string `yaml:"options"`
	Correct   int      `yaml:"correct"`
	Points    int      `yaml:"points"`
	TimeLimit int      `yaml:"time_limit"` // Seconds
}

// IsCorrect reports whether option is the right answer. No partial credit.
func (q Question) IsCorrect(option int) bool {
	return option == q.Correct
}

// Catalog is the loaded set of stages and questions.
type Catalog struct {
	stages    []Stage
	questions map[string]Question
}

type file struct {
	Questions []Question `yaml:"questions"`
	Stages    []Stage    `yaml:"stages"`
}

var defaultCatalog = mustParse(defaultYAML)

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded stages: %v", err))
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Load reads a catalog file, or returns the built-in catalog for an empty path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return New(f.Stages, f.Questions)
}

// New builds a catalog from in-memory definitions. Stages are sorted by ID.
func New(stages []Stage, questions []Question) (*Catalog, error) {
	c := &Catalog{
		stages:    append([]Stage(nil), stages...),
		questions: make(map[string]Question, len(questions)),
	}
	sort.Slice(c.stages, func(i, j int) bool { return c.stages[i].ID < c.stages[j].ID })

	var errs []error
	for _, q := range questions {
		if _, dup := c.questions[q.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate question %q", q.ID))
			continue
		}
		if len(q.Options) < 2 || len(q.Options) > 4 {
			errs = append(errs, fmt.Errorf("question %q: need 2 to 4 options, got %d", q.ID, len(q.Options)))
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			errs = append(errs, fmt.Errorf("question %q: correct index %d out of range", q.ID, q.Correct))
		}
		if q.TimeLimit <= 0 {
			errs = append(errs, fmt.Errorf("question %q: time limit must be positive", q.ID))
		}
		c.questions[q.ID] = q
	}

	if len(c.stages) == 0 {
		errs = append(errs, errors.New("no stages"))
	}
	for i, s := range c.stages {
		if s.ID != i+1 {
			errs = append(errs, fmt.Errorf("stage ids must run 1..n, found %d at position %d", s.ID, i+1))
		}
		if s.Speed <= 0 || s.Length <= 0 {
			errs = append(errs, fmt.Errorf("stage %d: speed and length must be positive", s.ID))
		}
		for _, o := range s.Obstacles {
			if !o.Kind.Valid() {
				errs = append(errs, fmt.Errorf("stage %d: unknown obstacle kind %q", s.ID, o.Kind))
			}
		}
		for _, w := range s.Walls {
			if _, ok := c.questions[w.QuestionID]; !ok {
				errs = append(errs, fmt.Errorf("stage %d: wall references unknown question %q", s.ID, w.QuestionID))
			}
		}
		if s.Reward.Tokens.IsNegative() {
			errs = append(errs, fmt.Errorf("stage %d: negative token reward", s.ID))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of stages.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// Stages returns all stages in order.
func (c *Catalog) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Stage returns the stage with the given number.
func (c *Catalog) Stage(id int) (Stage, error) {
	if id < 1 || id > len(c.stages) {
		return Stage{}, fmt.Errorf("%w: %d", ErrUnknownStage, id)
	}
	return c.stages[id-1], nil
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	q, ok := c.questions[id]
	return q, ok
}

// Reward returns the reward for completing a stage.
func (c *Catalog) Reward(stage int) (Reward, error) {
	s, err := c.Stage(stage)
	if err != nil {
		return Reward{}, err
	}
	return s.Reward, nil
}

// CumulativeTokens returns the total tokens granted by stages 1..stage.
func (c *Catalog) CumulativeTokens(stage int) decimal.Decimal {
	total := decimal.Zero
	for _, s := range c.stages {
		if s.ID > stage {
			break
		}
		total = total.Add(s.Reward.Tokens)
	}
	return total
}
