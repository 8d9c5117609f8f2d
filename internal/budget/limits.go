// Package budget holds the per-category spending limits table.
//
// Limits are configuration, not logic: the table is loaded from a file and
// looked up by category. Nothing here sums expenses or enforces a limit.
package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/viper"

	"finrec/internal/core"
)

var (
	ErrUnknownCategory = errors.New("budget: unknown category")
	ErrInvalidLimit    = errors.New("budget: invalid limit")
)

// Limits maps expense categories to a spending limit. Categories without an
// entry have no configured limit. A Limits value is read-only after it is
// built and safe for concurrent use.
type Limits struct {
	limits map[core.ExpenseCategory]float64
}

// Entry is one row of the table.
type Entry struct {
	Category   core.ExpenseCategory `json:"category"`
	Limit      float64              `json:"limit"`
	Configured bool                 `json:"configured"`
}

// DefaultLimits returns the built-in table.
func DefaultLimits() *Limits {
	return &Limits{limits: map[core.ExpenseCategory]float64{
		core.AdditionalServices: 250,
		core.Food:               250,
		core.Shopping:           100,
		core.Technology:         30,
		core.Games:              30,
	}}
}

// New builds a table from explicit values, validating every entry.
func New(values map[core.ExpenseCategory]float64) (*Limits, error) {
	l := &Limits{limits: make(map[core.ExpenseCategory]float64, len(values))}
	for c, v := range values {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
		if err := checkLimit(c, v); err != nil {
			return nil, err
		}
		l.limits[c] = v
	}
	return l, nil
}

// Load reads a limits file (YAML, JSON or TOML, chosen by extension) and
// overlays its entries on the defaults. The file looks like:
//
//	limits:
//	  food: 300
//	  streaming: 15
func Load(path string) (*Limits, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read budget limits %s: %w", path, err)
	}

	var file struct {
		Limits map[string]float64 `mapstructure:"limits"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode budget limits %s: %w", path, err)
	}

	overrides := make(map[core.ExpenseCategory]float64, len(file.Limits))
	for label, value := range file.Limits {
		c, err := core.ParseExpenseCategory(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %s", ErrUnknownCategory, label, path)
		}
		overrides[c] = value
	}
	return DefaultLimits().With(overrides)
}

// With returns a copy of l with the given entries replaced.
func (l *Limits) With(overrides map[core.ExpenseCategory]float64) (*Limits, error) {
	merged := make(map[core.ExpenseCategory]float64, len(l.limits)+len(overrides))
	for c, v := range l.limits {
		merged[c] = v
	}
	for c, v := range overrides {
		merged[c] = v
	}
	return New(merged)
}

// Limit returns the limit for c and whether one is configured.
func (l *Limits) Limit(c core.ExpenseCategory) (float64, bool) {
	v, ok := l.limits[c]
	return v, ok
}

// LimitFor looks up a category by its label.
func (l *Limits) LimitFor(label string) (Entry, error) {
	c, err := core.ParseExpenseCategory(label)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
	}
	v, ok := l.Limit(c)
	return Entry{Category: c, Limit: v, Configured: ok}, nil
}

// Entries returns one row per expense category in declaration order.
func (l *Limits) Entries() []Entry {
	cats := core.ExpenseCategories()
	out := make([]Entry, 0, len(cats))
	for _, c := range cats {
		v, ok := l.Limit(c)
		out = append(out, Entry{Category: c, Limit: v, Configured: ok})
	}
	return out
}

func checkLimit(c core.ExpenseCategory, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s = %v", ErrInvalidLimit, c, v)
	}
	return nil
}
