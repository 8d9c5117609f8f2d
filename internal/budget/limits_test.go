package budget

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finrec/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()

	cases := []struct {
		category   core.ExpenseCategory
		limit      float64
		configured bool
	}{
		{core.AdditionalServices, 250, true},
		{core.Food, 250, true},
		{core.Shopping, 100, true},
		{core.Technology, 30, true},
		{core.Games, 30, true},
		{core.Transport, 0, false},
		{core.Gifts, 0, false},
	}
	for _, tc := range cases {
		v, ok := l.Limit(tc.category)
		assert.Equal(t, tc.limit, v, tc.category)
		assert.Equal(t, tc.configured, ok, tc.category)
	}

	entries := l.Entries()
	require.Len(t, entries, 16)
	assert.Equal(t, core.AdditionalServices, entries[0].Category)
	assert.Equal(t, core.Gifts, entries[15].Category)
}

func TestLimitFor(t *testing.T) {
	l := DefaultLimits()

	e, err := l.LimitFor("Food")
	require.NoError(t, err)
	assert.Equal(t, Entry{Category: core.Food, Limit: 250, Configured: true}, e)

	_, err = l.LimitFor("rent")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "limits.yaml", "limits:\n  food: 300\n  streaming: 15.5\n  transport: 0\n")

	l, err := Load(path)
	require.NoError(t, err)

	v, ok := l.Limit(core.Food)
	assert.True(t, ok)
	assert.Equal(t, 300.0, v)

	v, ok = l.Limit(core.Streaming)
	assert.True(t, ok)
	assert.Equal(t, 15.5, v)

	v, ok = l.Limit(core.Transport)
	assert.True(t, ok, "explicit zero is configured")
	assert.Equal(t, 0.0, v)

	// defaults survive
	v, _ = l.Limit(core.Shopping)
	assert.Equal(t, 100.0, v)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "limits.json", `{"limits": {"hobbies": 45}}`)

	l, err := Load(path)
	require.NoError(t, err)
	v, ok := l.Limit(core.Hobbies)
	assert.True(t, ok)
	assert.Equal(t, 45.0, v)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := Load(writeFile(t, "limits.yaml", "limits:\n  rent: 900\n"))
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := Load(writeFile(t, "limits.yaml", "limits:\n  food: -1\n"))
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(map[core.ExpenseCategory]float64{"rent": 1})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = New(map[core.ExpenseCategory]float64{core.Food: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	l, err := New(nil)
	require.NoError(t, err)
	_, ok := l.Limit(core.Food)
	assert.False(t, ok)
}

func TestWithDoesNotMutate(t *testing.T) {
	base := DefaultLimits()
	next, err := base.With(map[core.ExpenseCategory]float64{core.Food: 1})
	require.NoError(t, err)

	v, _ := base.Limit(core.Food)
	assert.Equal(t, 250.0, v)
	v, _ = next.Limit(core.Food)
	assert.Equal(t, 1.0, v)
}
