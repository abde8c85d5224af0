package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateInterval_SwapsInvertedBounds(t *testing.T) {
	iv := NewDateInterval(date(2024, time.May, 10), date(2024, time.May, 1))

	assert.Equal(t, date(2024, time.May, 1), iv.Start)
	assert.Equal(t, date(2024, time.May, 10), iv.End)
}

func TestNewDateInterval_KeepsOrderedBounds(t *testing.T) {
	iv := NewDateInterval(date(2024, time.May, 1), date(2024, time.May, 10))

	assert.Equal(t, date(2024, time.May, 1), iv.Start)
	assert.Equal(t, date(2024, time.May, 10), iv.End)
}

func TestDateInterval_ContainsIsInclusive(t *testing.T) {
	iv := DateInterval{Start: date(2024, time.May, 1), End: date(2024, time.May, 10)}

	assert.True(t, iv.Contains(date(2024, time.May, 1)))
	assert.True(t, iv.Contains(date(2024, time.May, 10)))
	assert.True(t, iv.Contains(date(2024, time.May, 5)))
	assert.False(t, iv.Contains(date(2024, time.April, 30)))
	assert.False(t, iv.Contains(date(2024, time.May, 11)))
}

func TestDateInterval_Days(t *testing.T) {
	assert.Equal(t, 1, DateInterval{Start: date(2024, time.May, 1), End: date(2024, time.May, 1)}.Days())
	assert.Equal(t, 10, DateInterval{Start: date(2024, time.May, 1), End: date(2024, time.May, 10)}.Days())
}

func TestDateInterval_Label(t *testing.T) {
	iv := DateInterval{Start: date(2024, time.May, 1), End: date(2024, time.May, 10)}
	assert.Equal(t, "2024-05-01 to 2024-05-10", iv.Label())
}

func TestResolveInterval(t *testing.T) {
	fallback := DateInterval{Start: date(2024, time.January, 1), End: date(2024, time.December, 31)}

	tests := []struct {
		name     string
		sel      *BrushSelection
		expected DateInterval
	}{
		{
			name:     "absent selection keeps fallback",
			sel:      nil,
			expected: fallback,
		},
		{
			name:     "empty selection keeps fallback",
			sel:      &BrushSelection{},
			expected: fallback,
		},
		{
			name: "ordered selection",
			sel:  &BrushSelection{Boxes: []BrushBox{{X: [2]string{"2024-05-01", "2024-05-10"}}}},
			expected: DateInterval{
				Start: date(2024, time.May, 1),
				End:   date(2024, time.May, 10),
			},
		},
		{
			name: "inverted selection is swapped",
			sel:  &BrushSelection{Boxes: []BrushBox{{X: [2]string{"2024-05-10", "2024-05-01"}}}},
			expected: DateInterval{
				Start: date(2024, time.May, 1),
				End:   date(2024, time.May, 10),
			},
		},
		{
			name: "only the first box is honored",
			sel: &BrushSelection{Boxes: []BrushBox{
				{X: [2]string{"2024-05-01", "2024-05-02"}},
				{X: [2]string{"2024-06-01", "2024-06-02"}},
			}},
			expected: DateInterval{
				Start: date(2024, time.May, 1),
				End:   date(2024, time.May, 2),
			},
		},
		{
			name:     "unparsable bound keeps fallback",
			sel:      &BrushSelection{Boxes: []BrushBox{{X: [2]string{"not-a-date", "2024-05-10"}}}},
			expected: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveInterval(tt.sel, fallback)
			assert.Equal(t, tt.expected, got)
			assert.False(t, got.Start.After(got.End))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.May, 1), d)

	_, err = ParseDate("05/01/2024")
	require.Error(t, err)
}
