package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{4, "4.0"},
		{3.75, "3.8"}, // exact tie, away from zero
		{1.25, "1.3"}, // exact tie
		{0.15, "0.1"}, // stored just below the tie
		{6.85, "6.8"}, // stored just below the tie
		{2.45, "2.5"}, // stored just above the tie
		{4.333333, "4.3"},
		{19.96, "20.0"},
		{-1.25, "-1.3"},
		{-0.01, "0.0"},
		{math.NaN(), "0.0"},
		{math.Inf(1), "0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatScore(tt.in), "FormatScore(%v)", tt.in)
	}
}

func TestNewScore(t *testing.T) {
	assert.Equal(t, Score(3.8), NewScore(3.75))
	assert.Equal(t, Score(3.6), NewScore(1.3+2.3))
	assert.Equal(t, "6.8", NewScore(3.8+3.0).String())
}

func TestScore_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		S Score `json:"s"`
	}{S: 4.5})
	require.NoError(t, err)
	assert.Equal(t, `{"s":"4.5"}`, string(out))

	tests := []struct {
		name string
		in   string
		want Score
	}{
		{name: "string", in: `"3.8"`, want: 3.8},
		{name: "number", in: `3.8`, want: 3.8},
		{name: "null", in: `null`, want: 0},
		{name: "empty string", in: `""`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Score
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}

	var s Score
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &s))
}
