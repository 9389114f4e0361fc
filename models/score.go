package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is a point value already rounded to one decimal. It is persisted as a
// decimal string ("3.8") and read back from either a string or a number.
type Score float64

// NewScore rounds x to one decimal.
func NewScore(x float64) Score { return Score(Round1(x)) }

func (s Score) Float64() float64 { return float64(s) }

func (s Score) String() string { return FormatScore(float64(s)) }

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*s = Score(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// Round1 rounds x to one decimal, ties away from zero, looking at the exact
// binary value of x (so 0.15, stored as 0.1499..., rounds down to 0.1).
func Round1(x float64) float64 {
	f, _ := strconv.ParseFloat(FormatScore(x), 64)
	return f
}

// FormatScore renders x with exactly one decimal using the rounding of Round1.
func FormatScore(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.0"
	}
	neg := x < 0
	if neg {
		x = -x
	}

	// 20 fractional digits is far beyond the spacing of float64 values in the
	// score range, so digit two decides the rounding exactly.
	digits := strconv.FormatFloat(x, 'f', 20, 64)
	dot := strings.IndexByte(digits, '.')
	whole, _ := strconv.ParseInt(digits[:dot], 10, 64)
	tenths := whole*10 + int64(digits[dot+1]-'0')
	if digits[dot+2] >= '5' {
		tenths++
	}

	out := strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
	if neg && tenths != 0 {
		out = "-" + out
	}
	return out
}
