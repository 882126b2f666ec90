package importsql

import (
	"strconv"
	"strings"
)

// MaxLiteralLength caps the rune length of an escaped string literal
const MaxLiteralLength = 1000

// EscapeSQL doubles single quotes and backslashes and truncates the result to
// MaxLiteralLength runes. An escaped pair is never split by the truncation.
func EscapeSQL(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		width := 1
		if r == '\'' || r == '\\' {
			width = 2
		}
		if n+width > MaxLiteralLength {
			break
		}
		b.WriteRune(r)
		if width == 2 {
			b.WriteRune(r)
		}
		n += width
	}
	return b.String()
}

// escapeValue escapes v when it is a string; any other JSON value becomes empty
func escapeValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return EscapeSQL(s)
}

// Costs is the resource cost block of a unit, building or technology
type Costs struct {
	Food     float64 `json:"food"`
	Wood     float64 `json:"wood"`
	Stone    float64 `json:"stone"`
	Gold     float64 `json:"gold"`
	OliveOil float64 `json:"oliveoil"`
	Vizier   float64 `json:"vizier"`
	Time     float64 `json:"time"`
}

// GoldCost folds the minor currencies into the gold channel
func GoldCost(c Costs) float64 {
	return c.Gold + c.OliveOil + c.Vizier
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
