package generator

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leo-tosi/TDG/internal/models"
)

const (
	defaultTextLength = 10
	// patterned_number always picks one of ten steps regardless of row count.
	patternSteps = 10
	// random dates reach back at most this far from the generation time.
	maxRandomDateOffset = 10_000_000_000 * time.Millisecond
)

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func (s *Synthesizer) columnValue(col models.ColumnDescriptor) string {
	switch col.Type {
	case models.ColumnFixed:
		return deref(col.Value)
	case models.ColumnRandomNumber:
		return s.randomNumber(col.Start, col.End)
	case models.ColumnPatternedNumber:
		n := col.Start + col.Step*int64(s.rng.IntN(patternSteps))
		return deref(col.Prefix) + strconv.FormatInt(n, 10) + deref(col.Suffix)
	case models.ColumnText:
		length := defaultTextLength
		if col.Length != nil {
			length = *col.Length
		}
		return s.text(col.TextType, length)
	case models.ColumnDate:
		return s.date(col)
	default:
		return ""
	}
}

// randomNumber draws from [start, end] using unsigned arithmetic so ranges
// wider than math.MaxInt64 do not overflow.
func (s *Synthesizer) randomNumber(start, end int64) string {
	if end < start {
		return ""
	}
	width := uint64(end) - uint64(start)
	var offset uint64
	if width == math.MaxUint64 {
		offset = s.rng.Uint64()
	} else {
		offset = s.rng.Uint64N(width + 1)
	}
	return strconv.FormatInt(int64(uint64(start)+offset), 10)
}

func (s *Synthesizer) text(textType string, length int) string {
	if length <= 0 {
		return ""
	}
	pool := s.pools.pool(textType)
	if len(pool) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteRune(pool[s.rng.IntN(len(pool))])
	}
	return b.String()
}

func (s *Synthesizer) date(col models.ColumnDescriptor) string {
	now := s.now()
	switch col.GenerationMethod {
	case models.DateCurrent:
		return formatTimestamp(now)
	case models.DateRandom:
		offset := time.Duration(s.rng.Int64N(int64(maxRandomDateOffset/time.Millisecond))) * time.Millisecond
		return formatTimestamp(now.Add(-offset))
	default:
		if col.SpecificDate != nil && *col.SpecificDate != "" {
			return string(*col.SpecificDate)
		}
		return formatTimestamp(now)
	}
}

func deref(s *models.LooseString) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
