// Package generator synthesizes rows of mock data from a column schema.
//
// A Synthesizer fills each row with empty cells and then writes one generated
// value per column descriptor at the descriptor's 1-based position. When two
// descriptors share a position the later one wins.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/leo-tosi/TDG/internal/models"
)

// Source is the subset of *rand.Rand the synthesizer draws from.
type Source interface {
	IntN(n int) int
	Int64N(n int64) int64
	Uint64N(n uint64) uint64
	Uint64() uint64
}

type globalSource struct{}

func (globalSource) IntN(n int) int          { return rand.IntN(n) }
func (globalSource) Int64N(n int64) int64    { return rand.Int64N(n) }
func (globalSource) Uint64N(n uint64) uint64 { return rand.Uint64N(n) }
func (globalSource) Uint64() uint64          { return rand.Uint64() }

// Limits bounds the memory one synthesis may allocate. Zero means unlimited.
type Limits struct {
	MaxColumns    int
	MaxTextLength int
}

// Options configures a Synthesizer. The zero value is usable.
type Options struct {
	// Strict rejects unknown column types and inverted ranges instead of
	// writing empty cells for them.
	Strict bool
	Limits Limits
	Pools  *Pools
	Rand   Source
	Now    func() time.Time
}

type Synthesizer struct {
	strict bool
	limits Limits
	pools  Pools
	rng    Source
	now    func() time.Time
}

func NewSynthesizer(opts Options) *Synthesizer {
	s := &Synthesizer{
		strict: opts.Strict,
		limits: opts.Limits,
		pools:  DefaultPools(),
		rng:    opts.Rand,
		now:    opts.Now,
	}
	if opts.Pools != nil {
		s.pools = *opts.Pools
	}
	if s.rng == nil {
		s.rng = globalSource{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Synthesize produces rowCount rows of totalColumns cells each.
func (s *Synthesizer) Synthesize(totalColumns int, columns []models.ColumnDescriptor, rowCount int) (models.Dataset, error) {
	if rowCount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRowCount, rowCount)
	}
	if err := Validate(totalColumns, columns, s.strict); err != nil {
		return nil, err
	}
	if err := CheckLimits(totalColumns, columns, s.limits); err != nil {
		return nil, err
	}

	data := make(models.Dataset, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		row := make(models.Row, totalColumns)
		for _, col := range columns {
			row[col.Position-1] = s.columnValue(col)
		}
		data = append(data, row)
	}
	return data, nil
}

// SynthesizeSchema is Synthesize for a loaded template.
func (s *Synthesizer) SynthesizeSchema(schema *models.Schema, rowCount int) (models.Dataset, error) {
	return s.Synthesize(schema.TotalColumns, schema.Columns, rowCount)
}

// Synthesize runs a lenient synthesizer with default pools.
func Synthesize(totalColumns int, columns []models.ColumnDescriptor, rowCount int) (models.Dataset, error) {
	return NewSynthesizer(Options{}).Synthesize(totalColumns, columns, rowCount)
}
