package synth

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const DefaultEmailDomain = "aleo"

var (
	namePool = []string{
		"James Wilson", "Sarah Chen", "Michael Brown", "Emily Davis", "David Lee",
		"Anna Martinez", "Robert Taylor", "Lisa Anderson", "John Smith", "Maria Garcia",
	}
	phonePool      = []string{"555-0100", "555-0101", "555-0102", "555-0103", "555-0104"}
	departmentPool = []string{"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations"}
	countryPool    = []string{"USA", "Canada", "UK", "Germany", "France", "Japan", "Australia"}
)

// Rand is the source of randomness for the non-deterministic branches.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Synthesizer produces synthetic values. Cyclic and index-derived values
// depend only on the row index; numeric filler draws from the random
// source and is not reproducible across runs unless the source is seeded.
//
// A Synthesizer is not safe for concurrent use, every generation run
// creates its own.
type Synthesizer struct {
	rng         Rand
	emailDomain string
}

type Option func(*Synthesizer)

func WithRand(r Rand) Option {
	return func(s *Synthesizer) {
		s.rng = r
	}
}

func WithEmailDomain(domain string) Option {
	return func(s *Synthesizer) {
		if domain != "" {
			s.emailDomain = domain
		}
	}
}

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		emailDomain: DefaultEmailDomain,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Value returns the synthetic value for one cell.
func (s *Synthesizer) Value(column string, kind Kind, row int) Value {
	name := strings.ToLower(column)

	switch kind {
	case Sensitive:
		switch {
		case strings.Contains(name, "name"):
			return Text(namePool[row%len(namePool)])
		case strings.Contains(name, "email"):
			return Text(fmt.Sprintf("synth_%d@privacy.%s", row, s.emailDomain))
		case strings.Contains(name, "phone"):
			return Text(phonePool[row%len(phonePool)])
		default:
			return Text(fmt.Sprintf("[REDACTED-%d]", row))
		}
	case Numeric:
		switch {
		case strings.Contains(name, "id"):
			return Number(int64(row) + 1)
		case strings.Contains(name, "age"):
			return Number(int64(20 + s.rng.IntN(50)))
		case strings.Contains(name, "salary"):
			return Number(int64(30000 + s.rng.IntN(120000)))
		default:
			return Number(int64(s.rng.IntN(1000)))
		}
	case Categorical:
		switch {
		case strings.Contains(name, "department"):
			return Text(departmentPool[row%len(departmentPool)])
		case strings.Contains(name, "country"):
			return Text(countryPool[row%len(countryPool)])
		default:
			return Text(fmt.Sprintf("Category_%d", (row%5)+1))
		}
	}

	return Text(fmt.Sprintf("Value_%d", row))
}

// Table synthesizes rows values for every selected column. The original
// data is never consulted, only the column names and kinds.
func (s *Synthesizer) Table(columns []Column, rows int) Table {
	table := make(Table, len(columns))

	for _, col := range columns {
		if !col.Selected {
			continue
		}

		values := make([]Value, rows)
		for i := 0; i < rows; i++ {
			values[i] = s.Value(col.Name, col.Kind, i)
		}

		table[col.Name] = values
	}

	return table
}
