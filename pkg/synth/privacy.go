package synth

import "fmt"

// RangeWidth is the bucket width used when generalizing numeric values.
const RangeWidth = 10

type PrivacyOptions struct {
	// HideSensitive removes sensitive columns from the output schema.
	HideSensitive bool
	// PrivacySafeRanges replaces numeric values with their bucket label.
	PrivacySafeRanges bool
}

type Filtered struct {
	Table            Table
	ColumnsIncluded  int
	SensitiveRemoved int
}

// ApplyPrivacy runs suppression and then generalization over a synthesized
// table. The input table is not modified.
func ApplyPrivacy(table Table, columns []Column, opts PrivacyOptions) Filtered {
	out := make(Table, len(table))
	selected, removed := 0, 0

	for _, col := range columns {
		if !col.Selected {
			continue
		}

		selected++

		if opts.HideSensitive && col.Kind == Sensitive {
			removed++
			continue
		}

		values, ok := table[col.Name]
		if !ok {
			continue
		}

		if opts.PrivacySafeRanges && col.Kind == Numeric {
			out[col.Name] = Generalize(values)
			continue
		}

		out[col.Name] = append([]Value(nil), values...)
	}

	return Filtered{
		Table:            out,
		ColumnsIncluded:  selected - removed,
		SensitiveRemoved: removed,
	}
}

// Generalize maps every numeric value to its half-open bucket label, for
// example 47 becomes "40-50". Text values pass through unchanged.
func Generalize(values []Value) []Value {
	out := make([]Value, len(values))

	for i, v := range values {
		n, ok := v.Int()
		if !ok {
			out[i] = v
			continue
		}

		out[i] = Text(BucketLabel(n))
	}

	return out
}

// BucketLabel returns "{lo}-{lo+RangeWidth}" where lo is n rounded down to
// a multiple of RangeWidth.
func BucketLabel(n int64) string {
	lo := floorDiv(n, RangeWidth) * RangeWidth

	return fmt.Sprintf("%d-%d", lo, lo+RangeWidth)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
