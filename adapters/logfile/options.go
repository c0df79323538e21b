package logfile

import (
	"slices"
	"unicode/utf8"

	"logstat/internal/errors"
)

// Options controls how log files are split and which columns are kept
type Options struct {
	Sep     string   // single-character field delimiter
	Comment string   // lines starting with this prefix are ignored; empty disables
	State   string   // iteration-index column, never reported
	Include []string // keep only these columns, in this order
	Exclude []string // drop these columns; takes precedence over Include
}

// DefaultOptions matches the tab-delimited logs written by most phylogenetic samplers
func DefaultOptions() Options {
	return Options{Sep: "\t", Comment: "#", State: "state"}
}

func (o Options) validate() error {
	if utf8.RuneCountInString(o.Sep) != 1 {
		return errors.InvalidArgument("delimiter must be a single character, got %q", o.Sep)
	}
	if o.Sep == "\n" || o.Sep == "\r" || o.Sep == "\"" {
		return errors.InvalidArgument("delimiter %q is not allowed", o.Sep)
	}
	return nil
}

// selectColumns returns the header indices to keep, in report order.
// The State column is dropped in every mode; a missing State column is fine.
func (o Options) selectColumns(header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	switch {
	case len(o.Exclude) > 0:
		for _, name := range o.Exclude {
			if _, ok := index[name]; !ok {
				return nil, errors.InvalidArgument("excluded column %q not found", name)
			}
		}
		return keepExcept(header, append([]string{o.State}, o.Exclude...)), nil

	case len(o.Include) > 0:
		var columns []int
		for _, name := range o.Include {
			i, ok := index[name]
			if !ok {
				return nil, errors.InvalidArgument("included column %q not found", name)
			}
			if name == o.State || slices.Contains(columns, i) {
				continue
			}
			columns = append(columns, i)
		}
		return columns, nil

	default:
		return keepExcept(header, []string{o.State}), nil
	}
}

func keepExcept(header []string, drop []string) []int {
	var columns []int
	for i, h := range header {
		if !slices.Contains(drop, h) {
			columns = append(columns, i)
		}
	}
	return columns
}
