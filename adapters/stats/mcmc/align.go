package mcmc

import (
	"logstat/domain/stats"
	"logstat/internal/errors"
)

// Align merges the stats tables of one or more runs into a report.
//
// A single run is passed through in declared order. With several runs only
// the variables present in every run are kept, in the first run's order, and
// each contributes one row per run; only the first row of such a group is
// labelled. When the runs share no variable at all, every run's table is
// reported as its own consecutive block instead and Shared is false.
func Align(tables []*stats.StatsTable) (*stats.AlignedReport, error) {
	if len(tables) == 0 {
		return nil, errors.EmptyInput("no runs to align")
	}

	report := &stats.AlignedReport{Runs: len(tables), Shared: true}
	if len(tables) == 1 {
		appendRun(report, tables[0], 0)
		return report, nil
	}

	common := sharedNames(tables)
	if len(common) == 0 {
		report.Shared = false
		for run, table := range tables {
			appendRun(report, table, run)
		}
		return report, nil
	}

	// iterate the first run, not the set, so the order is deterministic
	for _, name := range tables[0].Names {
		if _, ok := common[name]; !ok {
			continue
		}
		for run, table := range tables {
			row, _ := table.Lookup(name)
			label := ""
			if run == 0 {
				label = string(name)
			}
			report.Rows = append(report.Rows, stats.ReportRow{
				Label:    label,
				Variable: name,
				Run:      run,
				Stats:    row,
			})
		}
	}
	return report, nil
}

func appendRun(report *stats.AlignedReport, table *stats.StatsTable, run int) {
	for i, name := range table.Names {
		report.Rows = append(report.Rows, stats.ReportRow{
			Label:    string(name),
			Variable: name,
			Run:      run,
			Stats:    table.Rows[i],
		})
	}
}

// sharedNames returns the variables present in every table
func sharedNames(tables []*stats.StatsTable) map[stats.VariableName]struct{} {
	common := make(map[stats.VariableName]struct{}, len(tables[0].Names))
	for _, name := range tables[0].Names {
		common[name] = struct{}{}
	}
	for _, table := range tables[1:] {
		present := make(map[stats.VariableName]struct{}, len(table.Names))
		for _, name := range table.Names {
			present[name] = struct{}{}
		}
		for name := range common {
			if _, ok := present[name]; !ok {
				delete(common, name)
			}
		}
	}
	return common
}
