// Package stats derives cycle groupings and aggregate timings from an
// ordered record sequence. Everything here is pure: no I/O, inputs are
// treated as read-only.
package stats

import (
	"sort"

	"uxtrace/internal/model"
)

// GroupCycles partitions records into observe→plan→act cycles.
//
// A new cycle starts at every observe record once the current cycle holds at
// least one record; the first record opens cycle 1 whatever its method, so a
// run beginning mid-cycle keeps its leading partial cycle. Unknown-method
// records attach to the open cycle without forcing a break. Two consecutive
// observes therefore produce two single-record cycles: re-observation, not
// aggregation.
func GroupCycles(records []model.TraceRecord) []model.Cycle {
	if len(records) == 0 {
		return nil
	}

	var cycles []model.Cycle
	var current []model.TraceRecord

	flush := func() {
		if len(current) == 0 {
			return
		}
		cycles = append(cycles, model.Cycle{
			Index:   len(cycles) + 1,
			Records: current,
			Partial: isPartial(current),
		})
		current = nil
	}

	for _, rec := range records {
		if rec.Method == model.MethodObserve && len(current) > 0 {
			flush()
		}
		current = append(current, rec)
	}
	flush()

	return cycles
}

func isPartial(records []model.TraceRecord) bool {
	seen := map[model.Method]bool{}
	for _, rec := range records {
		seen[rec.Method] = true
	}
	return !(seen[model.MethodObserve] && seen[model.MethodPlan] && seen[model.MethodAct])
}

// Aggregate computes per-method and overall statistics. Records with a
// missing duration count toward Count but are excluded from Total, Min, Max
// and Mean so they do not skew the figures.
func Aggregate(records []model.TraceRecord) model.RunStats {
	perMethod := map[model.Method]*model.MethodStats{}
	overall := &model.MethodStats{}

	for _, rec := range records {
		ms, ok := perMethod[rec.Method]
		if !ok {
			ms = &model.MethodStats{Method: rec.Method}
			perMethod[rec.Method] = ms
		}
		accumulate(ms, rec)
		accumulate(overall, rec)
	}

	finalize(overall)

	stats := model.RunStats{Overall: *overall}
	for _, ms := range perMethod {
		finalize(ms)
		stats.PerMethod = append(stats.PerMethod, *ms)
	}
	sort.Slice(stats.PerMethod, func(i, j int) bool {
		return stats.PerMethod[i].Method < stats.PerMethod[j].Method
	})

	return stats
}

func accumulate(ms *model.MethodStats, rec model.TraceRecord) {
	ms.Count++
	if rec.TimeMissing {
		return
	}
	if ms.Known == 0 || rec.Duration < ms.Min {
		ms.Min = rec.Duration
	}
	if ms.Known == 0 || rec.Duration > ms.Max {
		ms.Max = rec.Duration
	}
	ms.Known++
	ms.Total += rec.Duration
}

func finalize(ms *model.MethodStats) {
	if ms.Known > 0 {
		ms.Mean = ms.Total / float64(ms.Known)
	}
}
