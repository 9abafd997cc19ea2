// Package metrics folds record collections into dashboard KPIs and chart
// series. Every aggregation is a pure fold and tolerates empty input.
package metrics

import (
	"sort"
	"time"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// Summary holds the scalar KPIs for a (usually pre-filtered) deal set.
type Summary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	AvgDealSize   float64 `json:"avg_deal_size"`
	WinRate       float64 `json:"win_rate"`
	PipelineValue float64 `json:"pipeline_value"`
	DealCount     int     `json:"deal_count"`
}

// Funnel series colors, keyed by stage identity.
const (
	ColorWon  = "green"
	ColorLost = "red"
	ColorOpen = "blue"
)

// FunnelEntry is one stage bucket of the funnel series.
type FunnelEntry struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// GroupRevenueEntry is one industry-group bucket of the revenue series.
type GroupRevenueEntry struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// TrendEntry is one calendar-month bucket of the trailing trend series.
type TrendEntry struct {
	Month string  `json:"month"` // "2006-01"
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Summarize computes the scalar KPIs over deals. Division guards make every
// rate 0 on empty or all-open input.
func Summarize(deals []model.Deal) Summary {
	var s Summary
	var won, lost int
	for _, d := range deals {
		s.TotalRevenue += d.Value
		s.PipelineValue += d.WeightedValue()
		switch d.Stage {
		case model.StageClosedWon:
			won++
		case model.StageClosedLost:
			lost++
		}
	}
	s.DealCount = len(deals)
	if s.DealCount > 0 {
		s.AvgDealSize = s.TotalRevenue / float64(s.DealCount)
	}
	if won+lost > 0 {
		s.WinRate = 100 * float64(won) / float64(won+lost)
	}
	return s
}

// Funnel counts deals per canonical stage, in canonical order. Stage strings
// outside the canonical set are silently excluded.
func Funnel(deals []model.Deal) []FunnelEntry {
	counts := make(map[model.DealStage]int, len(model.DealStageOrder))
	for _, d := range deals {
		if d.Stage.Known() {
			counts[d.Stage]++
		}
	}
	out := make([]FunnelEntry, 0, len(model.DealStageOrder))
	for _, stage := range model.DealStageOrder {
		out = append(out, FunnelEntry{
			Stage: string(stage),
			Count: counts[stage],
			Color: stageColor(stage.Closed(), stage == model.StageClosedWon),
		})
	}
	return out
}

// GroupRevenue sums deal value per industry group, ordered by group name for
// stable chart output. Deals without a group tag fall under "".
func GroupRevenue(deals []model.Deal) []GroupRevenueEntry {
	sums := make(map[string]float64)
	for _, d := range deals {
		sums[d.IndustryGroup] += d.Value
	}
	out := make([]GroupRevenueEntry, 0, len(sums))
	for g, v := range sums {
		out = append(out, GroupRevenueEntry{Group: g, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// MonthlyTrend buckets deals created in the trailing six calendar months
// (including the month of now) by creation month. It operates on whatever
// set it is handed, so upstream filters carry through.
func MonthlyTrend(deals []model.Deal, now time.Time) []TrendEntry {
	type bucket struct {
		count int
		value float64
	}
	buckets := make(map[string]*bucket, 6)

	out := make([]TrendEntry, 0, 6)
	y, m, _ := now.UTC().Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	for i := 0; i < 6; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		buckets[key] = &bucket{}
		out = append(out, TrendEntry{Month: key})
	}

	for _, d := range deals {
		key := d.CreatedAt.UTC().Format("2006-01")
		if b, ok := buckets[key]; ok {
			b.count++
			b.value += d.Value
		}
	}
	for i := range out {
		b := buckets[out[i].Month]
		out[i].Count = b.count
		out[i].Value = b.value
	}
	return out
}

// SummarizeJobs computes the job-side KPIs. Completed and Lost are the win
// and loss equivalents of the deal stages.
func SummarizeJobs(jobs []model.Job) Summary {
	var s Summary
	var won, lost int
	for _, j := range jobs {
		s.TotalRevenue += j.Value
		if !j.Stage.Closed() {
			s.PipelineValue += j.Value
		}
		switch j.Stage {
		case model.JobStageCompleted:
			won++
		case model.JobStageLost:
			lost++
		}
	}
	s.DealCount = len(jobs)
	if s.DealCount > 0 {
		s.AvgDealSize = s.TotalRevenue / float64(s.DealCount)
	}
	if won+lost > 0 {
		s.WinRate = 100 * float64(won) / float64(won+lost)
	}
	return s
}

// JobFunnel counts jobs per canonical job stage.
func JobFunnel(jobs []model.Job) []FunnelEntry {
	counts := make(map[model.JobStage]int, len(model.JobStageOrder))
	for _, j := range jobs {
		counts[j.Stage]++
	}
	out := make([]FunnelEntry, 0, len(model.JobStageOrder))
	for _, stage := range model.JobStageOrder {
		out = append(out, FunnelEntry{
			Stage: string(stage),
			Count: counts[stage],
			Color: stageColor(stage.Closed(), stage == model.JobStageCompleted),
		})
	}
	return out
}

func stageColor(closed, won bool) string {
	switch {
	case won:
		return ColorWon
	case closed:
		return ColorLost
	default:
		return ColorOpen
	}
}
