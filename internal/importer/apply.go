package importer

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// ApplyReport counts the outcome of transforming rows into deals.
type ApplyReport struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Errored    int `json:"errored"`
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Apply transforms every source row through the confirmed mapping into deals.
// Batch values substitute for fields bound to a literal. Rows whose name
// duplicates an existing deal or an earlier row are skipped and counted;
// rows that yield no name at all count as errors. Source columns no mapping
// consumed land in Custom.Extra instead of being dropped.
func Apply(t *Table, m *Mapping, existing []model.Deal) ([]model.Deal, ApplyReport) {
	var rep ApplyReport

	seen := make(map[string]bool, len(existing)+len(t.Rows))
	for _, d := range existing {
		seen[strings.ToLower(d.Name)] = true
	}
	mapped := m.mappedHeaders()

	var out []model.Deal
	for _, row := range t.Rows {
		deal, ok := buildDeal(row, m)
		if !ok {
			rep.Errored++
			continue
		}
		key := strings.ToLower(deal.Name)
		if seen[key] {
			rep.Duplicates++
			continue
		}
		seen[key] = true

		for _, h := range t.Headers {
			if mapped[h] {
				continue
			}
			if v := row.Get(h); v != "" {
				if deal.Custom.Extra == nil {
					deal.Custom.Extra = make(map[string]string)
				}
				deal.Custom.Extra[h] = v
			}
		}

		out = append(out, deal)
		rep.Imported++
	}
	return out, rep
}

func buildDeal(row Row, m *Mapping) (model.Deal, bool) {
	var d model.Deal

	d.Name = strings.TrimSpace(fieldValue(row, m, "name"))
	if d.Name == "" {
		return d, false
	}

	d.Value = parseMoney(fieldValue(row, m, "value"))
	if d.Value < 0 {
		d.Value = 0
	}

	d.Stage = model.DealStage(strings.TrimSpace(fieldValue(row, m, "stage")))
	if d.Stage == "" {
		d.Stage = model.StageLead
	}

	prob, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(fieldValue(row, m, "probability")), "%"))
	d.Probability = model.ClampProbability(d.Stage, prob)

	d.LeaderID = strings.TrimSpace(fieldValue(row, m, "client_leader"))
	if g := strings.TrimSpace(fieldValue(row, m, "industry_group")); g != "" {
		d.IndustryGroup = titleCaser.String(strings.ToLower(g))
	}
	if created := parseDate(fieldValue(row, m, "created_date")); !created.IsZero() {
		d.CreatedAt = created
	}
	if close := parseDate(fieldValue(row, m, "expected_close_date")); !close.IsZero() {
		d.ExpectedClose = close.Format(model.DateLayout)
	}
	d.Notes = fieldValue(row, m, "notes")
	d.Custom.Priority = strings.TrimSpace(fieldValue(row, m, "priority"))
	d.Custom.Source = strings.TrimSpace(fieldValue(row, m, "source"))
	d.Custom.Competitor = strings.TrimSpace(fieldValue(row, m, "competitor"))
	return d, true
}

func fieldValue(row Row, m *Mapping, targetKey string) string {
	fm, ok := m.Field(targetKey)
	if !ok || !fm.Bound() {
		return ""
	}
	if fm.Status == StatusAutoFilled {
		return fm.BatchValue
	}
	return row.Get(fm.Header)
}

// parseMoney accepts "1234.5", "$1,234.50" and similar.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
