package importer

import (
	"fmt"
	"strings"
)

// coverageThreshold is the minimum Score at which a header is considered to
// cover a required field during pre-mapping validation. It matches the floor
// of the synonym weight range.
const coverageThreshold = 0.6

// Report summarizes validation of a parsed table against the target schema.
// Everything here is advisory except CanContinue, which gates the wizard.
type Report struct {
	TotalRows     int      `json:"total_rows"`
	ValidRows     int      `json:"valid_rows"`
	Duplicates    int      `json:"duplicates"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	KeyHeader     string   `json:"key_header,omitempty"`
	CanContinue   bool     `json:"can_continue"`
}

// Validate checks required-field coverage among the headers and scans rows
// for duplicates and minimally usable data. Missing coverage produces
// warnings, not failures; the hard gate is at mapping completion.
func Validate(t *Table, schema *Schema) Report {
	rep := Report{TotalRows: len(t.Rows)}

	for _, f := range schema.RequiredFields() {
		if !covered(f, t.Headers) {
			rep.MissingFields = append(rep.MissingFields, f.Key)
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("no column matches required field %q; map it manually or set a batch value", f.Key))
		}
	}

	rep.KeyHeader = uniqueKeyHeader(t.Headers, schema)

	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		if usable(row) {
			rep.ValidRows++
		}
		if rep.KeyHeader == "" {
			continue
		}
		key := strings.ToLower(row.Get(rep.KeyHeader))
		if key == "" {
			continue
		}
		if seen[key] {
			rep.Duplicates++
		}
		seen[key] = true
	}

	if rep.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%d duplicate rows detected (keyed on %q)", rep.Duplicates, rep.KeyHeader))
	}

	// At least half the rows must carry minimally usable data to continue.
	rep.CanContinue = rep.TotalRows > 0 && rep.ValidRows*2 >= rep.TotalRows
	return rep
}

// covered reports whether any header plausibly supplies the field, using
// the same substring-both-ways plus synonym rules as the mapper.
func covered(field TargetField, headers []string) bool {
	for _, h := range headers {
		if Score(field, h) >= coverageThreshold {
			return true
		}
	}
	return false
}

// uniqueKeyHeader picks the column duplicates are keyed on: an explicit
// id-like column when present, otherwise the best name/company match.
func uniqueKeyHeader(headers []string, schema *Schema) string {
	for _, h := range headers {
		n := normalize(h)
		if n == "id" || strings.HasSuffix(n, " id") {
			return h
		}
	}
	nameField, ok := schema.Field("name")
	if !ok {
		return ""
	}
	best, bestScore := "", 0.0
	for _, h := range headers {
		if s := Score(nameField, h); s > bestScore {
			best, bestScore = h, s
		}
	}
	if bestScore >= coverageThreshold {
		return best
	}
	return ""
}

// usable reports whether the row has any non-empty cell. Rows failing this
// count against the continue gate but are never a hard error.
func usable(row Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
