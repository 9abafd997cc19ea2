// Package exporter renders deal collections to CSV and XLSX and handles the
// JSON backup document.
package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// Columns is the fixed export column order. Import round-trips rely on these
// header names scoring as exact matches in the field mapper.
var Columns = []string{
	"Deal Name", "Value", "Stage", "Client Leader", "Industry Group",
	"Created Date", "Expected Close Date", "Probability", "Notes",
}

// WriteCSV writes deals in the fixed column order. Leaders are rendered by
// name when the referenced leader is known, otherwise the raw id survives.
func WriteCSV(w io.Writer, deals []model.Deal, leaders []model.ClientLeader) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "exporter: write header")
	}
	names := leaderNames(leaders)
	for _, d := range deals {
		if err := cw.Write(dealRecord(d, names)); err != nil {
			return eris.Wrapf(err, "exporter: write deal %s", d.ID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "exporter: flush csv")
}

func dealRecord(d model.Deal, leaderName map[string]string) []string {
	created := ""
	if !d.CreatedAt.IsZero() {
		created = d.CreatedAt.UTC().Format(model.DateLayout)
	}
	leader := d.LeaderID
	if name, ok := leaderName[d.LeaderID]; ok {
		leader = name
	}
	return []string{
		d.Name,
		strconv.FormatFloat(d.Value, 'f', -1, 64),
		string(d.Stage),
		leader,
		d.IndustryGroup,
		created,
		d.ExpectedClose,
		strconv.Itoa(d.Probability),
		d.Notes,
	}
}

func leaderNames(leaders []model.ClientLeader) map[string]string {
	names := make(map[string]string, len(leaders))
	for _, l := range leaders {
		names[l.ID] = l.Name
	}
	return names
}
