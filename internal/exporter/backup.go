package exporter

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// Backup is the portable dump of the dashboard state. The shape is written
// and read verbatim; restore replaces everything wholesale.
type Backup struct {
	ClientLeaders []model.ClientLeader `json:"clientLeaders"`
	Deals         []model.Deal         `json:"deals"`
}

// WriteBackup serializes the backup document.
func WriteBackup(w io.Writer, leaders []model.ClientLeader, deals []model.Deal) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(Backup{ClientLeaders: leaders, Deals: deals})
	return eris.Wrap(err, "exporter: encode backup")
}

// ReadBackup parses a backup document. Beyond JSON well-formedness there is
// no schema validation; the caller replaces all state with what comes back.
func ReadBackup(r io.Reader) (*Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, eris.Wrap(err, "exporter: decode backup")
	}
	return &b, nil
}
