package importer

import (
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// State is a step of the import wizard. Transitions only move forward through
// the session methods; Back discards later-state artifacts explicitly.
type State string

const (
	StateFileSelected State = "file-selected"
	StatePreviewed    State = "previewed"
	StateValidated    State = "validated"
	StateMapped       State = "mapped"
	StateConfirmed    State = "confirmed"
	StateImported     State = "imported"
)

var stateOrder = []State{
	StateFileSelected, StatePreviewed, StateValidated,
	StateMapped, StateConfirmed, StateImported,
}

func stateIndex(s State) int {
	for i, v := range stateOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Session drives one CSV import through the wizard states.
type Session struct {
	state   State
	schema  *Schema
	table   *Table
	report  Report
	mapping *Mapping
}

// NewSession applies the blocking file gate and parses the CSV. On success
// the session is in StateFileSelected with the table loaded.
func NewSession(filename string, size int64, r io.Reader, schema *Schema) (*Session, error) {
	if err := CheckFile(filename, size); err != nil {
		return nil, err
	}
	table, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		schema = DealSchema()
	}
	return &Session{state: StateFileSelected, schema: schema, table: table}, nil
}

// State returns the current wizard state.
func (s *Session) State() State { return s.state }

// Headers exposes the parsed header row.
func (s *Session) Headers() []string { return s.table.Headers }

// Preview returns the first n rows and advances to StatePreviewed.
func (s *Session) Preview(n int) []Row {
	if s.state == StateFileSelected {
		s.state = StatePreviewed
	}
	return s.table.Preview(n)
}

// Validate runs schema validation and advances to StateValidated. The wizard
// may not continue past a failed usable-rows gate.
func (s *Session) Validate() (Report, error) {
	if stateIndex(s.state) < stateIndex(StatePreviewed) {
		return Report{}, eris.Errorf("importer: cannot validate from state %q", s.state)
	}
	s.report = Validate(s.table, s.schema)
	s.state = StateValidated
	if !s.report.CanContinue {
		return s.report, eris.Errorf("importer: only %d of %d rows usable", s.report.ValidRows, s.report.TotalRows)
	}
	return s.report, nil
}

// AutoMap proposes header bindings and advances to StateMapped. The result
// may still have unmapped required fields; Confirm enforces the gate.
func (s *Session) AutoMap() (*Mapping, error) {
	if stateIndex(s.state) < stateIndex(StateValidated) {
		return nil, eris.Errorf("importer: cannot map from state %q", s.state)
	}
	s.mapping = AutoMap(s.schema, s.table.Headers)
	s.state = StateMapped
	return s.mapping, nil
}

// Mapping returns the current mapping for manual adjustment, or nil before
// AutoMap has run.
func (s *Session) Mapping() *Mapping { return s.mapping }

// Confirm locks the mapping. It fails while any required field is unbound.
func (s *Session) Confirm() error {
	if s.state != StateMapped {
		return eris.Errorf("importer: cannot confirm from state %q", s.state)
	}
	if !s.mapping.Complete() {
		return eris.Errorf("importer: required fields unmapped: %v", s.mapping.MissingRequired())
	}
	s.state = StateConfirmed
	return nil
}

// Apply transforms all rows through the confirmed mapping and advances to
// StateImported.
func (s *Session) Apply(existing []model.Deal) ([]model.Deal, ApplyReport, error) {
	if s.state != StateConfirmed {
		return nil, ApplyReport{}, eris.Errorf("importer: cannot apply from state %q", s.state)
	}
	deals, rep := Apply(s.table, s.mapping, existing)
	s.state = StateImported
	return deals, rep, nil
}

// Back returns the session to an earlier state, discarding everything
// computed after it. Moving forward or sideways is rejected.
func (s *Session) Back(target State) error {
	ti, ci := stateIndex(target), stateIndex(s.state)
	if ti < 0 || ti >= ci {
		return eris.Errorf("importer: cannot go back from %q to %q", s.state, target)
	}
	if ti < stateIndex(StateMapped) {
		s.mapping = nil
	}
	if ti < stateIndex(StateValidated) {
		s.report = Report{}
	}
	s.state = target
	return nil
}
