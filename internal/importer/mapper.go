package importer

import (
	"strings"
	"unicode"
)

// AutoMapThreshold is the confidence above which a proposed header mapping is
// accepted without user confirmation.
const AutoMapThreshold = 0.7

// MappingStatus describes how a target field ended up bound.
type MappingStatus string

const (
	StatusUnmapped   MappingStatus = "unmapped"
	StatusAutoMapped MappingStatus = "auto"
	StatusManual     MappingStatus = "manual"
	StatusAutoFilled MappingStatus = "auto-filled" // batch value, no source column
)

// FieldMapping binds one target field to a source header or batch value.
type FieldMapping struct {
	TargetKey  string        `json:"target_key"`
	Header     string        `json:"header,omitempty"`
	Confidence float64       `json:"confidence"`
	Status     MappingStatus `json:"status"`
	BatchValue string        `json:"batch_value,omitempty"`
}

// Bound reports whether the field will produce a value during apply.
func (m FieldMapping) Bound() bool {
	return m.Status == StatusAutoMapped || m.Status == StatusManual || m.Status == StatusAutoFilled
}

// Mapping is the full header-to-schema association for one import.
type Mapping struct {
	schema *Schema
	fields map[string]*FieldMapping
	order  []string
}

// AutoMap scores every source header against every target field and keeps the
// best header per field. Proposals above AutoMapThreshold are accepted;
// the rest stay unmapped pending a manual choice or batch value.
func AutoMap(schema *Schema, headers []string) *Mapping {
	m := &Mapping{
		schema: schema,
		fields: make(map[string]*FieldMapping, len(schema.Fields)),
	}
	for _, f := range schema.Fields {
		fm := &FieldMapping{TargetKey: f.Key, Status: StatusUnmapped}
		for _, h := range headers {
			if s := Score(f, h); s > fm.Confidence {
				fm.Confidence = s
				fm.Header = h
			}
		}
		if fm.Confidence > AutoMapThreshold {
			fm.Status = StatusAutoMapped
		} else {
			fm.Header = ""
		}
		m.fields[f.Key] = fm
		m.order = append(m.order, f.Key)
	}
	return m
}

// SetManual overrides a field with an explicit header choice.
func (m *Mapping) SetManual(targetKey, header string) bool {
	fm, ok := m.fields[targetKey]
	if !ok {
		return false
	}
	field, _ := m.schema.Field(targetKey)
	fm.Header = header
	fm.Confidence = Score(field, header)
	fm.Status = StatusManual
	fm.BatchValue = ""
	return true
}

// SetBatchValue binds a field to a single literal applied to every row, for
// required fields with no usable source column.
func (m *Mapping) SetBatchValue(targetKey, value string) bool {
	fm, ok := m.fields[targetKey]
	if !ok {
		return false
	}
	fm.Header = ""
	fm.Confidence = 0
	fm.Status = StatusAutoFilled
	fm.BatchValue = value
	return true
}

// Field returns the mapping for a target key.
func (m *Mapping) Field(targetKey string) (FieldMapping, bool) {
	fm, ok := m.fields[targetKey]
	if !ok {
		return FieldMapping{}, false
	}
	return *fm, true
}

// Fields returns all field mappings in schema order.
func (m *Mapping) Fields() []FieldMapping {
	out := make([]FieldMapping, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, *m.fields[k])
	}
	return out
}

// Complete reports whether every required target field is bound. This is the
// gate the import may not proceed past.
func (m *Mapping) Complete() bool {
	for _, f := range m.schema.RequiredFields() {
		if fm, ok := m.fields[f.Key]; !ok || !fm.Bound() {
			return false
		}
	}
	return true
}

// MissingRequired lists required target keys that are still unbound.
func (m *Mapping) MissingRequired() []string {
	var out []string
	for _, f := range m.schema.RequiredFields() {
		if fm, ok := m.fields[f.Key]; !ok || !fm.Bound() {
			out = append(out, f.Key)
		}
	}
	return out
}

// mappedHeaders is the set of source headers consumed by bound fields.
func (m *Mapping) mappedHeaders() map[string]bool {
	out := make(map[string]bool, len(m.fields))
	for _, fm := range m.fields {
		if fm.Bound() && fm.Header != "" {
			out[fm.Header] = true
		}
	}
	return out
}

// Score rates a source header against a target field. The rules, strongest
// first: exact normalized match on key or label = 1.0, substring containment
// in either direction = 0.8, synonym hit = the synonym's weight, shared word
// tokens scaled by word count up to 0.5.
func Score(field TargetField, header string) float64 {
	h := normalize(header)
	if h == "" {
		return 0
	}
	key := normalize(field.Key)
	label := normalize(field.Label)

	if h == key || (label != "" && h == label) {
		return 1.0
	}

	best := 0.0
	if strings.Contains(h, key) || strings.Contains(key, h) {
		best = 0.8
	}
	for _, syn := range field.Synonyms {
		if strings.Contains(h, normalize(syn.Text)) && syn.Weight > best {
			best = syn.Weight
		}
	}
	if s := tokenOverlap(h, key, label); s > best {
		best = s
	}
	return best
}

// tokenOverlap scores shared words between header and target, scaled so a
// partial word match can never outrank containment or a synonym.
func tokenOverlap(header, key, label string) float64 {
	ht := tokenSet(header)
	tt := tokenSet(key)
	for w := range tokenSet(label) {
		tt[w] = true
	}
	if len(ht) == 0 || len(tt) == 0 {
		return 0
	}

	shared := 0
	for w := range ht {
		if tt[w] {
			shared++
		}
	}
	max := len(ht)
	if len(tt) > max {
		max = len(tt)
	}
	return 0.5 * float64(shared) / float64(max)
}

func tokenSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// normalize lowercases and replaces every non-alphanumeric run with a single
// space, so "Deal_Name", "deal-name" and "Deal Name" compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}
