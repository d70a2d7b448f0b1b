package geomessage

// Standard field names found in recorded geomessage feeds.
const (
	FieldName   = "_name"
	FieldID     = "_id"
	FieldAction = "_action"
	FieldType   = "_type"
	FieldSIC    = "sic"
)

// Field is one name/value pair in a geomessage.
type Field struct {
	Name  string
	Value string
}

// Message is a single recorded geospatial event: an ordered mapping from
// field name to string value. Field order follows the recorded file, so a
// re-encoded message keeps the shape it was captured in.
//
// Messages are treated as immutable once handed to the playback pipeline;
// derive changed copies with Clone or Rewrite instead of mutating in place.
type Message struct {
	fields []Field
	index  map[string]int
}

// New builds a Message from an ordered field list. A repeated field name
// keeps the first occurrence's position; later occurrences overwrite its
// value.
func New(fields []Field) Message {
	m := Message{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if i, ok := m.index[f.Name]; ok {
			m.fields[i].Value = f.Value
			continue
		}
		m.index[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	return m
}

// Get returns the value of the named field and whether it is present.
func (m Message) Get(name string) (string, bool) {
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.fields[i].Value, true
}

// Names returns the field names in record order.
func (m Message) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the ordered field list.
func (m Message) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Len returns the number of fields.
func (m Message) Len() int {
	return len(m.fields)
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	return New(m.fields)
}

// Map returns the fields as a plain map, losing order. Intended for JSON
// output surfaces (status events, logs), not for re-encoding.
func (m Message) Map() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.Name] = f.Value
	}
	return out
}

// set overwrites the value of an existing field. No-op if the field is
// absent. Callers must own the message (see Rewrite).
func (m Message) set(name, value string) {
	if i, ok := m.index[name]; ok {
		m.fields[i].Value = value
	}
}
