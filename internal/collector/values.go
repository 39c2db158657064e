package collector

// Values is a field-name → value mapping that preserves insertion order,
// which collection keeps equal to schema declaration order.
type Values struct {
	names  []string
	byName map[string]string
}

// NewValues returns an empty mapping.
func NewValues() *Values {
	return &Values{byName: make(map[string]string)}
}

// Set records value under name, appending name on first insert.
func (v *Values) Set(name, value string) {
	if _, ok := v.byName[name]; !ok {
		v.names = append(v.names, name)
	}
	v.byName[name] = value
}

// Get returns the value for name and whether it was recorded.
func (v *Values) Get(name string) (string, bool) {
	val, ok := v.byName[name]
	return val, ok
}

// Names returns the recorded field names in insertion order.
func (v *Values) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of recorded fields.
func (v *Values) Len() int {
	return len(v.names)
}

// Map returns a plain map copy of the values.
func (v *Values) Map() map[string]string {
	out := make(map[string]string, len(v.byName))
	for k, val := range v.byName {
		out[k] = val
	}
	return out
}
