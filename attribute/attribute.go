package attribute

// Key identifies an attribute by namespace and name
type Key struct {
	Namespace string
	Name      string
}

// Attribute is a namespaced piece of metadata carrying an ordered list of
// values, an optional free text hint, and a visibility flag. Hidden
// attributes are excluded from bulk listing but remain retrievable by
// exact key.
type Attribute struct {
	Namespace string
	Name      string
	Values    []Value
	Hint      string
	IsHidden  bool
}

// New creates a new visible attribute with the given values
func New(namespace, name string, values ...Value) Attribute {
	return Attribute{
		Namespace: namespace,
		Name:      name,
		Values:    values,
	}
}

// NewHidden creates a new hidden attribute with the given values
func NewHidden(namespace, name string, values ...Value) Attribute {
	return Attribute{
		Namespace: namespace,
		Name:      name,
		Values:    values,
		IsHidden:  true,
	}
}

// WithHint returns a copy of the attribute with the hint set
func (a Attribute) WithHint(hint string) Attribute {
	a.Hint = hint
	return a
}

// Key returns the attribute's store key
func (a Attribute) Key() Key {
	return Key{
		Namespace: a.Namespace,
		Name:      a.Name,
	}
}

// Clone returns a copy of the attribute with its own values slice. The
// values themselves are immutable and are shared.
func (a Attribute) Clone() Attribute {

	values := make([]Value, len(a.Values))
	copy(values, a.Values)

	a.Values = values

	return a
}
