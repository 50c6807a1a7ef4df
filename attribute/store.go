package attribute

// Filter restricts attribute listing. A field left unset matches everything
// on that axis, set fields combine with AND semantics. Hidden attributes
// are skipped unless IncludeHidden is set.
type Filter struct {
	Namespace     *string
	Names         []string
	Hint          *string
	IncludeHidden bool
}

// matches reports whether the attribute passes the filter
func (f Filter) matches(a Attribute) bool {

	if a.IsHidden && !f.IncludeHidden {
		return false
	}

	if f.Namespace != nil && a.Namespace != *f.Namespace {
		return false
	}

	if f.Hint != nil && a.Hint != *f.Hint {
		return false
	}

	if len(f.Names) > 0 {
		found := false

		for _, name := range f.Names {
			if a.Name == name {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// Store holds attributes keyed by (namespace, name) and preserves insertion
// order for listing. Overwriting an attribute keeps its original position.
// The zero value is ready to use. A Store is not safe for concurrent use,
// the owning frame or object serializes access to it.
type Store struct {
	order []Key
	items map[Key]Attribute
}

// NewStore creates an empty attribute store
func NewStore() *Store {
	return &Store{}
}

// Set inserts the attribute or overwrites the one sharing its key, atomically
// replacing values, hint and visibility. The previous attribute is returned
// when one was replaced.
func (s *Store) Set(a Attribute) (Attribute, bool) {

	if s.items == nil {
		s.items = make(map[Key]Attribute)
	}

	key := a.Key()
	prev, existed := s.items[key]

	if !existed {
		s.order = append(s.order, key)
	}

	s.items[key] = a.Clone()

	return prev, existed
}

// Get returns a copy of the attribute stored under the exact key, including
// hidden attributes
func (s *Store) Get(namespace, name string) (Attribute, bool) {

	a, ok := s.items[Key{Namespace: namespace, Name: name}]

	if !ok {
		return Attribute{}, false
	}

	return a.Clone(), true
}

// Delete removes the attribute stored under the exact key and returns it
func (s *Store) Delete(namespace, name string) (Attribute, bool) {

	key := Key{Namespace: namespace, Name: name}
	a, ok := s.items[key]

	if !ok {
		return Attribute{}, false
	}

	delete(s.items, key)

	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return a, true
}

// Len returns the number of stored attributes including hidden ones
func (s *Store) Len() int {
	return len(s.items)
}

// Clear removes all attributes
func (s *Store) Clear() {
	s.order = nil
	s.items = nil
}

// Keys returns the keys of all visible attributes in insertion order
func (s *Store) Keys() []Key {
	return s.Find(Filter{})
}

// AllKeys returns the keys of all attributes, hidden included, in insertion
// order
func (s *Store) AllKeys() []Key {
	return s.Find(Filter{IncludeHidden: true})
}

// Find returns the keys of all attributes matched by the filter in
// insertion order
func (s *Store) Find(f Filter) []Key {

	var keys []Key

	for _, key := range s.order {
		if f.matches(s.items[key]) {
			keys = append(keys, key)
		}
	}

	return keys
}

// DeleteMany removes all attributes matched by the filter and returns their
// keys in listing order
func (s *Store) DeleteMany(f Filter) []Key {

	keys := s.Find(f)

	for _, key := range keys {
		s.Delete(key.Namespace, key.Name)
	}

	return keys
}

// Clone returns a deep copy of the store
func (s *Store) Clone() *Store {

	clone := &Store{}

	for _, key := range s.order {
		clone.Set(s.items[key])
	}

	return clone
}
