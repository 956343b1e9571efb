package dom

// Attr is a single attribute. Most attributes live in the default (HTML)
// namespace; foreign content gives xlink:href and friends their own.
type Attr struct {
	Namespace Namespace
	Name      string
	Value     string
}

// AttrList is an ordered attribute collection. Order is the order the
// attributes appeared in the markup; lookups are by name and namespace.
type AttrList []Attr

// Get returns the value of the first attribute with the given name in the
// default namespace, and whether it was present.
func (a AttrList) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Namespace == HTMLNamespace && attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether an attribute with the given name is present.
func (a AttrList) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Clone returns an independent copy of the list.
func (a AttrList) Clone() AttrList {
	if a == nil {
		return nil
	}
	out := make(AttrList, len(a))
	copy(out, a)
	return out
}

// Merge adds every attribute from other that is not already present by name.
// The duplicate html/body start tags fold their attributes into the existing
// element this way.
func (a *AttrList) Merge(other AttrList) {
	for _, attr := range other {
		if !a.has(attr.Namespace, attr.Name) {
			*a = append(*a, attr)
		}
	}
}

// Equal reports whether the two lists hold the same attribute set: same
// length, and every (namespace, name, value) of one present in the other.
// Attribute order does not matter. The Noah's Ark clause compares this way.
func (a AttrList) Equal(other AttrList) bool {
	if len(a) != len(other) {
		return false
	}
	for _, attr := range a {
		found := false
		for _, oattr := range other {
			if attr.Namespace == oattr.Namespace && attr.Name == oattr.Name && attr.Value == oattr.Value {
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

func (a AttrList) has(ns Namespace, name string) bool {
	for _, attr := range a {
		if attr.Namespace == ns && attr.Name == name {
			return true
		}
	}
	return false
}
