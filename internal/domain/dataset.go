package domain

// Dataset is the read-only input of a run: the normalized records and the
// country boundaries. It is built once and passed to every stage.
type Dataset struct {
	Records    []Record
	Boundaries []Boundary
}

// BoundaryNames returns the set of canonical boundary names.
func (d *Dataset) BoundaryNames() map[string]struct{} {
	names := make(map[string]struct{}, len(d.Boundaries))
	for _, b := range d.Boundaries {
		names[b.Name] = struct{}{}
	}
	return names
}
