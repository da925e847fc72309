package forms

// CoreColumns are the fixed leading columns of every export schema.
var CoreColumns = []string{"name", "longitude", "latitude", "altitude"}

// Group is an ordered collection of records sharing a form label.
// Records keep their source document order.
type Group struct {
	Label   string
	Records []Record
}

// GroupRecords buckets records by form label. Groups are ordered by
// first appearance; within a group, source order is preserved.
// Headless records arrive already carrying the NoForm label, so the
// union of all group sizes equals the input record count.
func GroupRecords(records []Record) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range records {
		i, ok := index[r.Form]
		if !ok {
			i = len(groups)
			index[r.Form] = i
			groups = append(groups, Group{Label: r.Form})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups
}

// Labels returns the group labels in first-appearance order.
func Labels(groups []Group) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	return labels
}

// Find returns the group with the given label.
func Find(groups []Group, label string) (Group, bool) {
	for _, g := range groups {
		if g.Label == label {
			return g, true
		}
	}
	return Group{}, false
}

// Schema computes the group's export column list: the four fixed
// columns followed by the extra keys of the group's FIRST record in
// insertion order. The schema is derived from that single exemplar;
// keys appearing only in later records do not become columns, so
// heterogeneous description tables within one group lose those values
// on export.
func (g Group) Schema() []string {
	schema := make([]string, 0, len(CoreColumns))
	schema = append(schema, CoreColumns...)
	if len(g.Records) > 0 && g.Records[0].Extra != nil {
		schema = append(schema, g.Records[0].Extra.Keys()...)
	}
	return schema
}
