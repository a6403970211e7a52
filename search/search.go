package search

// Record is the unit of search: one note with its two text fields.
type Record struct {
	ID     string
	FieldA string
	FieldB string
}

// Text is the combined blob that gets indexed and scored.
func (r Record) Text() string {
	return r.FieldA + " " + r.FieldB
}

// Hit is a ranked record. The record's fields are promoted.
type Hit struct {
	Record
	Score float64
}

type Hits []Hit

// IDs returns the record ids in rank order.
func (h Hits) IDs() []string {
	ids := make([]string, len(h))
	for i, hit := range h {
		ids[i] = hit.Record.ID
	}
	return ids
}

// Records returns the records in rank order.
func (h Hits) Records() []Record {
	records := make([]Record, len(h))
	for i, hit := range h {
		records[i] = hit.Record
	}
	return records
}

type SearchResult struct {
	Query string
	Err   error
	Hits  Hits
}

// Searching reports whether the result belongs to an active search.
// An empty query means "not searching", which is different from a search
// that matched nothing.
func (r SearchResult) Searching() bool {
	return r.Query != ""
}

// The structural index over the token space of all records.
type StructuralIndex interface {
	Rebuild(records []Record) error                   // Replace the indexed set with records.
	Search(query string, limit int) ([]string, error) // Ids of records sharing tokens with query.
	Len() int                                         // Number of indexed records.
	Close() error                                     // Release the index.
}
