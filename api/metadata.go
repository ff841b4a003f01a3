package api

import "github.com/maruel/corectl/schema"

// Metadata is a value stored under a metadata key, globally or per process.
// The server returns the bare value; it is exposed as Data.
//
// Data is resolved in this order: int, float, string, mapping, list.
type Metadata struct {
	Data schema.Variant `json:"data"`
}

// Log is the response for GET /api/v3/log. Each entry is either a formatted
// line or a structured entry.
type Log struct {
	Data []schema.Variant `json:"data"`
}

// Lines returns the entries that are plain strings.
func (l *Log) Lines() []string {
	var out []string
	for _, e := range l.Data {
		if s, ok := e.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	registry.MustRegister(
		&schema.Record{Name: "Metadata", Wrapped: true, Fields: []schema.Field{
			schema.Required("data", schema.Union(
				schema.Int(),
				schema.Float(),
				schema.String(),
				schema.Object(),
				schema.List(schema.Any()),
			)),
		}},
		&schema.Record{Name: "Log", Wrapped: true, Fields: []schema.Field{
			schema.Required("data", schema.List(schema.Union(schema.String(), schema.Object()))),
		}},
	)
}
