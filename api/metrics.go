package api

import (
	"time"

	"github.com/maruel/corectl/schema"
)

// MetricsCollection describes a metric the server collects.
type MetricsCollection struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

// MetricsCollectionList is the response for GET /api/v3/metrics.
type MetricsCollectionList struct {
	Data []MetricsCollection `json:"data"`
}

// MetricsQuery is the request body for POST /api/v3/metrics.
type MetricsQuery struct {
	TimerangeSec int64                `json:"timerange_sec,omitempty"`
	IntervalSec  int64                `json:"interval_sec,omitempty"`
	Metrics      []MetricsQueryMetric `json:"metrics"`
}

// MetricsQueryMetric selects a metric, optionally filtered by labels.
type MetricsQueryMetric struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

// MetricsResponse is the response for POST /api/v3/metrics.
type MetricsResponse struct {
	TimerangeSec int64            `json:"timerange_sec"`
	IntervalSec  int64            `json:"interval_sec"`
	Metrics      []MetricsMonitor `json:"metrics"`
}

// MetricsMonitor is the series of one metric.
//
// Example:
//
//	{"labels":{"core":"..."},"name":"mem_total","values":[[1662502375,2621939712]]}
type MetricsMonitor struct {
	Labels map[string]string  `json:"labels"`
	Name   string             `json:"name"`
	Values [][]schema.Variant `json:"values"` // [timestamp, value]
}

// Sample is a single point of a series.
type Sample struct {
	Time  time.Time
	Value float64
}

// Samples returns the well-formed [timestamp, value] pairs of the series.
func (m *MetricsMonitor) Samples() []Sample {
	out := make([]Sample, 0, len(m.Values))
	for _, v := range m.Values {
		if len(v) != 2 {
			continue
		}
		ts, ok1 := v[0].Float()
		val, ok2 := v[1].Float()
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Sample{Time: time.Unix(int64(ts), 0), Value: val})
	}
	return out
}

func init() {
	registry.MustRegister(
		&schema.Record{Name: "MetricsCollection", Fields: []schema.Field{
			schema.Required("name", schema.String()),
			schema.Opt("description", schema.String()),
			schema.Opt("labels", schema.List(schema.String())),
		}},
		schema.Collection("MetricsCollectionList", "MetricsCollection"),
		&schema.Record{Name: "MetricsQuery", Fields: []schema.Field{
			schema.Opt("timerange_sec", schema.Int()),
			schema.Opt("interval_sec", schema.Int()),
			schema.Required("metrics", schema.List(schema.Ref("MetricsQueryMetric"))),
		}},
		&schema.Record{Name: "MetricsQueryMetric", Fields: []schema.Field{
			schema.Required("name", schema.String()),
			schema.Opt("labels", schema.Map(schema.String())),
		}},
		&schema.Record{Name: "MetricsResponse", Fields: []schema.Field{
			schema.Opt("timerange_sec", schema.Int()),
			schema.Opt("interval_sec", schema.Int()),
			schema.Required("metrics", schema.List(schema.Ref("MetricsMonitor"))),
		}},
		&schema.Record{Name: "MetricsMonitor", Fields: []schema.Field{
			schema.Opt("labels", schema.Map(schema.String())),
			schema.Required("name", schema.String()),
			schema.Opt("values", schema.List(schema.List(schema.Union(schema.Int(), schema.Float())))),
		}},
	)
}
