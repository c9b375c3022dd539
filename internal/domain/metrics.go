package domain

// MetricType selects the aggregation family of a rendered metric.
type MetricType string

const (
	// Sum is a cumulative, monotonically non-decreasing counter.
	Sum MetricType = "sum"
	// Gauge reports the instantaneous value at capture time.
	Gauge MetricType = "gauge"
)

// ValueKind selects how a data point carries its numeric value.
type ValueKind string

const (
	// AsInt carries an int64 value.
	AsInt ValueKind = "asInt"
	// AsDouble carries a float64 value.
	AsDouble ValueKind = "asDouble"
)

// CumulativeTemporality is the only temporality sums use: every report
// carries the running total since process start.
const CumulativeTemporality = "AGGREGATION_TEMPORALITY_CUMULATIVE"

// Metric is one rendered measurement. Exactly one of Sum or Gauge is set,
// keyed on the wire by the metric type.
type Metric struct {
	Sum   *MetricData `json:"sum,omitempty"`
	Gauge *MetricData `json:"gauge,omitempty"`
	Name  string      `json:"name"`
	Unit  string      `json:"unit"`
}

// Data returns whichever of Sum or Gauge is populated.
func (m Metric) Data() *MetricData {
	if m.Sum != nil {
		return m.Sum
	}
	return m.Gauge
}

// MetricData holds the data points of a metric plus the sum-only
// aggregation flags.
type MetricData struct {
	AggregationTemporality string      `json:"aggregationTemporality,omitempty"`
	DataPoints             []DataPoint `json:"dataPoints"`
	IsMonotonic            bool        `json:"isMonotonic,omitempty"`
}

// DataPoint is a single timestamped value. Exactly one of AsInt or
// AsDouble is set, keyed on the wire by the value kind.
type DataPoint struct {
	AsInt        *int64      `json:"asInt,omitempty"`
	AsDouble     *float64    `json:"asDouble,omitempty"`
	TimeUnixNano int64       `json:"timeUnixNano"`
	Attributes   []Attribute `json:"attributes"`
}

// Attribute is a string-valued key/value pair attached to a data point.
type Attribute struct {
	Key   string         `json:"key"`
	Value AttributeValue `json:"value"`
}

// AttributeValue wraps the attribute string in the wire schema.
type AttributeValue struct {
	StringValue string `json:"stringValue"`
}

// Envelope is the transport body of one export push.
type Envelope struct {
	ResourceMetrics []ResourceMetrics `json:"resourceMetrics"`
}

type ResourceMetrics struct {
	ScopeMetrics []ScopeMetrics `json:"scopeMetrics"`
}

type ScopeMetrics struct {
	Metrics []Metric `json:"metrics"`
}

// Wrap builds the transport envelope around one batch of metrics.
func Wrap(metrics []Metric) Envelope {
	return Envelope{
		ResourceMetrics: []ResourceMetrics{
			{ScopeMetrics: []ScopeMetrics{{Metrics: metrics}}},
		},
	}
}
