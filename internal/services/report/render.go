// Package report renders registry snapshots into wire metrics and drives
// the periodic export cycle.
package report

import (
	"slices"
	"time"

	"github.com/dinerops/pizzametrics/internal/domain"
)

// Renderer turns a named, typed measurement into a wire metric. Every
// data point carries the configured source attribute; a caller-supplied
// attribute with the same key is overridden.
type Renderer struct {
	source string
	now    func() time.Time
}

func NewRenderer(source string) *Renderer {
	return &Renderer{source: source, now: time.Now}
}

// Int renders an asInt metric of the given type.
func (r *Renderer) Int(name, unit string, typ domain.MetricType, value int64, attrs map[string]string) domain.Metric {
	v := value
	return r.build(name, unit, typ, domain.DataPoint{AsInt: &v}, attrs)
}

// Double renders an asDouble metric of the given type.
func (r *Renderer) Double(name, unit string, typ domain.MetricType, value float64, attrs map[string]string) domain.Metric {
	v := value
	return r.build(name, unit, typ, domain.DataPoint{AsDouble: &v}, attrs)
}

func (r *Renderer) build(name, unit string, typ domain.MetricType, dp domain.DataPoint, attrs map[string]string) domain.Metric {
	dp.TimeUnixNano = r.now().UnixNano()
	dp.Attributes = r.attributes(attrs)

	data := &domain.MetricData{DataPoints: []domain.DataPoint{dp}}
	m := domain.Metric{Name: name, Unit: unit}
	switch typ {
	case domain.Sum:
		data.AggregationTemporality = domain.CumulativeTemporality
		data.IsMonotonic = true
		m.Sum = data
	default:
		m.Gauge = data
	}
	return m
}

func (r *Renderer) attributes(attrs map[string]string) []domain.Attribute {
	merged := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		merged[k] = v
	}
	merged["source"] = r.source

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]domain.Attribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.Attribute{
			Key:   k,
			Value: domain.AttributeValue{StringValue: merged[k]},
		})
	}
	return out
}
