package report

import (
	"testing"
	"time"

	"github.com/dinerops/pizzametrics/internal/domain"
)

func fixedRenderer(source string, at time.Time) *Renderer {
	r := NewRenderer(source)
	r.now = func() time.Time { return at }
	return r
}

func attrMap(t *testing.T, m domain.Metric) map[string]string {
	t.Helper()
	data := m.Data()
	if data == nil || len(data.DataPoints) != 1 {
		t.Fatalf("metric %q: expected one data point, got %+v", m.Name, data)
	}
	out := make(map[string]string)
	for _, a := range data.DataPoints[0].Attributes {
		out[a.Key] = a.Value.StringValue
	}
	return out
}

func TestRenderer_SumFlags(t *testing.T) {
	r := fixedRenderer("test", time.Unix(100, 0))
	m := r.Int("requests", "1", domain.Sum, 7, map[string]string{"method": "GET"})

	if m.Sum == nil || m.Gauge != nil {
		t.Fatalf("expected sum metric, got %+v", m)
	}
	if m.Sum.AggregationTemporality != domain.CumulativeTemporality {
		t.Fatalf("temporality=%q want %q", m.Sum.AggregationTemporality, domain.CumulativeTemporality)
	}
	if !m.Sum.IsMonotonic {
		t.Fatal("sum must be monotonic")
	}
	if dp := m.Sum.DataPoints[0]; dp.AsInt == nil || *dp.AsInt != 7 || dp.AsDouble != nil {
		t.Fatalf("data point=%+v want asInt 7", dp)
	}
}

func TestRenderer_GaugeHasNoSumFlags(t *testing.T) {
	r := fixedRenderer("test", time.Unix(100, 0))
	m := r.Double("cpuUsage", "%", domain.Gauge, 12.34, nil)

	if m.Gauge == nil || m.Sum != nil {
		t.Fatalf("expected gauge metric, got %+v", m)
	}
	if m.Gauge.AggregationTemporality != "" || m.Gauge.IsMonotonic {
		t.Fatalf("gauge carries sum flags: %+v", m.Gauge)
	}
	if dp := m.Gauge.DataPoints[0]; dp.AsDouble == nil || *dp.AsDouble != 12.34 || dp.AsInt != nil {
		t.Fatalf("data point=%+v want asDouble 12.34", dp)
	}
}

func TestRenderer_Timestamp(t *testing.T) {
	at := time.Unix(1700000000, 123456789)
	r := fixedRenderer("test", at)
	m := r.Int("activeUsers", "1", domain.Gauge, 1, nil)

	if got := m.Data().DataPoints[0].TimeUnixNano; got != at.UnixNano() {
		t.Fatalf("timeUnixNano=%d want %d", got, at.UnixNano())
	}
}

func TestRenderer_SourceAttribute(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  map[string]string
	}{
		{
			name:  "nil_attrs_still_sourced",
			attrs: nil,
			want:  map[string]string{"source": "pizza-dev"},
		},
		{
			name:  "caller_attrs_kept",
			attrs: map[string]string{"method": "POST"},
			want:  map[string]string{"method": "POST", "source": "pizza-dev"},
		},
		{
			name:  "configured_source_wins",
			attrs: map[string]string{"source": "spoofed"},
			want:  map[string]string{"source": "pizza-dev"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := fixedRenderer("pizza-dev", time.Unix(0, 0))
			got := attrMap(t, r.Int("requests", "1", domain.Sum, 1, tc.attrs))
			if len(got) != len(tc.want) {
				t.Fatalf("attrs=%v want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Fatalf("attr[%q]=%q want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestRenderer_DoesNotMutateCallerAttrs(t *testing.T) {
	r := fixedRenderer("pizza-dev", time.Unix(0, 0))
	attrs := map[string]string{"source": "mine"}
	_ = r.Int("requests", "1", domain.Sum, 1, attrs)
	if attrs["source"] != "mine" {
		t.Fatalf("caller map mutated: %v", attrs)
	}
}
