package models

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned for metric keys outside the config table.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric identifies one of the numeric quantities carried by every sample point.
// Handlers parse the wire key once with ParseMetric; everything below the API
// boundary works with the enumerated type.
type Metric int

const (
	MetricStock Metric = iota // soil water stock (mm)
	MetricGap                 // hydric deficit (mm)
	MetricPrecipitation       // weekly precipitation P (mm)
	MetricETP                 // reference evapotranspiration (mm)

	metricCount
)

// Ramp names understood by the colormap package.
const (
	RampBlues   = "blues"
	RampReds    = "reds"
	RampOranges = "oranges"
)

// MetricSpec describes how a metric is keyed, labelled and rendered.
type MetricSpec struct {
	Key         string `json:"key"`          // wire/query key, matches the exporter columns
	DisplayName string `json:"display_name"`
	Unit        string `json:"unit"`
	Ramp        string `json:"ramp"`
	// Reversed flips the ramp so low values take the saturated end.
	Reversed bool `json:"reversed"`
}

// metricSpecs is the single source of truth for metric configuration.
// Stock-like metrics use blue ramps, deficit-like metrics red ones.
var metricSpecs = [metricCount]MetricSpec{
	MetricStock:         {Key: "stock", DisplayName: "Soil water stock", Unit: "mm", Ramp: RampBlues},
	MetricGap:           {Key: "gap", DisplayName: "Hydric deficit", Unit: "mm", Ramp: RampReds},
	MetricPrecipitation: {Key: "P", DisplayName: "Precipitation", Unit: "mm", Ramp: RampBlues},
	MetricETP:           {Key: "ETP", DisplayName: "Evapotranspiration", Unit: "mm", Ramp: RampOranges},
}

var metricByKey = func() map[string]Metric {
	byKey := make(map[string]Metric, metricCount)
	for m := Metric(0); m < metricCount; m++ {
		spec := metricSpecs[m]
		if spec.Key == "" || spec.Ramp == "" {
			panic(fmt.Sprintf("models: incomplete spec for metric %d", m))
		}
		if _, dup := byKey[spec.Key]; dup {
			panic(fmt.Sprintf("models: duplicate metric key %q", spec.Key))
		}
		byKey[spec.Key] = m
	}
	return byKey
}()

// AllMetrics returns every known metric in declaration order.
func AllMetrics() []Metric {
	metrics := make([]Metric, metricCount)
	for m := Metric(0); m < metricCount; m++ {
		metrics[m] = m
	}
	return metrics
}

// ParseMetric resolves a wire key ("stock", "gap", "P", "ETP") to a Metric.
func ParseMetric(key string) (Metric, error) {
	m, ok := metricByKey[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
	}
	return m, nil
}

// Spec returns the configuration entry for the metric.
func (m Metric) Spec() MetricSpec {
	if m < 0 || m >= metricCount {
		panic(fmt.Sprintf("models: invalid metric %d", m))
	}
	return metricSpecs[m]
}

// Key returns the wire key for the metric.
func (m Metric) Key() string { return m.Spec().Key }

func (m Metric) String() string { return m.Key() }
