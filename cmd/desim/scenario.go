package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the top-level shape of a desim run config. Grounded on
// inference-sim's WorkloadSpec (sim/workload/spec.go): a flat YAML document
// describing arrival processes and the shared capacity they contend for,
// loaded once at startup rather than built up through flags.
type Scenario struct {
	Until     float64        `yaml:"until"`
	Resources []ResourceSpec `yaml:"resources"`
	Arrivals  []ArrivalSpec  `yaml:"arrivals"`
}

// ResourceSpec names a Resource and its capacity.
type ResourceSpec struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// ArrivalSpec describes a stream of customer processes: Count customers,
// Interval ticks apart, each holding Resource for ServiceTime ticks.
type ArrivalSpec struct {
	Name        string  `yaml:"name"`
	Resource    string  `yaml:"resource"`
	Count       int     `yaml:"count"`
	Interval    float64 `yaml:"interval"`
	ServiceTime float64 `yaml:"service_time"`
}

// LoadScenario reads and parses a Scenario from a YAML file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	return &s, nil
}
