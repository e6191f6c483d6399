// Package registry gives a running simulation a place to look processes and
// resources up by name, for scenarios that refer to each other
// (interrupting a process named elsewhere in a config file, say) instead of
// passing Go values around directly.
package registry

import (
	"fmt"

	"github.com/seeco-gmbh/SimJS/des"
)

// Registry indexes a simulation's named Processes and Resources.
// Generalized from Simulation (sim/simulation.go), which indexes Components
// and Ports by name the same way; this version drops the "zero index means
// absent" map check (it breaks for whatever gets registered first) in
// favor of the two-value map form.
type Registry struct {
	env *des.Environment

	processes     []*des.Process
	processIndex  map[string]int
	resources     []*des.Resource
	resourceIndex map[string]int
}

// New creates a Registry bound to env.
func New(env *des.Environment) *Registry {
	return &Registry{
		env:           env,
		processIndex:  make(map[string]int),
		resourceIndex: make(map[string]int),
	}
}

// Env returns the Registry's Environment.
func (r *Registry) Env() *des.Environment { return r.env }

// RegisterProcess indexes p under name. It fails if name is already taken.
func (r *Registry) RegisterProcess(name string, p *des.Process) error {
	if _, exists := r.processIndex[name]; exists {
		return fmt.Errorf("registry: process %q already registered", name)
	}

	r.processes = append(r.processes, p)
	r.processIndex[name] = len(r.processes) - 1
	return nil
}

// ProcessByName returns the Process registered under name.
func (r *Registry) ProcessByName(name string) (*des.Process, error) {
	idx, exists := r.processIndex[name]
	if !exists {
		return nil, fmt.Errorf("registry: no process named %q", name)
	}
	return r.processes[idx], nil
}

// Processes returns every registered Process, in registration order.
func (r *Registry) Processes() []*des.Process {
	out := make([]*des.Process, len(r.processes))
	copy(out, r.processes)
	return out
}

// RegisterResource indexes res under name. It fails if name is already
// taken.
func (r *Registry) RegisterResource(name string, res *des.Resource) error {
	if _, exists := r.resourceIndex[name]; exists {
		return fmt.Errorf("registry: resource %q already registered", name)
	}

	r.resources = append(r.resources, res)
	r.resourceIndex[name] = len(r.resources) - 1
	return nil
}

// ResourceByName returns the Resource registered under name.
func (r *Registry) ResourceByName(name string) (*des.Resource, error) {
	idx, exists := r.resourceIndex[name]
	if !exists {
		return nil, fmt.Errorf("registry: no resource named %q", name)
	}
	return r.resources[idx], nil
}

// Resources returns every registered Resource, in registration order.
func (r *Registry) Resources() []*des.Resource {
	out := make([]*des.Resource, len(r.resources))
	copy(out, r.resources)
	return out
}
