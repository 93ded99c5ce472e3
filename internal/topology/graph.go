// Package topology models the platform as a graph of declarative resource
// descriptors grouped into stacks.
//
// A descriptor is registered through Stack.Add, which is the only place the
// graph grows. Add enforces the construction-time invariants:
//
//   - the name is unique across the whole graph (and so across stacks);
//   - every name in DependsOn is already registered, so dependencies always
//     point backwards in registration order and the graph stays acyclic;
//   - every ${ref:...} token embedded in the descriptor names a declared
//     dependency, so no generated identifier is consumed without an edge.
//
// The provisioning engine receives Graph.Order and the explicit edges; it
// never has to infer ordering from object references.
package topology

import (
	"sort"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

var (
	ErrDuplicateName       = errors.New("duplicate resource name")
	ErrDuplicateStack      = errors.New("duplicate stack name")
	ErrUnknownDependency   = errors.New("dependency is not registered")
	ErrUndeclaredReference = errors.New("reference to undeclared dependency")
	ErrCycle               = errors.New("dependency cycle")
	ErrInvalidName         = errors.New("invalid resource name")
)

// Kind identifies the resource type a descriptor declares.
type Kind string

// Meta is the part every descriptor shares. Descriptors embed it.
type Meta struct {
	Name      string            `yaml:"name"`
	Kind      Kind              `yaml:"kind"`
	Stack     string            `yaml:"stack"`
	DependsOn []string          `yaml:"dependsOn,omitempty"`
	Tags      map[string]string `yaml:"tags,omitempty"`
}

// Descriptor is a declarative resource definition.
type Descriptor interface {
	Metadata() *Meta
}

// Checker is implemented by descriptors with invariants of their own.
// Stack.Add runs Check before registering them.
type Checker interface {
	Check() error
}

// Metadata lets every struct embedding Meta satisfy Descriptor.
func (m *Meta) Metadata() *Meta { return m }

// Depends appends dependency edges on the given descriptors.
func (m *Meta) Depends(deps ...Descriptor) {
	for _, d := range deps {
		m.DependsOn = append(m.DependsOn, d.Metadata().Name)
	}
}

type entry struct {
	index      int
	descriptor Descriptor
}

// Graph holds every registered descriptor in registration order.
type Graph struct {
	env     environment.Environment
	entries map[string]*entry
	order   []Descriptor
	stacks  []*Stack
}

// New creates an empty graph for env.
func New(env environment.Environment) *Graph {
	return &Graph{
		env:     env,
		entries: make(map[string]*entry),
	}
}

// Environment returns the environment the graph is built for.
func (g *Graph) Environment() environment.Environment { return g.env }

// NewStack registers a stack scope named name.
func (g *Graph) NewStack(name string) (*Stack, error) {
	if err := ValidateName(name); err != nil {
		return nil, errors.Wrap(err, "stack")
	}
	for _, s := range g.stacks {
		if s.name == name {
			return nil, errors.Wrapf(ErrDuplicateStack, "%s", name)
		}
	}
	s := &Stack{name: name, graph: g}
	g.stacks = append(g.stacks, s)
	return s, nil
}

// Stacks returns the stacks in creation order.
func (g *Graph) Stacks() []*Stack {
	out := make([]*Stack, len(g.stacks))
	copy(out, g.stacks)
	return out
}

// Stack returns the stack named name.
func (g *Graph) Stack(name string) (*Stack, bool) {
	for _, s := range g.stacks {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Lookup returns the descriptor registered under name.
func (g *Graph) Lookup(name string) (Descriptor, bool) {
	e, ok := g.entries[name]
	if !ok {
		return nil, false
	}
	return e.descriptor, true
}

// Len returns the number of registered descriptors.
func (g *Graph) Len() int { return len(g.order) }

// Descriptors returns every descriptor in registration order.
func (g *Graph) Descriptors() []Descriptor {
	out := make([]Descriptor, len(g.order))
	copy(out, g.order)
	return out
}

// Names returns every registered name in registration order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.order))
	for _, d := range g.order {
		names = append(names, d.Metadata().Name)
	}
	return names
}

// Dependents returns the names of descriptors that depend directly on name,
// in registration order.
func (g *Graph) Dependents(name string) []string {
	var out []string
	for _, d := range g.order {
		for _, dep := range d.Metadata().DependsOn {
			if dep == name {
				out = append(out, d.Metadata().Name)
				break
			}
		}
	}
	return out
}

func (g *Graph) add(stack *Stack, d Descriptor) error {
	m := d.Metadata()
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if m.Kind == "" {
		return errors.Newf("resource %s has no kind", m.Name)
	}
	if c, ok := d.(Checker); ok {
		if err := c.Check(); err != nil {
			return errors.Wrapf(err, "resource %s", m.Name)
		}
	}
	if existing, ok := g.entries[m.Name]; ok {
		return errors.WithDetailf(
			errors.Wrapf(ErrDuplicateName, "%s", m.Name),
			"already registered by stack %s", existing.descriptor.Metadata().Stack)
	}

	m.DependsOn = dedupe(m.DependsOn)
	for _, dep := range m.DependsOn {
		if dep == m.Name {
			return errors.Wrapf(ErrCycle, "%s depends on itself", m.Name)
		}
		if _, ok := g.entries[dep]; !ok {
			return errors.Wrapf(ErrUnknownDependency, "%s depends on %s", m.Name, dep)
		}
	}

	refs, err := References(d)
	if err != nil {
		return errors.Wrapf(err, "scan references of %s", m.Name)
	}
	for _, ref := range refs {
		if !contains(m.DependsOn, ref.Name) {
			return errors.Wrapf(ErrUndeclaredReference, "%s uses %s", m.Name, ref)
		}
	}

	m.Stack = stack.name
	g.entries[m.Name] = &entry{index: len(g.order), descriptor: d}
	g.order = append(g.order, d)
	stack.names = append(stack.names, m.Name)
	return nil
}

// Validate re-checks the whole graph: every edge resolves and no cycle
// exists. Add already guarantees both for descriptors that were not mutated
// after registration; Validate catches the ones that were.
func (g *Graph) Validate() error {
	for _, d := range g.order {
		m := d.Metadata()
		for _, dep := range m.DependsOn {
			if _, ok := g.entries[dep]; !ok {
				return errors.Wrapf(ErrUnknownDependency, "%s depends on %s", m.Name, dep)
			}
		}
	}
	return g.detectCycles()
}

// detectCycles runs a depth-first search with temporary and permanent marks.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool, len(g.order))
	temporary := make(map[string]bool)

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		if permanent[name] {
			return nil
		}
		path = append(path, name)
		if temporary[name] {
			return errors.WithDetailf(errors.Wrapf(ErrCycle, "involving %s", name), "path: %v", path)
		}
		temporary[name] = true
		for _, dep := range g.entries[name].descriptor.Metadata().DependsOn {
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for _, d := range g.order {
		if err := visit(d.Metadata().Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Order returns a creation order in which every descriptor follows all of its
// dependencies. Ties are broken by registration order, so the result is
// deterministic for identical inputs.
func (g *Graph) Order() ([]Descriptor, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	indegree := make(map[string]int, len(g.order))
	for _, d := range g.order {
		indegree[d.Metadata().Name] = len(d.Metadata().DependsOn)
	}

	var ready []int
	for i, d := range g.order {
		if indegree[d.Metadata().Name] == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]Descriptor, 0, len(g.order))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		d := g.order[i]
		out = append(out, d)
		for _, dependent := range g.Dependents(d.Metadata().Name) {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, g.entries[dependent].index)
			}
		}
	}
	if len(out) != len(g.order) {
		return nil, errors.Wrap(ErrCycle, "topological sort did not visit every resource")
	}
	return out, nil
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
