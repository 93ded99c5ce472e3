package topology

import (
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

// Stack is a named, independently deployable group of descriptors. It is
// the owning scope passed to every resource constructor.
type Stack struct {
	name  string
	graph *Graph
	names []string
}

// Name returns the stack name.
func (s *Stack) Name() string { return s.name }

// Environment returns the environment of the owning graph.
func (s *Stack) Environment() environment.Environment { return s.graph.env }

// Add registers d as a child of the stack.
func (s *Stack) Add(d Descriptor) error {
	if err := s.graph.add(s, d); err != nil {
		return errors.Wrapf(err, "stack %s", s.name)
	}
	return nil
}

// Resources returns the stack's descriptors in registration order.
func (s *Stack) Resources() []Descriptor {
	out := make([]Descriptor, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.graph.entries[name].descriptor)
	}
	return out
}

// DependsOnStacks returns the names of other stacks this stack consumes,
// derived from resource edges that cross stack boundaries.
func (s *Stack) DependsOnStacks() []string {
	var out []string
	for _, name := range s.names {
		for _, dep := range s.graph.entries[name].descriptor.Metadata().DependsOn {
			other := s.graph.entries[dep].descriptor.Metadata().Stack
			if other != s.name && !contains(out, other) {
				out = append(out, other)
			}
		}
	}
	return out
}
