// Package platform builds the stacks of the data platform for one
// environment and assembles them into a single dependency graph.
package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// scope is the stack a constructor registers its descriptors in.
type scope struct {
	*topology.Stack
	log *zap.SugaredLogger
}

func newScope(g *topology.Graph, purpose string, log *zap.SugaredLogger) (*scope, error) {
	s, err := g.NewStack(topology.StackName(g.Environment(), purpose))
	if err != nil {
		return nil, err
	}
	return &scope{Stack: s, log: log.With("stack", s.Name())}, nil
}

func (s *scope) env() environment.Environment { return s.Environment() }

// add registers descriptors in order and stops at the first failure.
func (s *scope) add(descriptors ...topology.Descriptor) error {
	for _, d := range descriptors {
		if err := s.Add(d); err != nil {
			return err
		}
		m := d.Metadata()
		s.log.Debugw("registered resource", "name", m.Name, "kind", m.Kind, "dependsOn", m.DependsOn)
	}
	return nil
}
