package inspect

import (
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

var ErrCheckFailed = errors.New("topology check failed")

// Finding is one problem reported by Check.
type Finding struct {
	Resource string `json:"resource" yaml:"resource"`
	Message  string `json:"message" yaml:"message"`
}

// Report summarizes a checked graph.
type Report struct {
	Environment     string    `json:"environment" yaml:"environment"`
	Stacks          int       `json:"stacks" yaml:"stacks"`
	Resources       int       `json:"resources" yaml:"resources"`
	Edges           int       `json:"edges" yaml:"edges"`
	CrossStackEdges int       `json:"crossStackEdges" yaml:"crossStackEdges"`
	Findings        []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

type validator interface {
	Validate() error
}

// Check validates the graph structure and then every descriptor: buckets
// must keep the security baseline and roles and security groups must pass
// their own validation. Structural errors are returned as is; descriptor
// problems are collected in the report and turned into ErrCheckFailed.
func Check(g *topology.Graph) (*Report, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	r := &Report{
		Environment: g.Environment().String(),
		Stacks:      len(g.Stacks()),
		Resources:   g.Len(),
	}
	for _, d := range g.Descriptors() {
		m := d.Metadata()
		for _, dep := range m.DependsOn {
			r.Edges++
			if other, ok := g.Lookup(dep); ok && other.Metadata().Stack != m.Stack {
				r.CrossStackEdges++
			}
		}

		if b, ok := d.(*resource.Bucket); ok {
			if !b.Encrypted() {
				r.Findings = append(r.Findings, Finding{Resource: m.Name, Message: "bucket has no default encryption"})
			}
			if !b.PublicAccess.Blocked() {
				r.Findings = append(r.Findings, Finding{Resource: m.Name, Message: "bucket does not block all public access"})
			}
		}
		if v, ok := d.(validator); ok {
			if err := v.Validate(); err != nil {
				r.Findings = append(r.Findings, Finding{Resource: m.Name, Message: err.Error()})
			}
		}
	}

	if len(r.Findings) > 0 {
		return r, errors.Wrapf(ErrCheckFailed, "%d finding(s)", len(r.Findings))
	}
	return r, nil
}
