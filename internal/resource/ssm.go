package resource

import (
	"path"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const KindParameter topology.Kind = "aws:ssm:Parameter"

// ParameterRoot prefixes every published parameter path.
const ParameterRoot = "/belisco"

// Parameter publishes a value, usually a generated identifier, to the
// parameter store so scripts outside the platform can find it.
type Parameter struct {
	topology.Meta `yaml:",inline"`

	Path        string `yaml:"path"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

// NewParameter declares /belisco/<env>/<key> holding value. source is the
// descriptor value is read from.
func NewParameter(env environment.Environment, key, value string, source topology.Descriptor) *Parameter {
	p := &Parameter{
		Meta:  topology.Meta{Name: topology.Name("ssm", env, key), Kind: KindParameter},
		Path:  path.Join(ParameterRoot, env.String(), key),
		Value: value,
	}
	p.Depends(source)
	return p
}
