package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/ssm"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) parameter(param *resource.Parameter, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	created, err := ssm.NewParameter(p.ctx, param.Name, &ssm.ParameterArgs{
		Name:        pulumi.String(param.Path),
		Type:        pulumi.String("String"),
		Value:       p.str(param.Value),
		Description: p.optional(param.Description),
		Tags:        tags(&param.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{created}, attrs{"arn": created.Arn, "name": created.Name}, nil
}
