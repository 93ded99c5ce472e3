package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) role(r *resource.Role, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	trust, err := r.TrustPolicy()
	if err != nil {
		return nil, nil, err
	}
	role, err := iam.NewRole(p.ctx, r.Name, &iam.RoleArgs{
		Name:             pulumi.String(r.Name),
		Description:      pulumi.String(r.Description),
		AssumeRolePolicy: p.str(trust),
		Tags:             tags(&r.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	created := []pulumi.Resource{role}

	for _, policy := range r.Policies {
		rp, err := iam.NewRolePolicy(p.ctx, r.Name+"-"+policy.Name, &iam.RolePolicyArgs{
			Name:   pulumi.String(policy.Name),
			Role:   role.Name,
			Policy: p.document(policy.Statements),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, rp)
	}

	out := attrs{
		"arn":  role.Arn,
		"name": role.Name,
	}
	if r.InstanceProfile != "" {
		profile, err := iam.NewInstanceProfile(p.ctx, r.InstanceProfile, &iam.InstanceProfileArgs{
			Name: pulumi.String(r.InstanceProfile),
			Role: role.Name,
			Tags: tags(&r.Meta),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, profile)
		out["instanceProfileArn"] = profile.Arn
	}
	return created, out, nil
}
