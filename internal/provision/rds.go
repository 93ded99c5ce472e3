package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/rds"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) parameterGroup(g *resource.ParameterGroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	params := rds.ParameterGroupParameterArray{}
	for _, param := range g.Parameters {
		args := &rds.ParameterGroupParameterArgs{
			Name:  pulumi.String(param.Name),
			Value: pulumi.String(param.Value),
		}
		if param.ApplyMethod != "" {
			args.ApplyMethod = pulumi.String(param.ApplyMethod)
		}
		params = append(params, args)
	}
	group, err := rds.NewParameterGroup(p.ctx, g.Name, &rds.ParameterGroupArgs{
		Name:        pulumi.String(g.Name),
		Family:      pulumi.String(g.Family),
		Description: pulumi.String(g.Description),
		Parameters:  params,
		Tags:        tags(&g.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{group}, attrs{"name": group.Name}, nil
}

func (p *Provisioner) dbSubnetGroup(g *resource.DBSubnetGroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	group, err := rds.NewSubnetGroup(p.ctx, g.Name, &rds.SubnetGroupArgs{
		Name:        pulumi.String(g.Name),
		Description: pulumi.String(g.Description),
		SubnetIds:   p.strs(g.SubnetIDs),
		Tags:        tags(&g.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{group}, attrs{"name": group.Name}, nil
}

func (p *Provisioner) database(d *resource.Database, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	db, err := rds.NewInstance(p.ctx, d.Name, &rds.InstanceArgs{
		Identifier:               pulumi.String(d.Name),
		Engine:                   pulumi.String(d.Engine),
		EngineVersion:            pulumi.String(d.EngineVersion),
		InstanceClass:            pulumi.String(d.InstanceClass),
		AllocatedStorage:         pulumi.Int(d.AllocatedStorage),
		DbName:                   pulumi.String(d.DatabaseName),
		Username:                 pulumi.String(d.Username),
		Port:                     pulumi.Int(d.Port),
		DbSubnetGroupName:        pulumi.String(d.SubnetGroup),
		ParameterGroupName:       pulumi.String(d.ParameterGroup),
		VpcSecurityGroupIds:      p.strs(d.SecurityGroupIDs),
		PubliclyAccessible:       pulumi.Bool(d.PubliclyAccessible),
		StorageEncrypted:         pulumi.Bool(d.StorageEncrypted),
		ManageMasterUserPassword: pulumi.Bool(d.ManagedPassword),
		SkipFinalSnapshot:        pulumi.Bool(true),
		Tags:                     tags(&d.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}

	secretArn := db.MasterUserSecrets.ApplyT(func(secrets []rds.InstanceMasterUserSecret) string {
		if len(secrets) == 0 || secrets[0].SecretArn == nil {
			return ""
		}
		return *secrets[0].SecretArn
	}).(pulumi.StringOutput)

	return []pulumi.Resource{db}, attrs{
		"address":   db.Address,
		"endpoint":  db.Endpoint,
		"arn":       db.Arn,
		"secretArn": secretArn,
	}, nil
}
