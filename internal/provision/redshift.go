package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/redshift"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) warehouseSubnetGroup(g *resource.WarehouseSubnetGroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	group, err := redshift.NewSubnetGroup(p.ctx, g.Name, &redshift.SubnetGroupArgs{
		Name:        pulumi.String(g.Name),
		Description: p.optional(g.Description),
		SubnetIds:   p.strs(g.SubnetIDs),
		Tags:        tags(&g.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{group}, attrs{"name": group.Name}, nil
}

func (p *Provisioner) warehouseCluster(c *resource.WarehouseCluster, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	if p.opts.Secret == nil {
		return nil, nil, errors.Newf("cluster %s needs secret %q but no secret source is configured", c.Name, c.MasterPasswordKey)
	}
	args := &redshift.ClusterArgs{
		ClusterIdentifier:      pulumi.String(c.Name),
		ClusterType:            pulumi.String(c.ClusterType),
		NodeType:               pulumi.String(c.NodeType),
		DatabaseName:           pulumi.String(c.DatabaseName),
		MasterUsername:         pulumi.String(c.MasterUsername),
		MasterPassword:         p.opts.Secret(c.MasterPasswordKey),
		IamRoles:               p.strs(c.IamRoles),
		VpcSecurityGroupIds:    p.strs(c.SecurityGroupIDs),
		ClusterSubnetGroupName: pulumi.String(c.SubnetGroup),
		PubliclyAccessible:     pulumi.Bool(c.PubliclyAccessible),
		Encrypted:              pulumi.Bool(c.Encrypted),
		SkipFinalSnapshot:      pulumi.Bool(true),
		Tags:                   tags(&c.Meta),
	}
	if c.ClusterType == "multi-node" {
		args.NumberOfNodes = pulumi.Int(c.NumberOfNodes)
	}
	cluster, err := redshift.NewCluster(p.ctx, c.Name, args, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{cluster}, attrs{
		"endpoint": cluster.Endpoint,
		"arn":      cluster.Arn,
	}, nil
}
