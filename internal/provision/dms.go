package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/dms"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) replicationSubnetGroup(g *resource.ReplicationSubnetGroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	group, err := dms.NewReplicationSubnetGroup(p.ctx, g.Name, &dms.ReplicationSubnetGroupArgs{
		ReplicationSubnetGroupId:          pulumi.String(g.Name),
		ReplicationSubnetGroupDescription: pulumi.String(g.Description),
		SubnetIds:                         p.strs(g.SubnetIDs),
		Tags:                              tags(&g.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{group}, attrs{"id": group.ReplicationSubnetGroupId}, nil
}

func (p *Provisioner) replicationInstance(r *resource.ReplicationInstance, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	instance, err := dms.NewReplicationInstance(p.ctx, r.Name, &dms.ReplicationInstanceArgs{
		ReplicationInstanceId:    pulumi.String(r.Name),
		ReplicationInstanceClass: pulumi.String(r.InstanceClass),
		AllocatedStorage:         pulumi.Int(r.AllocatedStorage),
		EngineVersion:            p.optional(r.EngineVersion),
		PubliclyAccessible:       pulumi.Bool(r.PubliclyAccessible),
		VpcSecurityGroupIds:      p.strs(r.SecurityGroupIDs),
		ReplicationSubnetGroupId: p.str(r.SubnetGroupID),
		Tags:                     tags(&r.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{instance}, attrs{"arn": instance.ReplicationInstanceArn}, nil
}

func (p *Provisioner) endpoint(e *resource.Endpoint, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	args := &dms.EndpointArgs{
		EndpointId:                pulumi.String(e.Name),
		EndpointType:              pulumi.String(e.EndpointType),
		EngineName:                pulumi.String(e.EngineName),
		ServerName:                p.optional(e.ServerName),
		DatabaseName:              p.optional(e.DatabaseName),
		ExtraConnectionAttributes: p.optional(e.ExtraConnectionAttributes),
		Tags:                      tags(&e.Meta),
	}
	if e.Port > 0 {
		args.Port = pulumi.Int(e.Port)
	}
	if e.Credentials != nil {
		args.SecretsManagerArn = p.str(e.Credentials.String())
		args.SecretsManagerAccessRoleArn = p.str(e.SecretsAccessRoleARN)
	}
	if s := e.S3; s != nil {
		args.S3Settings = &dms.EndpointS3SettingsArgs{
			BucketName:           pulumi.String(s.BucketName),
			BucketFolder:         pulumi.String(s.BucketFolder),
			CompressionType:      pulumi.String(s.CompressionType),
			DataFormat:           pulumi.String(s.DataFormat),
			TimestampColumnName:  pulumi.String(s.TimestampColumnName),
			IncludeOpForFullLoad: pulumi.Bool(s.IncludeOpForFullLoad),
			MaxFileSize:          pulumi.Int(s.MaxFileSizeKB),
			CsvDelimiter:         pulumi.String(s.CsvDelimiter),
			CsvRowDelimiter:      pulumi.String(s.CsvRowDelimiter),
			ServiceAccessRoleArn: p.str(s.ServiceAccessRoleARN),
		}
	}
	endpoint, err := dms.NewEndpoint(p.ctx, e.Name, args, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{endpoint}, attrs{"arn": endpoint.EndpointArn}, nil
}

func (p *Provisioner) replicationTask(t *resource.ReplicationTask, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	task, err := dms.NewReplicationTask(p.ctx, t.Name, &dms.ReplicationTaskArgs{
		ReplicationTaskId:      pulumi.String(t.Name),
		MigrationType:          pulumi.String(t.MigrationType),
		ReplicationInstanceArn: p.str(t.InstanceARN),
		SourceEndpointArn:      p.str(t.SourceEndpointARN),
		TargetEndpointArn:      p.str(t.TargetEndpointARN),
		TableMappings:          pulumi.String(t.TableMappings),
		Tags:                   tags(&t.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{task}, attrs{"arn": task.ReplicationTaskArn}, nil
}
