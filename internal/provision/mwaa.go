package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/mwaa"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) airflowEnvironment(e *resource.AirflowEnvironment, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	level := pulumi.String(e.LogLevel)
	env, err := mwaa.NewEnvironment(p.ctx, e.Name, &mwaa.EnvironmentArgs{
		Name:                         pulumi.String(e.Name),
		AirflowVersion:               p.optional(e.AirflowVersion),
		EnvironmentClass:             p.optional(e.EnvironmentClass),
		SourceBucketArn:              p.str(e.SourceBucketARN),
		DagS3Path:                    pulumi.String(e.DagS3Path),
		RequirementsS3Path:           p.optional(e.RequirementsS3Path),
		ExecutionRoleArn:             p.str(e.ExecutionRoleARN),
		MinWorkers:                   pulumi.Int(e.MinWorkers),
		MaxWorkers:                   pulumi.Int(e.MaxWorkers),
		WebserverAccessMode:          p.optional(e.WebserverAccessMode),
		WeeklyMaintenanceWindowStart: p.optional(e.WeeklyMaintenanceWindowStart),
		NetworkConfiguration: &mwaa.EnvironmentNetworkConfigurationArgs{
			SecurityGroupIds: p.strs(e.SecurityGroupIDs),
			SubnetIds:        p.strs(e.SubnetIDs),
		},
		LoggingConfiguration: &mwaa.EnvironmentLoggingConfigurationArgs{
			DagProcessingLogs: &mwaa.EnvironmentLoggingConfigurationDagProcessingLogsArgs{
				Enabled:  pulumi.Bool(true),
				LogLevel: level,
			},
			SchedulerLogs: &mwaa.EnvironmentLoggingConfigurationSchedulerLogsArgs{
				Enabled:  pulumi.Bool(true),
				LogLevel: level,
			},
			TaskLogs: &mwaa.EnvironmentLoggingConfigurationTaskLogsArgs{
				Enabled:  pulumi.Bool(true),
				LogLevel: level,
			},
			WebserverLogs: &mwaa.EnvironmentLoggingConfigurationWebserverLogsArgs{
				Enabled:  pulumi.Bool(true),
				LogLevel: level,
			},
			WorkerLogs: &mwaa.EnvironmentLoggingConfigurationWorkerLogsArgs{
				Enabled:  pulumi.Bool(true),
				LogLevel: level,
			},
		},
		Tags: tags(&e.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{env}, attrs{
		"arn":          env.Arn,
		"webserverUrl": env.WebserverUrl,
	}, nil
}
