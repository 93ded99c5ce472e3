package resource

import (
	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const KindAirflowEnvironment topology.Kind = "aws:mwaa:Environment"

// AirflowEnvironment is a managed workflow orchestrator environment.
type AirflowEnvironment struct {
	topology.Meta `yaml:",inline"`

	AirflowVersion               string   `yaml:"airflowVersion"`
	EnvironmentClass             string   `yaml:"environmentClass"`
	SourceBucketARN              string   `yaml:"sourceBucketArn"`
	DagS3Path                    string   `yaml:"dagS3Path"`
	RequirementsS3Path           string   `yaml:"requirementsS3Path,omitempty"`
	ExecutionRoleARN             string   `yaml:"executionRoleArn"`
	MinWorkers                   int      `yaml:"minWorkers"`
	MaxWorkers                   int      `yaml:"maxWorkers"`
	SecurityGroupIDs             []string `yaml:"securityGroupIds"`
	SubnetIDs                    []string `yaml:"subnetIds"`
	WebserverAccessMode          string   `yaml:"webserverAccessMode"`
	WeeklyMaintenanceWindowStart string   `yaml:"weeklyMaintenanceWindowStart"`
	LogLevel                     string   `yaml:"logLevel"`
}

// AirflowEnvironmentARN returns the ARN of the environment named name.
func AirflowEnvironmentARN(name string) string {
	return arn.ARN{
		Partition: "aws",
		Service:   "airflow",
		Region:    topology.Region,
		AccountID: topology.Account,
		Resource:  "environment/" + name,
	}.String()
}
