package resource

import (
	"encoding/json"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	KindReplicationSubnetGroup topology.Kind = "aws:dms:ReplicationSubnetGroup"
	KindReplicationInstance    topology.Kind = "aws:dms:ReplicationInstance"
	KindEndpoint               topology.Kind = "aws:dms:Endpoint"
	KindReplicationTask        topology.Kind = "aws:dms:ReplicationTask"
)

// ReplicationSubnetGroup places replication instances on subnets.
type ReplicationSubnetGroup struct {
	topology.Meta `yaml:",inline"`

	Description string   `yaml:"description"`
	SubnetIDs   []string `yaml:"subnetIds"`
}

// ReplicationInstance runs replication tasks.
type ReplicationInstance struct {
	topology.Meta `yaml:",inline"`

	InstanceClass      string   `yaml:"instanceClass"`
	AllocatedStorage   int      `yaml:"allocatedStorage"`
	EngineVersion      string   `yaml:"engineVersion"`
	PubliclyAccessible bool     `yaml:"publiclyAccessible"`
	SecurityGroupIDs   []string `yaml:"securityGroupIds"`
	SubnetGroupID      string   `yaml:"subnetGroupId"`
}

// S3TargetSettings configures an object storage target endpoint.
type S3TargetSettings struct {
	BucketName           string `yaml:"bucketName"`
	BucketFolder         string `yaml:"bucketFolder"`
	CompressionType      string `yaml:"compressionType"`
	DataFormat           string `yaml:"dataFormat"`
	TimestampColumnName  string `yaml:"timestampColumnName"`
	IncludeOpForFullLoad bool   `yaml:"includeOpForFullLoad"`
	MaxFileSizeKB        int    `yaml:"maxFileSizeKB"`
	CsvDelimiter         string `yaml:"csvDelimiter"`
	CsvRowDelimiter      string `yaml:"csvRowDelimiter"`
	ServiceAccessRoleARN string `yaml:"serviceAccessRoleArn"`
}

// Endpoint is a replication source or target.
type Endpoint struct {
	topology.Meta `yaml:",inline"`

	EndpointType              string            `yaml:"endpointType"`
	EngineName                string            `yaml:"engineName"`
	ServerName                string            `yaml:"serverName,omitempty"`
	Port                      int               `yaml:"port,omitempty"`
	DatabaseName              string            `yaml:"databaseName,omitempty"`
	Credentials               *SecretRef        `yaml:"credentials,omitempty"`
	SecretsAccessRoleARN      string            `yaml:"secretsAccessRoleArn,omitempty"`
	ExtraConnectionAttributes string            `yaml:"extraConnectionAttributes,omitempty"`
	S3                        *S3TargetSettings `yaml:"s3,omitempty"`
}

// Check validates secret-backed credentials. DMS reads the whole secret, so
// the reference must not be narrowed to a field, and an RDS managed secret
// only holds username and password: the host and port come from the
// endpoint itself.
func (e *Endpoint) Check() error {
	if e.Credentials == nil {
		return nil
	}
	if e.Credentials.Field != "" {
		return errors.Newf("endpoint %s: dms needs the whole secret, not field %q", e.Name, e.Credentials.Field)
	}
	if e.SecretsAccessRoleARN == "" {
		return errors.Newf("endpoint %s: secret credentials need an access role", e.Name)
	}
	if e.ServerName == "" || e.Port == 0 {
		return errors.Newf("endpoint %s: secret credentials need an explicit server name and port", e.Name)
	}
	return nil
}

// ARN returns the token of the generated endpoint ARN.
func (e *Endpoint) ARN() string {
	return topology.Attr(e, "arn")
}

// ReplicationTask copies data from source to target through an instance.
type ReplicationTask struct {
	topology.Meta `yaml:",inline"`

	MigrationType     string `yaml:"migrationType"`
	InstanceARN       string `yaml:"instanceArn"`
	SourceEndpointARN string `yaml:"sourceEndpointArn"`
	TargetEndpointARN string `yaml:"targetEndpointArn"`
	TableMappings     string `yaml:"tableMappings"`
}

type objectLocator struct {
	SchemaName string `json:"schema-name"`
	TableName  string `json:"table-name"`
}

type selectionRule struct {
	RuleType      string        `json:"rule-type"`
	RuleID        string        `json:"rule-id"`
	RuleName      string        `json:"rule-name"`
	ObjectLocator objectLocator `json:"object-locator"`
	RuleAction    string        `json:"rule-action"`
	Filters       []any         `json:"filters"`
}

// IncludeAllTables returns table mappings selecting every schema and table.
func IncludeAllTables() (string, error) {
	mappings := struct {
		Rules []selectionRule `json:"rules"`
	}{
		Rules: []selectionRule{{
			RuleType:      "selection",
			RuleID:        "1",
			RuleName:      "1",
			ObjectLocator: objectLocator{SchemaName: "%", TableName: "%"},
			RuleAction:    "include",
			Filters:       []any{},
		}},
	}
	raw, err := json.Marshal(mappings)
	if err != nil {
		return "", errors.Wrap(err, "marshal table mappings")
	}
	return string(raw), nil
}
