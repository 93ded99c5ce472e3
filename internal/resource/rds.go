package resource

import (
	"fmt"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	KindParameterGroup topology.Kind = "aws:rds:ParameterGroup"
	KindDBSubnetGroup  topology.Kind = "aws:rds:SubnetGroup"
	KindDatabase       topology.Kind = "aws:rds:Instance"
)

// DBParameter is one engine parameter.
type DBParameter struct {
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	ApplyMethod string `yaml:"applyMethod,omitempty"`
}

// LogicalReplicationParameters enable write-ahead log streaming for change
// data capture and disable the sender timeout so an idle replication slot is
// never dropped. Without them the replication task fails at activation.
func LogicalReplicationParameters() []DBParameter {
	return []DBParameter{
		{Name: "rds.logical_replication", Value: "1", ApplyMethod: "pending-reboot"},
		{Name: "wal_sender_timeout", Value: "0"},
	}
}

// ParameterGroup declares an engine parameter group.
type ParameterGroup struct {
	topology.Meta `yaml:",inline"`

	Family      string        `yaml:"family"`
	Description string        `yaml:"description"`
	Parameters  []DBParameter `yaml:"parameters"`
}

// DBSubnetGroup places a database on a set of subnets.
type DBSubnetGroup struct {
	topology.Meta `yaml:",inline"`

	Description string   `yaml:"description"`
	SubnetIDs   []string `yaml:"subnetIds"`
}

// Database declares a relational database instance. The master password is
// generated and stored in Secrets Manager by the database service itself.
type Database struct {
	topology.Meta `yaml:",inline"`

	Engine             string   `yaml:"engine"`
	EngineVersion      string   `yaml:"engineVersion"`
	InstanceClass      string   `yaml:"instanceClass"`
	AllocatedStorage   int      `yaml:"allocatedStorage"`
	DatabaseName       string   `yaml:"databaseName"`
	Username           string   `yaml:"username"`
	Port               int      `yaml:"port"`
	SubnetGroup        string   `yaml:"subnetGroup"`
	ParameterGroup     string   `yaml:"parameterGroup"`
	SecurityGroupIDs   []string `yaml:"securityGroupIds"`
	PubliclyAccessible bool     `yaml:"publiclyAccessible"`
	StorageEncrypted   bool     `yaml:"storageEncrypted"`
	ManagedPassword    bool     `yaml:"managedPassword"`
}

// Address returns the token of the endpoint host name.
func (d *Database) Address() string {
	return topology.Attr(d, "address")
}

// Secret returns the reference to the managed credentials secret.
func (d *Database) Secret() SecretRef {
	return SecretRef{ARN: topology.Attr(d, "secretArn")}
}

// SecretRef points at a Secrets Manager secret holding JSON credentials,
// optionally narrowed to one field. Credentials are never copied into
// descriptors; consumers get this reference and the engine resolves it at
// deploy time.
type SecretRef struct {
	ARN   string `yaml:"arn"`
	Field string `yaml:"field,omitempty"`
}

// WithField narrows the reference to one JSON field of the secret.
func (s SecretRef) WithField(field string) SecretRef {
	s.Field = field
	return s
}

// String renders the dynamic reference <secret-arn>:SecretString:<field>.
func (s SecretRef) String() string {
	if s.Field == "" {
		return s.ARN
	}
	return fmt.Sprintf("%s:SecretString:%s", s.ARN, s.Field)
}
