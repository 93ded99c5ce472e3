package resource

import "github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"

const (
	KindWarehouseSubnetGroup topology.Kind = "aws:redshift:SubnetGroup"
	KindWarehouseCluster     topology.Kind = "aws:redshift:Cluster"
)

// WarehouseSubnetGroup places a warehouse cluster on subnets.
type WarehouseSubnetGroup struct {
	topology.Meta `yaml:",inline"`

	Description string   `yaml:"description"`
	SubnetIDs   []string `yaml:"subnetIds"`
}

// WarehouseCluster is a columnar warehouse cluster.
type WarehouseCluster struct {
	topology.Meta `yaml:",inline"`

	ClusterType        string   `yaml:"clusterType"`
	NodeType           string   `yaml:"nodeType"`
	NumberOfNodes      int      `yaml:"numberOfNodes"`
	DatabaseName       string   `yaml:"databaseName"`
	MasterUsername     string   `yaml:"masterUsername"`
	MasterPasswordKey  string   `yaml:"masterPasswordKey"`
	IamRoles           []string `yaml:"iamRoles"`
	SecurityGroupIDs   []string `yaml:"securityGroupIds"`
	SubnetGroup        string   `yaml:"subnetGroup"`
	PubliclyAccessible bool     `yaml:"publiclyAccessible"`
	Encrypted          bool     `yaml:"encrypted"`
}
