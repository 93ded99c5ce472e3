package platform

import (
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	redshiftPort = 5439
	// RedshiftPasswordKey is the secret program config value holding the
	// warehouse master password.
	RedshiftPasswordKey = "redshiftMasterPassword"
)

// RedshiftStack is the columnar warehouse. Spectrum reads the raw and staged
// layers through the catalog databases; UNLOAD and COPY staging go to a
// short-lived bucket of its own.
type RedshiftStack struct {
	Stack         *topology.Stack
	StagingBucket *resource.Bucket
	SpectrumRole  *resource.Role
	SecurityGroup *resource.SecurityGroup
	SubnetGroup   *resource.WarehouseSubnetGroup
	Cluster       *resource.WarehouseCluster
}

// NewRedshiftStack builds <env>-redshift-stack.
func NewRedshiftStack(g *topology.Graph, cfg *settings.Settings, common *CommonStack, lake *DataLakeStack, catalog *CatalogStack, log *zap.SugaredLogger) (*RedshiftStack, error) {
	s, err := newScope(g, "redshift-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	network := common.Network

	var catalogResources []string
	catalogResources = append(catalogResources, glueARN("catalog"))
	for _, db := range []*resource.CatalogDatabase{catalog.RawDatabase, catalog.StagedDatabase} {
		catalogResources = append(catalogResources,
			glueARN("database/"+db.DatabaseName),
			glueARN("table/"+db.DatabaseName+"/*"))
	}

	staging := resource.NewResultsBucket(topology.Name(resource.ServicePrefix, env, "redshift-unload"))

	role := resource.NewServiceRole(
		topology.Name("iam", env, "redshift-spectrum-role"),
		"Role to allow Redshift to access data lake using spectrum",
		"redshift.amazonaws.com")
	role.Attach(topology.Name("iam", env, "redshift-spectrum-policy"),
		resource.Allow([]string{
			"glue:GetDatabase",
			"glue:GetDatabases",
			"glue:GetTable",
			"glue:GetTables",
			"glue:GetPartition",
			"glue:GetPartitions",
			"glue:BatchGetPartition",
		}, catalogResources...),
		resource.BucketAccess([]string{"s3:Get*", "s3:List*", "s3:Put*"}, lake.Raw, lake.Staged),
		resource.BucketAccess([]string{"s3:Get*", "s3:List*", "s3:Put*", "s3:DeleteObject"}, staging),
	)
	role.Depends(lake.Raw, lake.Staged, staging, catalog.RawDatabase, catalog.StagedDatabase)

	sg := resource.NewSecurityGroup(topology.Name("redshift", env, "sg"), "redshift cluster", network).
		Allow(resource.TCP(redshiftPort, cfg.Redshift.IngressCidr, "redshift"))
	for _, cidr := range network.SubnetCidrs(false) {
		sg.Allow(resource.TCP(redshiftPort, cidr, "redshift from private subnet"))
	}

	subnets := &resource.WarehouseSubnetGroup{
		Meta:        topology.Meta{Name: topology.Name("redshift", env, "subnet-group"), Kind: resource.KindWarehouseSubnetGroup},
		Description: "place Redshift on public subnet",
		SubnetIDs:   network.SubnetIDs(true),
	}
	subnets.Depends(network)

	cluster := &resource.WarehouseCluster{
		Meta:               topology.Meta{Name: topology.Name("belisco", env, "redshift"), Kind: resource.KindWarehouseCluster},
		ClusterType:        "multi-node",
		NodeType:           cfg.Redshift.NodeType,
		NumberOfNodes:      cfg.Redshift.NumberOfNodes,
		DatabaseName:       "dw",
		MasterUsername:     "admin",
		MasterPasswordKey:  RedshiftPasswordKey,
		IamRoles:           []string{topology.Attr(role, "arn")},
		SecurityGroupIDs:   []string{sg.ID()},
		SubnetGroup:        subnets.Name,
		PubliclyAccessible: true,
		Encrypted:          true,
	}
	cluster.Depends(role, sg, subnets)

	if err := s.add(staging, role, sg, subnets, cluster); err != nil {
		return nil, err
	}
	return &RedshiftStack{Stack: s.Stack, StagingBucket: staging, SpectrumRole: role, SecurityGroup: sg, SubnetGroup: subnets, Cluster: cluster}, nil
}

func glueARN(res string) string {
	return arn.ARN{
		Partition: "aws",
		Service:   "glue",
		Region:    topology.Region,
		AccountID: topology.Account,
		Resource:  res,
	}.String()
}
