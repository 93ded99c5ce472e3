package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	replicationInstanceClass = "dms.t2.small"
	replicationEngineVersion = "3.5.1"
)

// DMS writes each replicated table under <folder>/<schema>/<table> of the
// raw layer.
const (
	OrdersBucketFolder = "orders"
	ordersSchema       = "public"
	ordersSourceTable  = "orders"
)

// OrdersDataURI is where the replicated orders table lands in raw.
func OrdersDataURI(raw *resource.Bucket) string {
	return raw.URI(OrdersBucketFolder, ordersSchema, ordersSourceTable)
}

// DMSStack replicates the orders database into the raw layer with change
// data capture.
type DMSStack struct {
	Stack          *topology.Stack
	TargetRole     *resource.Role
	SecretsRole    *resource.Role
	SecurityGroup  *resource.SecurityGroup
	SubnetGroup    *resource.ReplicationSubnetGroup
	Instance       *resource.ReplicationInstance
	SourceEndpoint *resource.Endpoint
	TargetEndpoint *resource.Endpoint
	Task           *resource.ReplicationTask
}

// NewDMSStack builds <env>-dms-stack. The source endpoint reads credentials
// from the database managed secret through a role that can read only that
// secret.
func NewDMSStack(g *topology.Graph, common *CommonStack, lake *DataLakeStack, log *zap.SugaredLogger) (*DMSStack, error) {
	s, err := newScope(g, "dms-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	raw := lake.Raw
	db := common.OrdersDatabase
	network := common.Network

	targetRole := resource.NewServiceRole(
		topology.Name("iam", env, "data-lake-raw-dms-role"),
		"Role to allow DMS to save data to data lake raw",
		"dms.amazonaws.com")
	targetRole.Attach(topology.Name("iam", env, "data-lake-raw-dms-policy"),
		resource.BucketAccess([]string{
			"s3:PutObjectTagging",
			"s3:DeleteObject",
			"s3:ListBucket",
			"s3:PutObject",
		}, raw))
	targetRole.Depends(raw)

	secret := common.OrdersSecret()
	secretsRole := resource.NewServiceRole(
		topology.Name("iam", env, "dms-secrets-access-role"),
		"Role to allow DMS to read the orders database credentials",
		"dms.amazonaws.com")
	secretsRole.Attach(topology.Name("iam", env, "dms-secrets-access-policy"),
		resource.Allow([]string{"secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"}, secret.ARN))
	secretsRole.Depends(db)

	sg := resource.NewSecurityGroup(topology.Name("dms", env, "sg"), "dms replication instance", network)

	subnets := &resource.ReplicationSubnetGroup{
		Meta:        topology.Meta{Name: topology.Name("dms", env, "replication-subnet"), Kind: resource.KindReplicationSubnetGroup},
		Description: "dms replication instance subnet group",
		SubnetIDs:   network.SubnetIDs(false),
	}
	subnets.Depends(network)

	instance := &resource.ReplicationInstance{
		Meta:               topology.Meta{Name: topology.Name("dms", env, "replication-instance"), Kind: resource.KindReplicationInstance},
		InstanceClass:      replicationInstanceClass,
		AllocatedStorage:   100,
		EngineVersion:      replicationEngineVersion,
		PubliclyAccessible: false,
		SecurityGroupIDs:   []string{sg.ID()},
		SubnetGroupID:      topology.Attr(subnets, "id"),
	}
	instance.Depends(subnets, sg)

	source := &resource.Endpoint{
		Meta:                      topology.Meta{Name: topology.Name("dms-source", env, "orders-rds-endpoint"), Kind: resource.KindEndpoint},
		EndpointType:              "source",
		EngineName:                "postgres",
		ServerName:                db.Address(),
		Port:                      db.Port,
		DatabaseName:              db.DatabaseName,
		Credentials:               &secret,
		SecretsAccessRoleARN:      topology.Attr(secretsRole, "arn"),
		ExtraConnectionAttributes: "captureDDLs=Y",
	}
	source.Depends(db, secretsRole)

	target := &resource.Endpoint{
		Meta:         topology.Meta{Name: topology.Name("dms-target", env, "orders-s3-endpoint"), Kind: resource.KindEndpoint},
		EndpointType: "target",
		EngineName:   "s3",
		S3: &resource.S3TargetSettings{
			BucketName:           raw.Name,
			BucketFolder:         OrdersBucketFolder,
			CompressionType:      "GZIP",
			DataFormat:           "parquet",
			TimestampColumnName:  "extracted_at",
			IncludeOpForFullLoad: true,
			MaxFileSizeKB:        131072,
			CsvDelimiter:         ",",
			CsvRowDelimiter:      "\\n",
			ServiceAccessRoleARN: topology.Attr(targetRole, "arn"),
		},
	}
	target.Depends(raw, targetRole)

	mappings, err := resource.IncludeAllTables()
	if err != nil {
		return nil, err
	}
	task := &resource.ReplicationTask{
		Meta:              topology.Meta{Name: env.String() + "-dms-task-orders-rds", Kind: resource.KindReplicationTask},
		MigrationType:     "full-load-and-cdc",
		InstanceARN:       topology.Attr(instance, "arn"),
		SourceEndpointARN: source.ARN(),
		TargetEndpointARN: target.ARN(),
		TableMappings:     mappings,
	}
	task.Depends(instance, source, target)

	if err := s.add(targetRole, secretsRole, sg, subnets, instance, source, target, task); err != nil {
		return nil, err
	}
	return &DMSStack{
		Stack:          s.Stack,
		TargetRole:     targetRole,
		SecretsRole:    secretsRole,
		SecurityGroup:  sg,
		SubnetGroup:    subnets,
		Instance:       instance,
		SourceEndpoint: source,
		TargetEndpoint: target,
		Task:           task,
	}, nil
}
