package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	ordersDatabaseName = "orders"
	ordersDatabaseUser = "postgres"
	postgresPort       = 5432
)

// CommonStack holds the network and the orders database every other stack
// attaches to.
type CommonStack struct {
	Stack               *topology.Stack
	Network             *resource.Network
	OrdersSecurityGroup *resource.SecurityGroup
	ParameterGroup      *resource.ParameterGroup
	SubnetGroup         *resource.DBSubnetGroup
	OrdersDatabase      *resource.Database
	Parameters          []*resource.Parameter
}

// OrdersSecret returns the reference to the orders database credentials.
func (c *CommonStack) OrdersSecret() resource.SecretRef {
	return c.OrdersDatabase.Secret()
}

// NewCommonStack builds <env>-common-stack.
func NewCommonStack(g *topology.Graph, cfg *settings.Settings, log *zap.SugaredLogger) (*CommonStack, error) {
	s, err := newScope(g, "common-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()

	network, err := resource.NewNetwork(topology.Name("vpc", env), cfg.Network.CidrBlock, cfg.Network.AvailabilityZones)
	if err != nil {
		return nil, err
	}

	sg := resource.NewSecurityGroup(topology.Name("orders", env, "sg"), "orders database", network).
		Allow(resource.TCP(postgresPort, cfg.Database.IngressCidr, "postgres"))
	for _, cidr := range network.SubnetCidrs(false) {
		sg.Allow(resource.TCP(postgresPort, cidr, "postgres from private subnet"))
	}

	params := &resource.ParameterGroup{
		Meta:        topology.Meta{Name: topology.Name("orders", env, "rds-parameter-group"), Kind: resource.KindParameterGroup},
		Family:      "postgres12",
		Description: "Parameter group to allow CDC from RDS using DMS.",
		Parameters:  resource.LogicalReplicationParameters(),
	}

	subnets := &resource.DBSubnetGroup{
		Meta:        topology.Meta{Name: topology.Name("rds", env, "subnet"), Kind: resource.KindDBSubnetGroup},
		Description: "place RDS on public subnet",
		SubnetIDs:   network.SubnetIDs(true),
	}
	subnets.Depends(network)

	db := &resource.Database{
		Meta:               topology.Meta{Name: topology.Name("rds", env, "orders-db"), Kind: resource.KindDatabase},
		Engine:             "postgres",
		EngineVersion:      cfg.Database.EngineVersion,
		InstanceClass:      cfg.Database.InstanceClass,
		AllocatedStorage:   cfg.Database.AllocatedStorage,
		DatabaseName:       ordersDatabaseName,
		Username:           ordersDatabaseUser,
		Port:               postgresPort,
		SubnetGroup:        subnets.Name,
		ParameterGroup:     params.Name,
		SecurityGroupIDs:   []string{sg.ID()},
		PubliclyAccessible: true,
		StorageEncrypted:   true,
		ManagedPassword:    true,
	}
	db.Depends(subnets, params, sg)

	published := []*resource.Parameter{
		resource.NewParameter(env, "vpc-id", network.VpcID(), network),
		resource.NewParameter(env, "orders-db-address", db.Address(), db),
		resource.NewParameter(env, "orders-db-secret-arn", db.Secret().ARN, db),
	}

	if err := s.add(network, sg, params, subnets, db); err != nil {
		return nil, err
	}
	for _, p := range published {
		if err := s.add(p); err != nil {
			return nil, err
		}
	}
	return &CommonStack{
		Stack:               s.Stack,
		Network:             network,
		OrdersSecurityGroup: sg,
		ParameterGroup:      params,
		SubnetGroup:         subnets,
		OrdersDatabase:      db,
		Parameters:          published,
	}, nil
}
