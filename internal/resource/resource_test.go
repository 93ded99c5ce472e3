package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

func TestNewNetwork(t *testing.T) {
	n, err := NewNetwork("vpc-staging", "10.0.0.0/16", []string{"us-east-1a", "us-east-1b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24"}, n.SubnetCidrs(true))
	assert.Equal(t, []string{"10.0.2.0/24", "10.0.3.0/24"}, n.SubnetCidrs(false))
	assert.Equal(t, []string{"${ref:vpc-staging.subnet2Id}", "${ref:vpc-staging.subnet3Id}"}, n.SubnetIDs(false))
	assert.Zero(t, n.NatGateways)
	assert.False(t, n.VpnGateway)
}

func TestNewNetwork_Invalid(t *testing.T) {
	_, err := NewNetwork("vpc", "10.0.0.0/24", []string{"a", "b"})
	assert.Error(t, err)
	_, err = NewNetwork("vpc", "not-a-cidr", []string{"a", "b"})
	assert.Error(t, err)
	_, err = NewNetwork("vpc", "10.0.0.0/16", []string{"a"})
	assert.Error(t, err)
}

func TestSecurityGroup(t *testing.T) {
	n, err := NewNetwork("vpc-develop", "10.0.0.0/16", []string{"a", "b"})
	require.NoError(t, err)

	sg := NewSecurityGroup("dms-develop-sg", "replication", n)
	assert.Equal(t, []string{"vpc-develop"}, sg.DependsOn)
	assert.Equal(t, "${ref:vpc-develop.id}", sg.VpcID)
	assert.Empty(t, sg.Ingress)
	assert.Equal(t, AllowAllOutbound(), sg.Egress)
	require.NoError(t, sg.Validate())

	sg.Allow(TCP(5432, "10.0.2.0/24", "postgres"), TCPFromSelf(443, "https"))
	require.NoError(t, sg.Validate())

	sg.Allow(Rule{Protocol: "tcp", FromPort: 80, ToPort: 80})
	assert.Error(t, sg.Validate())
}

func TestLogicalReplicationParameters(t *testing.T) {
	params := LogicalReplicationParameters()
	assert.Contains(t, params, DBParameter{Name: "rds.logical_replication", Value: "1", ApplyMethod: "pending-reboot"})
	assert.Contains(t, params, DBParameter{Name: "wal_sender_timeout", Value: "0"})
}

func TestSecretRef(t *testing.T) {
	db := &Database{Meta: topology.Meta{Name: "rds-staging-orders-db", Kind: KindDatabase}}
	secret := db.Secret()

	assert.Equal(t, "${ref:rds-staging-orders-db.secretArn}", secret.String())
	assert.Equal(t, "${ref:rds-staging-orders-db.secretArn}:SecretString:password", secret.WithField("password").String())
	assert.Empty(t, secret.Field)
}

func TestNewCatalogDatabase(t *testing.T) {
	b := NewBucket("s3-belisco-staging-data-lake-raw")
	b.Layer = LayerRaw

	db := NewCatalogDatabase(b)
	assert.Equal(t, "glue-belisco-staging-data-lake-raw", db.Name)
	assert.Equal(t, "glue_belisco_staging_data_lake_raw", db.DatabaseName)
	assert.Equal(t, "s3://s3-belisco-staging-data-lake-raw", db.LocationURI)
	assert.Equal(t, []string{b.Name}, db.DependsOn)
}

func TestEndpoint_Check(t *testing.T) {
	secret := SecretRef{ARN: "${ref:rds-develop-orders-db.secretArn}"}
	valid := func() *Endpoint {
		return &Endpoint{
			Meta:                 topology.Meta{Name: "dms-source-develop-orders", Kind: KindEndpoint},
			EndpointType:         "source",
			EngineName:           "postgres",
			ServerName:           "${ref:rds-develop-orders-db.address}",
			Port:                 5432,
			Credentials:          &secret,
			SecretsAccessRoleARN: "${ref:iam-develop-dms-secrets.arn}",
		}
	}
	require.NoError(t, valid().Check())

	narrowed := valid()
	field := secret.WithField("password")
	narrowed.Credentials = &field
	assert.Error(t, narrowed.Check())

	noHost := valid()
	noHost.ServerName = ""
	assert.Error(t, noHost.Check())

	noRole := valid()
	noRole.SecretsAccessRoleARN = ""
	assert.Error(t, noRole.Check())

	target := &Endpoint{Meta: topology.Meta{Name: "dms-target", Kind: KindEndpoint}, EngineName: "s3"}
	assert.NoError(t, target.Check())
}

func TestIncludeAllTables(t *testing.T) {
	var mappings struct {
		Rules []map[string]any `json:"rules"`
	}
	raw, err := IncludeAllTables()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), &mappings))
	require.Len(t, mappings.Rules, 1)
	assert.Equal(t, "include", mappings.Rules[0]["rule-action"])
	assert.Equal(t, map[string]any{"schema-name": "%", "table-name": "%"}, mappings.Rules[0]["object-locator"])
}

func TestBytesFromGB(t *testing.T) {
	assert.Equal(t, 1_000_000_000, BytesFromGB(1))
	assert.Equal(t, 10_000_000_000, BytesFromGB(10))
}

func TestAirflowEnvironmentARN(t *testing.T) {
	assert.Equal(t, "arn:aws:airflow:${aws:region}:${aws:account}:environment/staging-airflow", AirflowEnvironmentARN("staging-airflow"))
}

func TestNewParameter(t *testing.T) {
	db := &Database{Meta: topology.Meta{Name: "rds-develop-orders-db", Kind: KindDatabase}}

	p := NewParameter("develop", "orders-db-address", db.Address(), db)
	assert.Equal(t, "ssm-develop-orders-db-address", p.Name)
	assert.Equal(t, "/belisco/develop/orders-db-address", p.Path)
	assert.Equal(t, "${ref:rds-develop-orders-db.address}", p.Value)
	assert.Equal(t, []string{db.Name}, p.DependsOn)
}
