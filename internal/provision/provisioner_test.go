package provision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/logging"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/platform"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

func testOptions() Options {
	return Options{
		Region:    "us-east-1",
		AccountID: "123456789012",
		Secret: func(key string) pulumi.StringOutput {
			return pulumi.String("s3cr3t-" + key).ToStringOutput()
		},
	}
}

func staging(t *testing.T) *platform.Topology {
	t.Helper()
	assets := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "dags"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "dags", "orders.py"), []byte("# dag\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "requirements.txt"), []byte("apache-airflow-providers-amazon\n"), 0o644))

	v := viper.New()
	settings.SetDefaults(v)
	v.Set("airflow.assets_dir", assets)
	cfg, err := settings.LoadWithViper(v)
	require.NoError(t, err)

	top, err := platform.Assemble(environment.Staging, cfg, logging.Nop())
	require.NoError(t, err)
	return top
}

func run(g *topology.Graph, opts Options) (*mocks, *Provisioner, error) {
	m := newMocks()
	var p *Provisioner
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		var err error
		p, err = New(ctx, logging.Nop(), opts)
		if err != nil {
			return err
		}
		return p.Apply(g)
	}, pulumi.WithMocks("data-platform", "staging", m))
	return m, p, err
}

func TestApply_RegistersEveryDescriptor(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	for _, d := range top.Graph.Descriptors() {
		meta := d.Metadata()
		_, ok := m.get(meta.Name)
		require.True(t, ok, "%s was not provisioned", meta.Name)
		assert.Equal(t, meta.Stack, m.parent(meta.Name), meta.Name)
	}
	for _, s := range top.Graph.Stacks() {
		args, ok := m.get(s.Name())
		require.True(t, ok, s.Name())
		assert.Equal(t, StackType, args.TypeToken)
	}
}

func TestApply_PassesExplicitEdges(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	for _, d := range top.Graph.Descriptors() {
		meta := d.Metadata()
		for _, dep := range meta.DependsOn {
			assert.True(t, m.dependsOn(meta.Name, dep), "%s should depend on %s", meta.Name, dep)
		}
	}
}

func TestApply_ResolvesTokens(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	for _, s := range m.allStrings() {
		assert.NotContains(t, s, "${", "unresolved token in %q", s)
	}

	source := top.DMS.SourceEndpoint.Name
	assert.Equal(t, mockSecretArn, m.input(source, "secretsManagerArn"))
	assert.Equal(t, mockAddress, m.input(source, "serverName"))
	assert.Equal(t, "arn:aws:mock:us-east-1:123456789012:"+top.DMS.SecretsRole.Name,
		m.input(source, "secretsManagerAccessRoleArn"))

	var secretsPolicy string
	for _, args := range m.all() {
		if args.TypeToken == "aws:iam/rolePolicy:RolePolicy" && strings.HasPrefix(args.Name, top.DMS.SecretsRole.Name) {
			secretsPolicy = args.Inputs["policy"].StringValue()
		}
	}
	assert.Contains(t, secretsPolicy, mockSecretArn)

	address, ok := m.get("ssm-staging-orders-db-address")
	require.True(t, ok)
	assert.Equal(t, mockAddress, address.Inputs["value"].StringValue())
	assert.Equal(t, "/belisco/staging/orders-db-address", address.Inputs["name"].StringValue())
}

func TestApply_PseudoParameters(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	var found bool
	for _, s := range m.allStrings() {
		if strings.Contains(s, "arn:aws:airflow:us-east-1:123456789012:environment/") {
			found = true
		}
	}
	assert.True(t, found, "airflow environment ARN should carry the region and account")
}

func TestApply_BucketBaseline(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	for _, b := range top.DataLake.Buckets() {
		args, ok := m.get(b.Name)
		require.True(t, ok)
		assert.Equal(t, "aws:s3/bucket:Bucket", args.TypeToken)
		assert.Equal(t, b.Name, args.Inputs["bucket"].StringValue())
		assert.True(t, args.Inputs["serverSideEncryptionConfiguration"].IsObject(), b.Name)

		block, ok := m.get(b.Name + "-public-access-block")
		require.True(t, ok, b.Name)
		for _, flag := range []string{"blockPublicAcls", "blockPublicPolicy", "ignorePublicAcls", "restrictPublicBuckets"} {
			assert.True(t, block.Inputs[resourceKey(flag)].BoolValue(), "%s %s", b.Name, flag)
		}
	}

	_, ok := m.get(top.Databricks.RootBucket.Name + "-policy")
	assert.True(t, ok, "root bucket policy")
}

func TestApply_LifecycleRules(t *testing.T) {
	top := staging(t)
	m, _, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	args, ok := m.get(top.DataLake.Staged.Name)
	require.True(t, ok)
	rules := args.Inputs["lifecycleRules"].ArrayValue()
	require.Len(t, rules, len(top.DataLake.Staged.Lifecycle))

	byID := make(map[string]map[string]interface{})
	for _, r := range rules {
		obj := r.ObjectValue()
		byID[obj["id"].StringValue()] = obj.Mappable()
	}
	noncurrent, ok := byID["noncurrent-version-transitions"]
	require.True(t, ok)
	transitions, ok := noncurrent["noncurrentVersionTransitions"].([]interface{})
	require.True(t, ok)
	require.Len(t, transitions, 2)
	assert.Equal(t, "STANDARD_IA", transitions[0].(map[string]interface{})["storageClass"])
	assert.Equal(t, float64(60), transitions[1].(map[string]interface{})["days"])
	assert.Equal(t, float64(7), byID["abort-incomplete-multipart-upload"]["abortIncompleteMultipartUploadDays"])

	results, ok := m.get(top.Redshift.StagingBucket.Name)
	require.True(t, ok)
	expire := results.Inputs["lifecycleRules"].ArrayValue()[0].ObjectValue().Mappable()
	assert.Equal(t, float64(resource.ResultsRetentionDays), expire["expiration"].(map[string]interface{})["days"])
}

func TestApply_Outputs(t *testing.T) {
	top := staging(t)
	_, p, err := run(top.Graph, testOptions())
	require.NoError(t, err)

	_, ok := p.Output(top.Redshift.Cluster.Name, "endpoint")
	assert.True(t, ok)
	_, ok = p.Output(top.Airflow.Environment.Name, "webserverUrl")
	assert.True(t, ok)
	_, ok = p.Output(top.Airflow.Environment.Name, "nope")
	assert.False(t, ok)
}

func TestApply_UnresolvedReference(t *testing.T) {
	g := topology.New(environment.Develop)
	s, err := g.NewStack("develop-test")
	require.NoError(t, err)
	bucket := resource.NewBucket("s3-develop-test")
	require.NoError(t, s.Add(bucket))
	param := resource.NewParameter(environment.Develop, "bucket-size", topology.Attr(bucket, "size"), bucket)
	require.NoError(t, s.Add(param))

	_, _, err = run(g, testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedReference), err.Error())
}

type unknownDescriptor struct {
	topology.Meta `yaml:",inline"`
}

func TestApply_UnsupportedKind(t *testing.T) {
	g := topology.New(environment.Develop)
	s, err := g.NewStack("develop-test")
	require.NoError(t, err)
	require.NoError(t, s.Add(&unknownDescriptor{Meta: topology.Meta{Name: "mystery", Kind: "aws:mystery:Thing"}}))

	_, _, err = run(g, testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedKind), err.Error())
}

func TestApply_WarehouseNeedsSecretSource(t *testing.T) {
	top := staging(t)
	opts := testOptions()
	opts.Secret = nil

	_, _, err := run(top.Graph, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), top.Redshift.Cluster.Name)
}

func TestNew_RequiresRegionAndAccount(t *testing.T) {
	g := topology.New(environment.Develop)

	opts := testOptions()
	opts.Region = ""
	_, _, err := run(g, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")

	opts = testOptions()
	opts.AccountID = ""
	_, _, err = run(g, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account")
}
