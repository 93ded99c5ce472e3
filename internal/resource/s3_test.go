package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

func TestNewDataLakeBucket(t *testing.T) {
	for _, layer := range Layers() {
		t.Run(string(layer), func(t *testing.T) {
			b, err := NewDataLakeBucket(environment.Staging, layer)
			require.NoError(t, err)

			assert.Equal(t, "s3-belisco-staging-data-lake-"+string(layer), b.Name)
			assert.Equal(t, KindBucket, b.Kind)
			assert.True(t, b.Versioned)
			assert.True(t, b.Encrypted())
			assert.True(t, b.PublicAccess.Blocked())
			assert.Empty(t, b.DependsOn)
			assert.Equal(t, string(layer), b.Tags["layer"])
			assert.Len(t, b.Lifecycle, 3)
			assert.Equal(t, "arn:aws:s3:::s3-belisco-staging-data-lake-"+string(layer), b.ARN())
		})
	}
}

func TestNewDataLakeBucket_UnknownLayer(t *testing.T) {
	_, err := NewDataLakeBucket(environment.Staging, Layer("bronze"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLayer))
}

func TestStackAdd_RejectsUnknownLayer(t *testing.T) {
	g := topology.New(environment.Develop)
	s, err := g.NewStack("develop-data-lake-stack")
	require.NoError(t, err)

	gold := NewBucket("s3-belisco-develop-data-lake-gold")
	gold.Layer = "gold"
	err = s.Add(gold)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLayer))
	assert.Zero(t, g.Len())

	raw, err := NewDataLakeBucket(environment.Develop, LayerRaw)
	require.NoError(t, err)
	require.NoError(t, s.Add(raw))
	require.NoError(t, s.Add(NewBucket("s3-develop-scratch")))
}

func TestNewBucket_BaselineOverrides(t *testing.T) {
	plain := NewBucket("plain")
	assert.True(t, plain.PublicAccess.Blocked())
	assert.Equal(t, EncryptionS3Managed, plain.Encryption)
	assert.False(t, plain.Versioned)

	open := NewBucket("open", WithoutPublicAccessBlock(), WithEncryption(EncryptionNone))
	assert.Nil(t, open.PublicAccess)
	assert.False(t, open.PublicAccess.Blocked())
	assert.False(t, open.Encrypted())
}

func TestDefaultLifecycleRules(t *testing.T) {
	rules := DefaultLifecycleRules()

	assert.Equal(t, 7, rules[0].AbortIncompleteMultipartUploadDays)
	assert.Equal(t, []Transition{
		{Days: 30, StorageClass: StorageInfrequentAccess},
		{Days: 60, StorageClass: StorageGlacier},
	}, rules[1].NoncurrentVersionTransitions)
	assert.Equal(t, 360, rules[2].NoncurrentVersionExpirationDays)
}

func TestNewResultsBucket(t *testing.T) {
	b := NewResultsBucket("s3-belisco-develop-data-lake-athena-results")

	assert.True(t, b.ForceDestroy)
	assert.True(t, b.PublicAccess.Blocked())
	require.Len(t, b.Lifecycle, 1)
	assert.Equal(t, ResultsRetentionDays, b.Lifecycle[0].ExpirationDays)
}

func TestBucketURIAndObject(t *testing.T) {
	b := NewBucket("s3-develop-belisco-airflow")
	assert.Equal(t, "s3://s3-develop-belisco-airflow", b.URI())
	assert.Equal(t, "s3://s3-develop-belisco-airflow/dags/x.py", b.URI("dags", "x.py"))
	assert.Equal(t, "arn:aws:s3:::s3-develop-belisco-airflow/*", b.ObjectsARN())

	o := NewBucketObject("airflow-dag", b, "dags/x.py", "assets/airflow/dags/x.py")
	assert.Equal(t, []string{b.Name}, o.DependsOn)
	assert.Equal(t, "${ref:s3-develop-belisco-airflow.id}", o.Bucket)
}
