package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

func TestValidateStatements(t *testing.T) {
	raw, err := NewDataLakeBucket(environment.Staging, LayerRaw)
	require.NoError(t, err)

	tests := []struct {
		name      string
		statement Statement
		wantErr   bool
	}{
		{name: "scoped bucket", statement: BucketAccess([]string{"s3:GetObject"}, raw)},
		{name: "star resource", statement: Allow([]string{"s3:GetObject"}, "*"), wantErr: true},
		{name: "no resource", statement: Allow([]string{"s3:PutObject"}), wantErr: true},
		{name: "every bucket", statement: Allow([]string{"s3:ListBucket"}, "arn:aws:s3:::*"), wantErr: true},
		{name: "prefix pattern", statement: Allow([]string{"s3:ListBucket"}, BucketARN("s3-belisco-staging-data-lake-*"))},
		{name: "non data action may use star", statement: Allow([]string{"cloudwatch:PutMetricData"}, "*")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatements([]Statement{tt.statement})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBroadDataAccess))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRole_TrustPolicy(t *testing.T) {
	role := NewServiceRole("iam-staging-airflow-execution-role", "airflow", "airflow.amazonaws.com", "airflow-env.amazonaws.com")
	require.NoError(t, role.Validate())

	doc, err := role.TrustPolicy()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "2012-10-17", parsed["Version"])
	stmt := parsed["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"sts:AssumeRole"}, stmt["Action"])
	assert.Equal(t,
		map[string]any{"Service": []any{"airflow.amazonaws.com", "airflow-env.amazonaws.com"}},
		stmt["Principal"])
	assert.Equal(t, "arn:aws:iam::${aws:account}:role/iam-staging-airflow-execution-role", role.ARN())
}

func TestRole_ValidateRejectsBroadPolicy(t *testing.T) {
	role := NewServiceRole("iam-develop-wide-role", "too wide", "glue.amazonaws.com")
	role.Attach("everything", Allow([]string{"s3:*"}, "*"))

	err := role.Validate()
	assert.True(t, errors.Is(err, ErrBroadDataAccess))
}

func TestRole_ValidateRequiresPrincipal(t *testing.T) {
	assert.Error(t, NewRole("iam-develop-orphan-role", "nobody").Validate())
}

func TestPolicyDocument_Conditions(t *testing.T) {
	doc, err := PolicyDocument([]Statement{
		Allow([]string{"iam:CreateServiceLinkedRole"}, "arn:aws:iam::*:role/aws-service-role/spot.amazonaws.com/*").
			When("StringLike", "iam:AWSServiceName", "spot.amazonaws.com"),
	})
	require.NoError(t, err)
	assert.Contains(t, doc, `"Condition":{"StringLike":{"iam:AWSServiceName":"spot.amazonaws.com"}}`)
}

func TestAccountPrincipal(t *testing.T) {
	p := AccountPrincipal("414351767826")
	assert.Equal(t, Principal{Type: "AWS", Identifiers: []string{"arn:aws:iam::414351767826:root"}}, p)
}
