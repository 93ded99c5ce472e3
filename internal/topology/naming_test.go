package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
)

func TestName(t *testing.T) {
	assert.Equal(t, "s3-belisco-staging-data-lake-raw", Name("s3-belisco", environment.Staging, "data-lake", "raw"))
	assert.Equal(t, "vpc-production", Name("vpc", environment.Production))
	assert.Equal(t, "develop-common-stack", StackName(environment.Develop, "common-stack"))
}

func TestName_DisjointAcrossEnvironments(t *testing.T) {
	seen := make(map[string]environment.Environment)
	for _, env := range environment.All() {
		for _, name := range []string{
			Name("s3-belisco", env, "data-lake", "raw"),
			Name("iam", env, "glue-data-lake-raw-role"),
			StackName(env, "common-stack"),
		} {
			other, dup := seen[name]
			assert.False(t, dup, "%s generated for %s and %s", name, env, other)
			seen[name] = env
		}
	}
}

func TestReferences(t *testing.T) {
	db := newFake("rds-staging-orders-db")
	consumer := newFake("consumer", db)
	consumer.Target = "postgres://" + Attr(db, "address") + ":5432 in " + Region

	refs, err := References(consumer)
	assert.NoError(t, err)
	assert.Equal(t, []Reference{{Name: "rds-staging-orders-db", Attr: "address"}}, refs)
	assert.Equal(t, "${ref:rds-staging-orders-db.address}", refs[0].String())
	assert.True(t, HasTokens(consumer.Target))
	assert.False(t, HasTokens("arn:aws:s3:::bucket"))
}
