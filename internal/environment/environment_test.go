package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    Environment
		wantErr error
	}{
		{name: "lower case", tag: "staging", want: Staging},
		{name: "enum style upper case", tag: "PRODUCTION", want: Production},
		{name: "surrounding whitespace", tag: "  develop\n", want: Develop},
		{name: "empty", tag: "", wantErr: ErrMissingEnvironment},
		{name: "unknown", tag: "qa", wantErr: ErrUnknownEnvironment},
		{name: "near miss", tag: "development", wantErr: ErrUnknownEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tag)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.NotEmpty(t, errors.GetAllHints(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Unset(t *testing.T) {
	lookup := func(string) (string, bool) { return "", false }

	_, err := Resolve(lookup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEnvironment))
}

func TestResolve_ReadsVariable(t *testing.T) {
	var asked string
	lookup := func(key string) (string, bool) {
		asked = key
		return "Staging", true
	}

	env, err := Resolve(lookup)
	require.NoError(t, err)
	assert.Equal(t, Variable, asked)
	assert.Equal(t, Staging, env)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(Variable, "develop")

	env, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Develop, env)
}

func TestAll_Valid(t *testing.T) {
	for _, env := range All() {
		assert.True(t, env.Valid(), env)
	}
	assert.False(t, Environment("").Valid())
}
