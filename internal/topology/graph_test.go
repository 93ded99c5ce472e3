package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

type fakeResource struct {
	Meta `yaml:",inline"`

	Target string `yaml:"target,omitempty"`
}

func newFake(name string, deps ...Descriptor) *fakeResource {
	f := &fakeResource{Meta: Meta{Name: name, Kind: "test:fake"}}
	f.Depends(deps...)
	return f
}

func newStack(t *testing.T, g *Graph, name string) *Stack {
	t.Helper()
	s, err := g.NewStack(name)
	require.NoError(t, err)
	return s
}

func TestStackAdd_RecordsOwnership(t *testing.T) {
	g := New(environment.Staging)
	s := newStack(t, g, "staging-common-stack")

	bucket := newFake("bucket")
	require.NoError(t, s.Add(bucket))

	assert.Equal(t, "staging-common-stack", bucket.Stack)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []string{"bucket"}, g.Names())
	got, ok := g.Lookup("bucket")
	require.True(t, ok)
	assert.Same(t, bucket, got)
	assert.Equal(t, environment.Staging, s.Environment())
}

func TestStackAdd_DuplicateNameAcrossStacks(t *testing.T) {
	g := New(environment.Staging)
	first := newStack(t, g, "staging-first")
	second := newStack(t, g, "staging-second")

	require.NoError(t, first.Add(newFake("shared")))
	err := second.Add(newFake("shared"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
	assert.Contains(t, errors.GetAllDetails(err)[0], "staging-first")
}

func TestStackAdd_ForwardReferenceRejected(t *testing.T) {
	g := New(environment.Develop)
	s := newStack(t, g, "develop-stack")

	late := newFake("late")
	err := s.Add(newFake("early", late))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDependency))
	assert.Zero(t, g.Len())
}

func TestStackAdd_TokenRequiresEdge(t *testing.T) {
	g := New(environment.Develop)
	s := newStack(t, g, "develop-stack")
	db := newFake("db")
	require.NoError(t, s.Add(db))

	consumer := newFake("consumer")
	consumer.Target = Attr(db, "address")
	err := s.Add(consumer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndeclaredReference))

	consumer.Depends(db)
	require.NoError(t, s.Add(consumer))
}

func TestStackAdd_SelfDependency(t *testing.T) {
	g := New(environment.Develop)
	s := newStack(t, g, "develop-stack")

	self := newFake("self")
	self.DependsOn = []string{"self"}
	err := s.Add(self)
	assert.True(t, errors.Is(err, ErrCycle))
}

func TestStackAdd_InvalidName(t *testing.T) {
	g := New(environment.Develop)
	s := newStack(t, g, "develop-stack")

	for _, name := range []string{"", "Upper", "trailing-", "double--dash"} {
		err := s.Add(newFake(name))
		assert.True(t, errors.Is(err, ErrInvalidName), "name %q: %v", name, err)
	}
}

func TestStackAdd_DedupesEdges(t *testing.T) {
	g := New(environment.Develop)
	s := newStack(t, g, "develop-stack")
	a := newFake("alpha")
	require.NoError(t, s.Add(a))

	b := newFake("beta", a, a)
	require.NoError(t, s.Add(b))
	assert.Equal(t, []string{"alpha"}, b.DependsOn)
}

func TestNewStack_Duplicate(t *testing.T) {
	g := New(environment.Production)
	newStack(t, g, "production-stack")

	_, err := g.NewStack("production-stack")
	assert.True(t, errors.Is(err, ErrDuplicateStack))
}

func TestOrder_DependenciesFirstAndDeterministic(t *testing.T) {
	build := func() *Graph {
		g := New(environment.Staging)
		s := newStack(t, g, "staging-stack")
		vpc := newFake("vpc")
		bucket := newFake("bucket")
		sg := newFake("sg", vpc)
		role := newFake("role", bucket)
		crawler := newFake("crawler", role, bucket, sg)
		for _, d := range []Descriptor{vpc, bucket, sg, role, crawler} {
			require.NoError(t, s.Add(d))
		}
		return g
	}

	first, err := build().Order()
	require.NoError(t, err)
	second, err := build().Order()
	require.NoError(t, err)

	names := func(ds []Descriptor) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.Metadata().Name)
		}
		return out
	}
	assert.Equal(t, []string{"vpc", "bucket", "sg", "role", "crawler"}, names(first))
	assert.Equal(t, names(first), names(second))

	position := make(map[string]int)
	for i, d := range first {
		position[d.Metadata().Name] = i
	}
	for _, d := range first {
		for _, dep := range d.Metadata().DependsOn {
			assert.Less(t, position[dep], position[d.Metadata().Name])
		}
	}
}

func TestValidate_DetectsCycleIntroducedByMutation(t *testing.T) {
	g := New(environment.Staging)
	s := newStack(t, g, "staging-stack")
	a := newFake("alpha")
	require.NoError(t, s.Add(a))
	b := newFake("beta", a)
	require.NoError(t, s.Add(b))
	require.NoError(t, g.Validate())

	a.Depends(b)

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))

	_, err = g.Order()
	assert.True(t, errors.Is(err, ErrCycle))
}

func TestValidate_DetectsDanglingEdge(t *testing.T) {
	g := New(environment.Staging)
	s := newStack(t, g, "staging-stack")
	a := newFake("alpha")
	require.NoError(t, s.Add(a))

	a.DependsOn = append(a.DependsOn, "ghost")
	assert.True(t, errors.Is(g.Validate(), ErrUnknownDependency))
}

func TestDependsOnStacks(t *testing.T) {
	g := New(environment.Staging)
	common := newStack(t, g, "staging-common-stack")
	lake := newStack(t, g, "staging-data-lake-stack")
	consumer := newStack(t, g, "staging-consumer-stack")

	vpc := newFake("vpc")
	bucket := newFake("bucket")
	require.NoError(t, common.Add(vpc))
	require.NoError(t, lake.Add(bucket))
	require.NoError(t, consumer.Add(newFake("job", bucket, vpc)))

	assert.Equal(t, []string{"staging-data-lake-stack", "staging-common-stack"}, consumer.DependsOnStacks())
	assert.Empty(t, common.DependsOnStacks())
	assert.Equal(t, []string{"job"}, g.Dependents("bucket"))
	assert.Len(t, consumer.Resources(), 1)
}
