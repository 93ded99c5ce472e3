package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// DataLakeStack owns the three layer buckets.
type DataLakeStack struct {
	Stack   *topology.Stack
	Raw     *resource.Bucket
	Staged  *resource.Bucket
	Curated *resource.Bucket
}

// Buckets returns the layer buckets from raw to curated.
func (d *DataLakeStack) Buckets() []*resource.Bucket {
	return []*resource.Bucket{d.Raw, d.Staged, d.Curated}
}

// NewDataLakeStack builds <env>-data-lake-stack. Raw data additionally ages
// into intelligent tiering and then glacier.
func NewDataLakeStack(g *topology.Graph, log *zap.SugaredLogger) (*DataLakeStack, error) {
	s, err := newScope(g, "data-lake-stack", log)
	if err != nil {
		return nil, err
	}

	raw, err := resource.NewDataLakeBucket(s.env(), resource.LayerRaw, resource.WithLifecycleRule(resource.LifecycleRule{
		ID: "raw-transitions",
		Transitions: []resource.Transition{
			{Days: 90, StorageClass: resource.StorageIntelligentTiering},
			{Days: 360, StorageClass: resource.StorageGlacier},
		},
	}))
	if err != nil {
		return nil, err
	}
	staged, err := resource.NewDataLakeBucket(s.env(), resource.LayerStaged)
	if err != nil {
		return nil, err
	}
	curated, err := resource.NewDataLakeBucket(s.env(), resource.LayerCurated)
	if err != nil {
		return nil, err
	}

	if err := s.add(raw, staged, curated); err != nil {
		return nil, err
	}
	return &DataLakeStack{Stack: s.Stack, Raw: raw, Staged: staged, Curated: curated}, nil
}
