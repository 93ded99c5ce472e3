package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// AthenaStack is the interactive query service with its results bucket.
type AthenaStack struct {
	Stack         *topology.Stack
	ResultsBucket *resource.Bucket
	Workgroup     *resource.Workgroup
}

// NewAthenaStack builds <env>-athena. Every query scanning more than the
// configured number of gigabytes is cancelled.
func NewAthenaStack(g *topology.Graph, cfg *settings.Settings, log *zap.SugaredLogger) (*AthenaStack, error) {
	s, err := newScope(g, "athena", log)
	if err != nil {
		return nil, err
	}
	env := s.env()

	bucket := resource.NewResultsBucket(
		topology.Name(resource.ServicePrefix, env, "data-lake", "athena-results"),
		resource.WithVersioning(true))

	workgroup := &resource.Workgroup{
		Meta:                       topology.Meta{Name: topology.Name(resource.ServicePrefix, env, "data-lake", "athena-workgroup"), Kind: resource.KindWorkgroup},
		Description:                "Default workgroup for data lake queries",
		State:                      "ENABLED",
		OutputLocation:             bucket.URI(),
		EncryptionOption:           "SSE_S3",
		BytesScannedCutoffPerQuery: resource.BytesFromGB(cfg.Athena.GBScannedCutoffPerQuery),
		EnforceConfiguration:       true,
		PublishMetrics:             true,
		ForceDestroy:               true,
	}
	workgroup.Depends(bucket)

	if err := s.add(bucket, workgroup); err != nil {
		return nil, err
	}
	return &AthenaStack{Stack: s.Stack, ResultsBucket: bucket, Workgroup: workgroup}, nil
}
