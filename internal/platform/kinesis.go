package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// KinesisStack is the direct streaming ingestion path into the raw layer.
type KinesisStack struct {
	Stack  *topology.Stack
	Role   *resource.Role
	Stream *resource.DeliveryStream
}

// NewKinesisStack builds <env>-kinesis-stack.
func NewKinesisStack(g *topology.Graph, lake *DataLakeStack, log *zap.SugaredLogger) (*KinesisStack, error) {
	s, err := newScope(g, "kinesis-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	raw := lake.Raw

	role := resource.NewServiceRole(
		topology.Name("iam", env, "data-lake-raw-firehose-role"),
		"Role to allow Kinesis to save data to data lake raw",
		"firehose.amazonaws.com")
	role.Attach(topology.Name("iam", env, "data-lake-raw-firehose-policy"),
		resource.BucketAccess([]string{
			"s3:AbortMultipartUpload",
			"s3:GetBucketLocation",
			"s3:GetObject",
			"s3:ListBucket",
			"s3:ListBucketMultipartUploads",
			"s3:PutObject",
		}, raw))
	role.Depends(raw)

	stream := &resource.DeliveryStream{
		Meta:                  topology.Meta{Name: topology.Name("firehose", env, "raw-delivery-stream"), Kind: resource.KindDeliveryStream},
		StreamType:            "DirectPut",
		BucketARN:             raw.ARN(),
		RoleARN:               topology.Attr(role, "arn"),
		Prefix:                "atomic_events/landing_date=!{timestamp:yyyy}-!{timestamp:MM}-!{timestamp:dd}/",
		ErrorOutputPrefix:     "bad_records",
		CompressionFormat:     "GZIP",
		BufferIntervalSeconds: 60,
		BufferSizeMB:          1,
	}
	stream.Depends(raw, role)

	published := resource.NewParameter(env, "raw-delivery-stream-name", topology.Attr(stream, "name"), stream)

	if err := s.add(role, stream, published); err != nil {
		return nil, err
	}
	return &KinesisStack{Stack: s.Stack, Role: role, Stream: stream}, nil
}
