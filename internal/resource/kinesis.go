package resource

import "github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"

const KindDeliveryStream topology.Kind = "aws:kinesis:FirehoseDeliveryStream"

// DeliveryStream is a managed delivery endpoint that batches pushed records
// and writes them as compressed objects to a bucket.
type DeliveryStream struct {
	topology.Meta `yaml:",inline"`

	StreamType            string `yaml:"streamType"`
	BucketARN             string `yaml:"bucketArn"`
	RoleARN               string `yaml:"roleArn"`
	Prefix                string `yaml:"prefix"`
	ErrorOutputPrefix     string `yaml:"errorOutputPrefix"`
	CompressionFormat     string `yaml:"compressionFormat"`
	BufferIntervalSeconds int    `yaml:"bufferIntervalSeconds"`
	BufferSizeMB          int    `yaml:"bufferSizeMB"`
}
