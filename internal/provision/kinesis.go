package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/kinesis"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) deliveryStream(s *resource.DeliveryStream, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	stream, err := kinesis.NewFirehoseDeliveryStream(p.ctx, s.Name, &kinesis.FirehoseDeliveryStreamArgs{
		Name:        pulumi.String(s.Name),
		Destination: pulumi.String("extended_s3"),
		ExtendedS3Configuration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationArgs{
			BucketArn:         p.str(s.BucketARN),
			RoleArn:           p.str(s.RoleARN),
			Prefix:            p.optional(s.Prefix),
			ErrorOutputPrefix: p.optional(s.ErrorOutputPrefix),
			CompressionFormat: p.optional(s.CompressionFormat),
			BufferInterval:    pulumi.Int(s.BufferIntervalSeconds),
			BufferSize:        pulumi.Int(s.BufferSizeMB),
		},
		Tags: tags(&s.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{stream}, attrs{"arn": stream.Arn, "name": stream.Name}, nil
}
