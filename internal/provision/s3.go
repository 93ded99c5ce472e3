package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) bucket(b *resource.Bucket, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	args := &s3.BucketArgs{
		Bucket:       pulumi.String(b.Name),
		ForceDestroy: pulumi.Bool(b.ForceDestroy),
		Versioning: &s3.BucketVersioningArgs{
			Enabled: pulumi.Bool(b.Versioned),
		},
		LifecycleRules: lifecycleRules(b.Lifecycle),
		Tags:           tags(&b.Meta),
	}
	if b.Encrypted() {
		args.ServerSideEncryptionConfiguration = &s3.BucketServerSideEncryptionConfigurationArgs{
			Rule: &s3.BucketServerSideEncryptionConfigurationRuleArgs{
				ApplyServerSideEncryptionByDefault: &s3.BucketServerSideEncryptionConfigurationRuleApplyServerSideEncryptionByDefaultArgs{
					SseAlgorithm: pulumi.String(string(b.Encryption)),
				},
			},
		}
	}
	bucket, err := s3.NewBucket(p.ctx, b.Name, args, opts...)
	if err != nil {
		return nil, nil, err
	}
	created := []pulumi.Resource{bucket}

	if b.PublicAccess != nil {
		block, err := s3.NewBucketPublicAccessBlock(p.ctx, b.Name+"-public-access-block", &s3.BucketPublicAccessBlockArgs{
			Bucket:                bucket.ID(),
			BlockPublicAcls:       pulumi.Bool(b.PublicAccess.BlockPublicAcls),
			BlockPublicPolicy:     pulumi.Bool(b.PublicAccess.BlockPublicPolicy),
			IgnorePublicAcls:      pulumi.Bool(b.PublicAccess.IgnorePublicAcls),
			RestrictPublicBuckets: pulumi.Bool(b.PublicAccess.RestrictPublicBuckets),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, block)
	}

	if len(b.Policy) > 0 {
		// The policy must wait for the public access block, otherwise
		// BlockPublicPolicy can race with it.
		policy, err := s3.NewBucketPolicy(p.ctx, b.Name+"-policy", &s3.BucketPolicyArgs{
			Bucket: bucket.ID(),
			Policy: p.document(b.Policy),
		}, append(opts, pulumi.DependsOn(created))...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, policy)
	}

	return created, attrs{
		"id":   bucket.ID().ToStringOutput(),
		"arn":  bucket.Arn,
		"name": bucket.Bucket,
	}, nil
}

func lifecycleRules(rules []resource.LifecycleRule) s3.BucketLifecycleRuleArray {
	out := make(s3.BucketLifecycleRuleArray, 0, len(rules))
	for _, r := range rules {
		rule := &s3.BucketLifecycleRuleArgs{
			Id:      pulumi.String(r.ID),
			Enabled: pulumi.Bool(true),
		}
		if r.Prefix != "" {
			rule.Prefix = pulumi.String(r.Prefix)
		}
		if r.AbortIncompleteMultipartUploadDays > 0 {
			rule.AbortIncompleteMultipartUploadDays = pulumi.Int(r.AbortIncompleteMultipartUploadDays)
		}
		if r.ExpirationDays > 0 {
			rule.Expiration = &s3.BucketLifecycleRuleExpirationArgs{
				Days: pulumi.Int(r.ExpirationDays),
			}
		}
		if r.NoncurrentVersionExpirationDays > 0 {
			rule.NoncurrentVersionExpiration = &s3.BucketLifecycleRuleNoncurrentVersionExpirationArgs{
				Days: pulumi.Int(r.NoncurrentVersionExpirationDays),
			}
		}
		if len(r.Transitions) > 0 {
			transitions := s3.BucketLifecycleRuleTransitionArray{}
			for _, t := range r.Transitions {
				transitions = append(transitions, &s3.BucketLifecycleRuleTransitionArgs{
					Days:         pulumi.Int(t.Days),
					StorageClass: pulumi.String(t.StorageClass),
				})
			}
			rule.Transitions = transitions
		}
		if len(r.NoncurrentVersionTransitions) > 0 {
			transitions := s3.BucketLifecycleRuleNoncurrentVersionTransitionArray{}
			for _, t := range r.NoncurrentVersionTransitions {
				transitions = append(transitions, &s3.BucketLifecycleRuleNoncurrentVersionTransitionArgs{
					Days:         pulumi.Int(t.Days),
					StorageClass: pulumi.String(t.StorageClass),
				})
			}
			rule.NoncurrentVersionTransitions = transitions
		}
		out = append(out, rule)
	}
	return out
}

func (p *Provisioner) bucketObject(o *resource.BucketObject, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	object, err := s3.NewBucketObject(p.ctx, o.Name, &s3.BucketObjectArgs{
		Bucket: p.str(o.Bucket),
		Key:    pulumi.String(o.Key),
		Source: pulumi.NewFileAsset(o.Source),
		Tags:   tags(&o.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{object}, attrs{
		"key":  object.Key,
		"etag": object.Etag,
	}, nil
}
