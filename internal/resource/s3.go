// Package resource holds the typed descriptors the platform stacks compose,
// together with the pure functions that derive their names and security
// baselines from the environment.
package resource

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	KindBucket       topology.Kind = "aws:s3:Bucket"
	KindBucketObject topology.Kind = "aws:s3:BucketObject"
)

// ServicePrefix starts every data lake bucket name.
const ServicePrefix = "s3-belisco"

var ErrUnknownLayer = errors.New("unknown data lake layer")

// Layer is a stage of data maturity.
type Layer string

const (
	LayerRaw     Layer = "raw"
	LayerStaged  Layer = "staged"
	LayerCurated Layer = "curated"
)

// Layers returns every layer from least to most refined.
func Layers() []Layer {
	return []Layer{LayerRaw, LayerStaged, LayerCurated}
}

func (l Layer) Valid() bool {
	for _, known := range Layers() {
		if l == known {
			return true
		}
	}
	return false
}

// Encryption is the server side encryption algorithm applied by default.
type Encryption string

const (
	EncryptionS3Managed Encryption = "AES256"
	EncryptionKMS       Encryption = "aws:kms"
	EncryptionNone      Encryption = ""
)

// Storage classes used by lifecycle transitions.
const (
	StorageInfrequentAccess   = "STANDARD_IA"
	StorageIntelligentTiering = "INTELLIGENT_TIERING"
	StorageGlacier            = "GLACIER"
)

// PublicAccessBlock mirrors the four S3 public access block flags.
type PublicAccessBlock struct {
	BlockPublicAcls       bool `yaml:"blockPublicAcls"`
	BlockPublicPolicy     bool `yaml:"blockPublicPolicy"`
	IgnorePublicAcls      bool `yaml:"ignorePublicAcls"`
	RestrictPublicBuckets bool `yaml:"restrictPublicBuckets"`
}

// BlockAll blocks every form of public access.
func BlockAll() *PublicAccessBlock {
	return &PublicAccessBlock{
		BlockPublicAcls:       true,
		BlockPublicPolicy:     true,
		IgnorePublicAcls:      true,
		RestrictPublicBuckets: true,
	}
}

// Blocked reports whether all four flags are set.
func (p *PublicAccessBlock) Blocked() bool {
	return p != nil && p.BlockPublicAcls && p.BlockPublicPolicy && p.IgnorePublicAcls && p.RestrictPublicBuckets
}

// Transition moves objects to StorageClass after Days.
type Transition struct {
	Days         int    `yaml:"days"`
	StorageClass string `yaml:"storageClass"`
}

// LifecycleRule is one bucket lifecycle rule. Zero values mean "not set".
type LifecycleRule struct {
	ID                                 string       `yaml:"id"`
	Prefix                             string       `yaml:"prefix,omitempty"`
	AbortIncompleteMultipartUploadDays int          `yaml:"abortIncompleteMultipartUploadDays,omitempty"`
	Transitions                        []Transition `yaml:"transitions,omitempty"`
	NoncurrentVersionTransitions       []Transition `yaml:"noncurrentVersionTransitions,omitempty"`
	NoncurrentVersionExpirationDays    int          `yaml:"noncurrentVersionExpirationDays,omitempty"`
	ExpirationDays                     int          `yaml:"expirationDays,omitempty"`
}

// Bucket declares an S3 bucket.
type Bucket struct {
	topology.Meta `yaml:",inline"`

	Layer        Layer              `yaml:"layer,omitempty"`
	Versioned    bool               `yaml:"versioned"`
	Encryption   Encryption         `yaml:"encryption"`
	PublicAccess *PublicAccessBlock `yaml:"publicAccess"`
	Lifecycle    []LifecycleRule    `yaml:"lifecycle,omitempty"`
	ForceDestroy bool               `yaml:"forceDestroy"`
	// Policy holds resource policy statements; each must name principals.
	Policy []Statement `yaml:"policy,omitempty"`
}

// BucketOption overrides part of the bucket baseline.
type BucketOption func(*Bucket)

// WithoutPublicAccessBlock drops the public access block.
func WithoutPublicAccessBlock() BucketOption {
	return func(b *Bucket) { b.PublicAccess = nil }
}

// WithEncryption replaces the default S3 managed encryption.
func WithEncryption(e Encryption) BucketOption {
	return func(b *Bucket) { b.Encryption = e }
}

func WithVersioning(enabled bool) BucketOption {
	return func(b *Bucket) { b.Versioned = enabled }
}

// WithForceDestroy lets the engine delete the bucket with objects in it.
func WithForceDestroy() BucketOption {
	return func(b *Bucket) { b.ForceDestroy = true }
}

func WithLifecycleRule(rule LifecycleRule) BucketOption {
	return func(b *Bucket) { b.Lifecycle = append(b.Lifecycle, rule) }
}

// NewBucket returns a bucket with the security baseline: S3 managed
// encryption and all public access blocked.
func NewBucket(name string, opts ...BucketOption) *Bucket {
	b := &Bucket{
		Meta:         topology.Meta{Name: name, Kind: KindBucket},
		Encryption:   EncryptionS3Managed,
		PublicAccess: BlockAll(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DataLakeBucketName returns s3-belisco-<env>-data-lake-<layer>.
func DataLakeBucketName(env environment.Environment, layer Layer) string {
	return topology.Name(ServicePrefix, env, "data-lake", string(layer))
}

// NewDataLakeBucket returns a versioned layer bucket with the default
// lifecycle rules. Options are applied after the defaults.
func NewDataLakeBucket(env environment.Environment, layer Layer, opts ...BucketOption) (*Bucket, error) {
	if !layer.Valid() {
		return nil, errors.Wrapf(ErrUnknownLayer, "%q", layer)
	}
	base := []BucketOption{WithVersioning(true)}
	for _, rule := range DefaultLifecycleRules() {
		base = append(base, WithLifecycleRule(rule))
	}
	b := NewBucket(DataLakeBucketName(env, layer), append(base, opts...)...)
	b.Layer = layer
	b.Tags = map[string]string{"layer": string(layer)}
	return b, nil
}

// DefaultLifecycleRules are applied to every data lake bucket: incomplete
// multipart uploads are aborted after a week and old object versions move
// to colder storage before expiring.
func DefaultLifecycleRules() []LifecycleRule {
	return []LifecycleRule{
		{
			ID:                                 "abort-incomplete-multipart-upload",
			AbortIncompleteMultipartUploadDays: 7,
		},
		{
			ID: "noncurrent-version-transitions",
			NoncurrentVersionTransitions: []Transition{
				{Days: 30, StorageClass: StorageInfrequentAccess},
				{Days: 60, StorageClass: StorageGlacier},
			},
		},
		{
			ID:                              "noncurrent-version-expiration",
			NoncurrentVersionExpirationDays: 360,
		},
	}
}

// Check rejects a layer outside Layers. Buckets outside the data lake
// carry no layer.
func (b *Bucket) Check() error {
	if b.Layer != "" && !b.Layer.Valid() {
		return errors.Wrapf(ErrUnknownLayer, "bucket %s layer %q", b.Name, b.Layer)
	}
	return nil
}

// ARN returns arn:aws:s3:::<name>.
func (b *Bucket) ARN() string {
	return BucketARN(b.Name)
}

// ObjectsARN returns the ARN matching every object in the bucket.
func (b *Bucket) ObjectsARN() string {
	return b.ARN() + "/*"
}

// URI returns s3://<name>[/<path>].
func (b *Bucket) URI(path ...string) string {
	uri := "s3://" + b.Name
	if len(path) > 0 {
		uri += "/" + strings.Join(path, "/")
	}
	return uri
}

// Encrypted reports whether default encryption is enabled.
func (b *Bucket) Encrypted() bool {
	return b.Encryption != EncryptionNone
}

// BucketARN returns the ARN of the bucket (or bucket name pattern) name.
func BucketARN(name string) string {
	return arn.ARN{Partition: "aws", Service: "s3", Resource: name}.String()
}

// BucketObject uploads a local file into a bucket.
type BucketObject struct {
	topology.Meta `yaml:",inline"`

	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
	Source string `yaml:"source"`
}

// NewBucketObject declares the upload of source to key in bucket.
func NewBucketObject(name string, bucket *Bucket, key, source string) *BucketObject {
	o := &BucketObject{
		Meta:   topology.Meta{Name: name, Kind: KindBucketObject},
		Bucket: topology.Attr(bucket, "id"),
		Key:    key,
		Source: source,
	}
	o.Depends(bucket)
	return o
}

// ResultsRetentionDays bounds how long query results and other scratch
// output are kept, well below the data lake's retention.
const ResultsRetentionDays = 60

// NewResultsBucket returns an unversioned scratch bucket whose objects
// expire after ResultsRetentionDays. It can be destroyed while not empty.
func NewResultsBucket(name string, opts ...BucketOption) *Bucket {
	base := []BucketOption{
		WithForceDestroy(),
		WithLifecycleRule(LifecycleRule{
			ID:                                 "expire-results",
			AbortIncompleteMultipartUploadDays: 1,
			ExpirationDays:                     ResultsRetentionDays,
		}),
	}
	return NewBucket(name, append(base, opts...)...)
}
