package platform

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	dagsPath         = "dags"
	requirementsFile = "requirements.txt"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// AirflowAsset is a local file uploaded to the orchestrator bucket.
type AirflowAsset struct {
	Key    string
	Source string
}

// DiscoverAirflowAssets lists every file below dir as an upload keyed by its
// slash separated relative path, sorted by key. A missing dir yields no
// assets.
func DiscoverAirflowAssets(dir string) ([]AirflowAsset, error) {
	var assets []AirflowAsset
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		assets = append(assets, AirflowAsset{Key: filepath.ToSlash(rel), Source: path})
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "discover airflow assets in %s", dir)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Key < assets[j].Key })
	return assets, nil
}

func assetName(env, key string) string {
	slug := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(key), "-"), "-")
	return "airflow-" + env + "-asset-" + slug
}

// AirflowStack is the managed workflow orchestrator.
type AirflowStack struct {
	Stack         *topology.Stack
	Bucket        *resource.Bucket
	Assets        []*resource.BucketObject
	SecurityGroup *resource.SecurityGroup
	ExecutionRole *resource.Role
	Environment   *resource.AirflowEnvironment
}

// NewAirflowStack builds <env>-airflow-stack.
func NewAirflowStack(g *topology.Graph, cfg *settings.Settings, common *CommonStack, lake *DataLakeStack, log *zap.SugaredLogger) (*AirflowStack, error) {
	s, err := newScope(g, "airflow-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	network := common.Network
	raw := lake.Raw
	name := env.String() + "-airflow"

	// the orchestrator requires a versioned source bucket
	bucket := resource.NewBucket(topology.Name("s3", env, "belisco-airflow"), resource.WithVersioning(true), resource.WithForceDestroy())

	files, err := DiscoverAirflowAssets(cfg.Airflow.AssetsDir)
	if err != nil {
		return nil, err
	}
	var objects []*resource.BucketObject
	hasRequirements := false
	for _, f := range files {
		objects = append(objects, resource.NewBucketObject(assetName(env.String(), f.Key), bucket, f.Key, f.Source))
		if f.Key == requirementsFile {
			hasRequirements = true
		}
	}
	if len(files) == 0 {
		s.log.Warnw("no airflow assets found", "dir", cfg.Airflow.AssetsDir)
	}

	sg := resource.NewSecurityGroup(topology.Name("airflow", env, "sg"), "airflow environment", network).
		Allow(
			resource.TCPFromSelf(443, "https between airflow components"),
			resource.TCPFromSelf(postgresPort, "airflow metadata database"),
		)

	role := resource.NewServiceRole(
		topology.Name("iam", env, "airflow-execution-role"),
		"Role to allow Airflow to access resources",
		"airflow.amazonaws.com", "airflow-env.amazonaws.com")
	role.Attach(topology.Name("iam", env, "airflow-execution-policy"),
		resource.BucketAccess([]string{
			"s3:PutObjectTagging",
			"s3:DeleteObject",
			"s3:ListBucket",
			"s3:GetObject",
			"s3:PutObject",
		}, raw),
		resource.Allow([]string{"airflow:PublishMetrics"}, resource.AirflowEnvironmentARN(name)),
		resource.BucketAccess([]string{"s3:GetObject*", "s3:GetBucket*", "s3:List*"}, bucket),
		resource.Allow([]string{
			"logs:CreateLogStream",
			"logs:CreateLogGroup",
			"logs:PutLogEvents",
			"logs:GetLogEvents",
			"logs:GetLogRecord",
			"logs:GetLogGroupFields",
			"logs:GetQueryResults",
		}, "arn:aws:logs:"+topology.Region+":"+topology.Account+":log-group:airflow-"+name+"-*"),
		resource.Allow([]string{"logs:DescribeLogGroups"}, "*"),
		resource.Allow([]string{"cloudwatch:PutMetricData"}, "*"),
		resource.Allow([]string{
			"sqs:ChangeMessageVisibility",
			"sqs:DeleteMessage",
			"sqs:GetQueueAttributes",
			"sqs:GetQueueUrl",
			"sqs:ReceiveMessage",
			"sqs:SendMessage",
		}, "arn:aws:sqs:"+topology.Region+":*:airflow-celery-*"),
	)
	role.Depends(raw, bucket)

	airflow := &resource.AirflowEnvironment{
		Meta:                         topology.Meta{Name: name, Kind: resource.KindAirflowEnvironment},
		AirflowVersion:               cfg.Airflow.Version,
		EnvironmentClass:             cfg.Airflow.EnvironmentClass,
		SourceBucketARN:              bucket.ARN(),
		DagS3Path:                    dagsPath,
		ExecutionRoleARN:             topology.Attr(role, "arn"),
		MinWorkers:                   cfg.Airflow.MinWorkers,
		MaxWorkers:                   cfg.Airflow.MaxWorkers,
		SecurityGroupIDs:             []string{sg.ID()},
		SubnetIDs:                    network.SubnetIDs(false),
		WebserverAccessMode:          "PUBLIC_ONLY",
		WeeklyMaintenanceWindowStart: "WED:01:00",
		LogLevel:                     "WARNING",
	}
	if hasRequirements {
		airflow.RequirementsS3Path = requirementsFile
	}
	airflow.Depends(bucket, sg, role, network)
	for _, o := range objects {
		airflow.Depends(o)
	}

	descriptors := []topology.Descriptor{bucket}
	for _, o := range objects {
		descriptors = append(descriptors, o)
	}
	descriptors = append(descriptors, sg, role, airflow)
	if err := s.add(descriptors...); err != nil {
		return nil, err
	}
	return &AirflowStack{
		Stack:         s.Stack,
		Bucket:        bucket,
		Assets:        objects,
		SecurityGroup: sg,
		ExecutionRole: role,
		Environment:   airflow,
	}, nil
}
