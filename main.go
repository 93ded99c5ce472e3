package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/logging"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/platform"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/provision"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// 1. Resolve the environment before anything is constructed
		env, err := environment.FromEnv()
		if err != nil {
			return err
		}

		cfg, err := settings.Load("")
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		// 2. Build the descriptor graph
		top, err := platform.Assemble(env, cfg, log)
		if err != nil {
			return err
		}

		// 3. Register the graph with the engine
		awsCfg := config.New(ctx, "aws")
		projectCfg := config.New(ctx, "")
		provisioner, err := provision.New(ctx, log, provision.Options{
			Region:    awsCfg.Require("region"),
			AccountID: projectCfg.Require("accountId"),
			Secret:    projectCfg.RequireSecret,
		})
		if err != nil {
			return err
		}
		if err := provisioner.Apply(top.Graph); err != nil {
			return err
		}

		exportOutputs(ctx, provisioner, top)
		return nil
	})
}

func exportOutputs(ctx *pulumi.Context, p *provision.Provisioner, top *platform.Topology) {
	export := func(key, name, attr string) {
		if out, ok := p.Output(name, attr); ok {
			ctx.Export(key, out)
		}
	}

	// Network and shared services
	export("vpcId", top.Common.Network.Name, "id")
	export("ordersDbAddress", top.Common.OrdersDatabase.Name, "address")
	export("ordersDbSecretArn", top.Common.OrdersDatabase.Name, "secretArn")

	// Data lake
	for _, b := range top.DataLake.Buckets() {
		export(string(b.Layer)+"BucketName", b.Name, "name")
	}

	// Ingestion
	if top.Kinesis != nil {
		export("rawDeliveryStreamName", top.Kinesis.Stream.Name, "name")
		export("firehoseRoleArn", top.Kinesis.Role.Name, "arn")
	}
	if top.DMS != nil {
		export("dmsReplicationTaskArn", top.DMS.Task.Name, "arn")
		export("dmsTargetRoleArn", top.DMS.TargetRole.Name, "arn")
	}

	// Catalog, query and warehouse
	if top.Catalog != nil {
		export("glueRoleArn", top.Catalog.Role.Name, "arn")
	}
	if top.Athena != nil {
		export("athenaWorkgroupName", top.Athena.Workgroup.Name, "name")
		export("athenaResultsBucketName", top.Athena.ResultsBucket.Name, "name")
	}
	if top.Redshift != nil {
		export("redshiftEndpoint", top.Redshift.Cluster.Name, "endpoint")
		export("redshiftSpectrumRoleArn", top.Redshift.SpectrumRole.Name, "arn")
		export("redshiftUnloadBucketName", top.Redshift.StagingBucket.Name, "name")
	}
	if top.Airflow != nil {
		export("airflowWebserverUrl", top.Airflow.Environment.Name, "webserverUrl")
		export("airflowExecutionRoleArn", top.Airflow.ExecutionRole.Name, "arn")
	}
	if top.Databricks != nil {
		export("databricksCrossAccountRoleArn", top.Databricks.CrossAccountRole.Name, "arn")
		export("databricksInstanceProfileArn", top.Databricks.DataAccessRole.Name, "instanceProfileArn")
		export("databricksRootBucketName", top.Databricks.RootBucket.Name, "name")
	}
}
