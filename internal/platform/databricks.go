package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const spotServiceLinkedRole = "arn:aws:iam::*:role/aws-service-role/spot.amazonaws.com/AWSServiceRoleForEC2Spot"

// DatabricksStack integrates the external compute platform. The control
// plane role manages instances in this account; the data plane role is the
// only one that reaches the data lake.
type DatabricksStack struct {
	Stack            *topology.Stack
	DataAccessRole   *resource.Role
	CrossAccountRole *resource.Role
	RootBucket       *resource.Bucket
}

// NewDatabricksStack builds <env>-databricks-stack.
func NewDatabricksStack(g *topology.Graph, cfg *settings.Settings, lake *DataLakeStack, log *zap.SugaredLogger) (*DatabricksStack, error) {
	s, err := newScope(g, "databricks-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	account := resource.AccountPrincipal(cfg.Databricks.AccountID)
	lakePattern := resource.BucketARN(topology.Name(resource.ServicePrefix, env, "data-lake") + "-*")
	autoIngest := []string{
		"arn:aws:sqs:" + topology.Region + ":" + topology.Account + ":databricks-auto-ingest-*",
		"arn:aws:sns:" + topology.Region + ":" + topology.Account + ":databricks-auto-ingest-*",
	}
	spot := resource.Allow([]string{"iam:CreateServiceLinkedRole", "iam:PutRolePolicy"}, spotServiceLinkedRole).
		When("StringEquals", "iam:AWSServiceName", "spot.amazonaws.com")

	access := resource.NewServiceRole(
		topology.Name("iam", env, "databricks-data-lake-access-role"),
		"Allows databricks access to data lake",
		"ec2.amazonaws.com").
		WithInstanceProfile(topology.Name("iam", env, "databricks-data-lake-access-instance-profile"))
	access.Attach(topology.Name("iam", env, "databricks-data-lake-access-policy"),
		resource.Allow([]string{
			"s3:ListBucket",
			"s3:PutObject",
			"s3:GetObject",
			"s3:DeleteObject",
			"s3:PutObjectAcl",
		}, lakePattern, lakePattern+"/*"),
		spot,
		resource.Allow([]string{
			"glue:BatchCreatePartition",
			"glue:BatchDeletePartition",
			"glue:BatchGetPartition",
			"glue:CreateDatabase",
			"glue:CreateTable",
			"glue:CreateUserDefinedFunction",
			"glue:DeleteDatabase",
			"glue:DeletePartition",
			"glue:DeleteTable",
			"glue:DeleteUserDefinedFunction",
			"glue:GetDatabase",
			"glue:GetDatabases",
			"glue:GetPartition",
			"glue:GetPartitions",
			"glue:GetTable",
			"glue:GetTables",
			"glue:GetUserDefinedFunction",
			"glue:GetUserDefinedFunctions",
			"glue:UpdateDatabase",
			"glue:UpdatePartition",
			"glue:UpdateTable",
			"glue:UpdateUserDefinedFunction",
		}, "*"),
	)
	for _, b := range lake.Buckets() {
		access.Depends(b)
	}

	cross := resource.NewRole(
		topology.Name("iam", env, "databricks-cross-account-role"),
		"Allows databricks access to account",
		account)
	cross.Attach(topology.Name("iam", env, "databricks-cross-account-policy"),
		resource.Allow(controlPlaneEC2Actions, "*"),
		spot,
		resource.Allow([]string{
			"s3:GetBucketNotification",
			"s3:PutBucketNotification",
			"sns:ListSubscriptionsByTopic",
			"sns:GetTopicAttributes",
			"sns:SetTopicAttributes",
			"sns:CreateTopic",
			"sns:TagResource",
			"sns:Publish",
			"sns:Subscribe",
			"sqs:CreateQueue",
			"sqs:DeleteMessage",
			"sqs:DeleteMessageBatch",
			"sqs:ReceiveMessage",
			"sqs:SendMessage",
			"sqs:GetQueueUrl",
			"sqs:GetQueueAttributes",
			"sqs:SetQueueAttributes",
			"sqs:TagQueue",
			"sqs:ChangeMessageVisibility",
			"sqs:ChangeMessageVisibilityBatch",
		}, append([]string{lakePattern}, autoIngest...)...),
		resource.Allow([]string{"sqs:ListQueues", "sqs:ListQueueTags", "sns:ListTopics"}, "*"),
		resource.Allow([]string{"sns:Unsubscribe", "sns:DeleteTopic", "sqs:DeleteQueue"}, autoIngest...),
	)
	cross.Attach(topology.Name("iam", env, "databricks-cross-account-policy-data-access"),
		resource.Allow([]string{"iam:PassRole"}, topology.Attr(access, "arn")))
	cross.Depends(access)

	bucket := resource.NewBucket(topology.Name("s3", env, "belisco-databricks-bucket"))
	bucket.Policy = []resource.Statement{
		resource.BucketAccess([]string{
			"s3:GetObject",
			"s3:GetObjectVersion",
			"s3:PutObject",
			"s3:DeleteObject",
			"s3:ListBucket",
			"s3:GetBucketLocation",
		}, bucket).For(account),
	}

	if err := s.add(access, cross, bucket); err != nil {
		return nil, err
	}
	return &DatabricksStack{Stack: s.Stack, DataAccessRole: access, CrossAccountRole: cross, RootBucket: bucket}, nil
}

var controlPlaneEC2Actions = []string{
	"ec2:AssociateDhcpOptions",
	"ec2:AssociateIamInstanceProfile",
	"ec2:AssociateRouteTable",
	"ec2:AttachInternetGateway",
	"ec2:AttachVolume",
	"ec2:AuthorizeSecurityGroupEgress",
	"ec2:AuthorizeSecurityGroupIngress",
	"ec2:CancelSpotInstanceRequests",
	"ec2:CreateDhcpOptions",
	"ec2:CreateInternetGateway",
	"ec2:CreateKeyPair",
	"ec2:CreatePlacementGroup",
	"ec2:CreateRoute",
	"ec2:CreateSecurityGroup",
	"ec2:CreateSubnet",
	"ec2:CreateTags",
	"ec2:CreateVolume",
	"ec2:CreateVpc",
	"ec2:CreateVpcPeeringConnection",
	"ec2:DeleteInternetGateway",
	"ec2:DeleteKeyPair",
	"ec2:DeletePlacementGroup",
	"ec2:DeleteRoute",
	"ec2:DeleteRouteTable",
	"ec2:DeleteSecurityGroup",
	"ec2:DeleteSubnet",
	"ec2:DeleteTags",
	"ec2:DeleteVolume",
	"ec2:DeleteVpc",
	"ec2:DescribeAvailabilityZones",
	"ec2:DescribeIamInstanceProfileAssociations",
	"ec2:DescribeInstanceStatus",
	"ec2:DescribeInstances",
	"ec2:DescribePlacementGroups",
	"ec2:DescribePrefixLists",
	"ec2:DescribeReservedInstancesOfferings",
	"ec2:DescribeRouteTables",
	"ec2:DescribeSecurityGroups",
	"ec2:DescribeSpotInstanceRequests",
	"ec2:DescribeSpotPriceHistory",
	"ec2:DescribeSubnets",
	"ec2:DescribeVolumes",
	"ec2:DescribeVpcs",
	"ec2:DetachInternetGateway",
	"ec2:DisassociateIamInstanceProfile",
	"ec2:ModifyVpcAttribute",
	"ec2:ReplaceIamInstanceProfileAssociation",
	"ec2:RequestSpotInstances",
	"ec2:RevokeSecurityGroupEgress",
	"ec2:RevokeSecurityGroupIngress",
	"ec2:RunInstances",
	"ec2:TerminateInstances",
}
