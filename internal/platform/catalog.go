package platform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// CrawlSchedule runs discovery every 15 minutes.
const CrawlSchedule = "cron(0/15 * * * ? *)"

// CatalogStack holds the metadata databases, the crawler over pushed events
// and the explicit schemas of the replicated orders table.
type CatalogStack struct {
	Stack          *topology.Stack
	Role           *resource.Role
	RawDatabase    *resource.CatalogDatabase
	StagedDatabase *resource.CatalogDatabase
	Crawlers       []*resource.Crawler
	OrdersTables   []*resource.CatalogTable
}

// OrdersColumns returns the orders schema. Version 1 keys orders by an
// integer, version 2 by a string; both are kept as separate tables.
func OrdersColumns(version int) []resource.Column {
	keyType := "int"
	if version >= 2 {
		keyType = "string"
	}
	return []resource.Column{
		{Name: "op", Type: "string"},
		{Name: "extracted_at", Type: "string"},
		{Name: "created_at", Type: "timestamp"},
		{Name: "order_id", Type: keyType},
		{Name: "product_name", Type: "string"},
		{Name: "value", Type: "double"},
	}
}

// NewCatalogStack builds <env>-glue-catalog-stack.
func NewCatalogStack(g *topology.Graph, lake *DataLakeStack, log *zap.SugaredLogger) (*CatalogStack, error) {
	s, err := newScope(g, "glue-catalog-stack", log)
	if err != nil {
		return nil, err
	}
	env := s.env()
	raw := lake.Raw

	role := resource.NewServiceRole(
		topology.Name("iam", env, "glue-data-lake-raw-role"),
		"Allows using Glue on Data Lake raw",
		"glue.amazonaws.com").
		WithInstanceProfile(topology.Name("iam", env, "glue-data-lake-raw-instance-profile"))
	role.Attach(topology.Name("iam", env, "glue-data-lake-raw-policy"),
		resource.BucketAccess([]string{"s3:ListBucket", "s3:GetObject", "s3:PutObject"}, raw),
		resource.Allow([]string{"cloudwatch:PutMetricData"}, "arn:aws:cloudwatch:*"),
		resource.Allow([]string{"glue:*"}, "arn:aws:glue:*"),
		resource.Allow([]string{"logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"},
			"arn:aws:logs:*:*:/aws-glue/*"),
	)
	role.Depends(raw)

	rawDB := resource.NewCatalogDatabase(raw)
	rawDB.Depends(role)
	stagedDB := resource.NewCatalogDatabase(lake.Staged)

	if err := s.add(role, rawDB, stagedDB); err != nil {
		return nil, err
	}

	stack := &CatalogStack{Stack: s.Stack, Role: role, RawDatabase: rawDB, StagedDatabase: stagedDB}

	for _, dataset := range []string{"atomic_events"} {
		crawler := &resource.Crawler{
			Meta:         topology.Meta{Name: topology.Name("glue", env, string(raw.Layer), dataset, "crawler"), Kind: resource.KindCrawler},
			DatabaseName: rawDB.DatabaseName,
			Role:         topology.Attr(role, "arn"),
			Schedule:     CrawlSchedule,
			Description:  fmt.Sprintf("Detects the schema of data stored in data lake %s.%s", raw.Layer, dataset),
			Targets:      []string{raw.URI(dataset)},
		}
		crawler.Depends(rawDB, role)
		if err := s.add(crawler); err != nil {
			return nil, err
		}
		stack.Crawlers = append(stack.Crawlers, crawler)
	}

	for _, t := range []struct {
		purpose string
		table   string
		version int
	}{
		{purpose: "orders-table", table: "orders", version: 1},
		{purpose: "orders-v2-table", table: "orders_v2", version: 2},
	} {
		table := &resource.CatalogTable{
			Meta:          topology.Meta{Name: topology.Name("glue", env, t.purpose), Kind: resource.KindCatalogTable},
			TableName:     t.table,
			DatabaseName:  rawDB.DatabaseName,
			Description:   "orders captured from Postgres using DMS CDC",
			Location:      OrdersDataURI(raw),
			DataFormat:    "parquet",
			Compressed:    true,
			SchemaVersion: t.version,
			Columns:       OrdersColumns(t.version),
		}
		table.Depends(rawDB, role)
		if err := s.add(table); err != nil {
			return nil, err
		}
		stack.OrdersTables = append(stack.OrdersTables, table)
	}
	return stack, nil
}
