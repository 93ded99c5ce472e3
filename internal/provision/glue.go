package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/glue"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

// tableFormat holds the Hive classes of a storage format.
type tableFormat struct {
	input, output, serde string
}

var tableFormats = map[string]tableFormat{
	"parquet": {
		input:  "org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat",
		output: "org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat",
		serde:  "org.apache.hadoop.hive.ql.io.parquet.serde.ParquetHiveSerDe",
	},
	"json": {
		input:  "org.apache.hadoop.mapred.TextInputFormat",
		output: "org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat",
		serde:  "org.openx.data.jsonserde.JsonSerDe",
	},
}

func (p *Provisioner) catalogDatabase(d *resource.CatalogDatabase, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	db, err := glue.NewCatalogDatabase(p.ctx, d.Name, &glue.CatalogDatabaseArgs{
		Name:        pulumi.String(d.DatabaseName),
		LocationUri: pulumi.String(d.LocationURI),
		Description: pulumi.Sprintf("Data lake %s layer", d.Layer),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{db}, attrs{"name": db.Name, "arn": db.Arn}, nil
}

func (p *Provisioner) crawler(c *resource.Crawler, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	targets := glue.CrawlerS3TargetArray{}
	for _, path := range c.Targets {
		targets = append(targets, &glue.CrawlerS3TargetArgs{Path: p.str(path)})
	}
	crawler, err := glue.NewCrawler(p.ctx, c.Name, &glue.CrawlerArgs{
		Name:         pulumi.String(c.Name),
		DatabaseName: p.str(c.DatabaseName),
		Role:         p.str(c.Role),
		Schedule:     p.optional(c.Schedule),
		Description:  p.optional(c.Description),
		S3Targets:    targets,
		Tags:         tags(&c.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{crawler}, attrs{"arn": crawler.Arn, "name": crawler.Name}, nil
}

func (p *Provisioner) catalogTable(t *resource.CatalogTable, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	format, ok := tableFormats[t.DataFormat]
	if !ok {
		return nil, nil, errors.Newf("table %s has unsupported data format %q", t.Name, t.DataFormat)
	}
	columns := glue.CatalogTableStorageDescriptorColumnArray{}
	for _, c := range t.Columns {
		columns = append(columns, &glue.CatalogTableStorageDescriptorColumnArgs{
			Name: pulumi.String(c.Name),
			Type: pulumi.String(c.Type),
		})
	}
	table, err := glue.NewCatalogTable(p.ctx, t.Name, &glue.CatalogTableArgs{
		Name:         pulumi.String(t.TableName),
		DatabaseName: p.str(t.DatabaseName),
		Description:  p.optional(t.Description),
		TableType:    pulumi.String("EXTERNAL_TABLE"),
		Parameters: pulumi.StringMap{
			"classification": pulumi.String(t.DataFormat),
			"schemaVersion":  pulumi.Sprintf("%d", t.SchemaVersion),
		},
		StorageDescriptor: &glue.CatalogTableStorageDescriptorArgs{
			Location:     p.str(t.Location),
			InputFormat:  pulumi.String(format.input),
			OutputFormat: pulumi.String(format.output),
			Compressed:   pulumi.Bool(t.Compressed),
			SerDeInfo: &glue.CatalogTableStorageDescriptorSerDeInfoArgs{
				SerializationLibrary: pulumi.String(format.serde),
			},
			Columns: columns,
		},
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{table}, attrs{"arn": table.Arn, "name": table.Name}, nil
}
