package resource

import (
	"strings"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	KindCatalogDatabase topology.Kind = "aws:glue:CatalogDatabase"
	KindCrawler         topology.Kind = "aws:glue:Crawler"
	KindCatalogTable    topology.Kind = "aws:glue:CatalogTable"
)

// CatalogDatabase is a metadata database over one data lake bucket.
type CatalogDatabase struct {
	topology.Meta `yaml:",inline"`

	DatabaseName string `yaml:"databaseName"`
	LocationURI  string `yaml:"locationUri"`
	Layer        Layer  `yaml:"layer"`
}

// NewCatalogDatabase declares glue-belisco-<env>-data-lake-<layer> pointing
// at bucket. The catalog name replaces hyphens with underscores.
func NewCatalogDatabase(bucket *Bucket) *CatalogDatabase {
	name := "glue-belisco-" + strings.TrimPrefix(bucket.Name, ServicePrefix+"-")
	db := &CatalogDatabase{
		Meta:         topology.Meta{Name: name, Kind: KindCatalogDatabase},
		DatabaseName: CatalogName(name),
		LocationURI:  bucket.URI(),
		Layer:        bucket.Layer,
	}
	db.Depends(bucket)
	return db
}

// CatalogName converts a resource name to a catalog identifier.
func CatalogName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Crawler is a scheduled discovery job over one data set prefix.
type Crawler struct {
	topology.Meta `yaml:",inline"`

	DatabaseName string   `yaml:"databaseName"`
	Role         string   `yaml:"role"`
	Schedule     string   `yaml:"schedule"`
	Description  string   `yaml:"description"`
	Targets      []string `yaml:"targets"`
}

// Column is one column of an explicit table schema.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// CatalogTable is an explicit schema for a known data set. It takes
// precedence over whatever a crawler infers for the same location.
type CatalogTable struct {
	topology.Meta `yaml:",inline"`

	TableName     string   `yaml:"tableName"`
	DatabaseName  string   `yaml:"databaseName"`
	Description   string   `yaml:"description"`
	Location      string   `yaml:"location"`
	DataFormat    string   `yaml:"dataFormat"`
	Compressed    bool     `yaml:"compressed"`
	SchemaVersion int      `yaml:"schemaVersion"`
	Columns       []Column `yaml:"columns"`
}
