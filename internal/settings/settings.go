// Package settings loads the platform parameters that are not derived from
// the environment: stack toggles, cost guardrails, instance sizes and the
// external account trusted by the compute platform integration.
package settings

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

// ConfigFileVariable points at an optional YAML settings file.
const ConfigFileVariable = "PLATFORM_CONFIG"

// Settings is the complete set of construction parameters.
type Settings struct {
	Stacks     StacksConfig     `mapstructure:"stacks"`
	Network    NetworkConfig    `mapstructure:"network"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Athena     AthenaConfig     `mapstructure:"athena"`
	Redshift   RedshiftConfig   `mapstructure:"redshift"`
	Airflow    AirflowConfig    `mapstructure:"airflow"`
	Databricks DatabricksConfig `mapstructure:"databricks"`
	Log        LogConfig        `mapstructure:"log"`
}

// StacksConfig toggles optional stacks. Common and data lake stacks are
// always built.
type StacksConfig struct {
	Kinesis    bool `mapstructure:"kinesis"`
	DMS        bool `mapstructure:"dms"`
	Catalog    bool `mapstructure:"catalog"`
	Athena     bool `mapstructure:"athena"`
	Redshift   bool `mapstructure:"redshift"`
	Airflow    bool `mapstructure:"airflow"`
	Databricks bool `mapstructure:"databricks"`
}

type NetworkConfig struct {
	CidrBlock         string   `mapstructure:"cidr_block"`
	AvailabilityZones []string `mapstructure:"availability_zones"`
}

type DatabaseConfig struct {
	InstanceClass    string `mapstructure:"instance_class"`
	EngineVersion    string `mapstructure:"engine_version"`
	AllocatedStorage int    `mapstructure:"allocated_storage"`
	// IngressCidr is the extra CIDR allowed to reach the orders database
	// besides the private subnets.
	IngressCidr string `mapstructure:"ingress_cidr"`
}

type AthenaConfig struct {
	// GBScannedCutoffPerQuery bounds cost: queries scanning more are cancelled.
	GBScannedCutoffPerQuery int `mapstructure:"gb_scanned_cutoff_per_query"`
}

type RedshiftConfig struct {
	NodeType      string `mapstructure:"node_type"`
	NumberOfNodes int    `mapstructure:"number_of_nodes"`
	IngressCidr   string `mapstructure:"ingress_cidr"`
}

type AirflowConfig struct {
	Version          string `mapstructure:"version"`
	EnvironmentClass string `mapstructure:"environment_class"`
	MinWorkers       int    `mapstructure:"min_workers"`
	MaxWorkers       int    `mapstructure:"max_workers"`
	AssetsDir        string `mapstructure:"assets_dir"`
}

type DatabricksConfig struct {
	AccountID string `mapstructure:"account_id"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("stacks.kinesis", true)
	v.SetDefault("stacks.dms", true)
	v.SetDefault("stacks.catalog", true)
	v.SetDefault("stacks.athena", true)
	v.SetDefault("stacks.redshift", true)
	v.SetDefault("stacks.airflow", true)
	v.SetDefault("stacks.databricks", true)

	v.SetDefault("network.cidr_block", "10.0.0.0/16")
	v.SetDefault("network.availability_zones", []string{"us-east-1a", "us-east-1b"})

	v.SetDefault("database.instance_class", "db.t3.micro")
	v.SetDefault("database.engine_version", "12.4")
	v.SetDefault("database.allocated_storage", 20)
	v.SetDefault("database.ingress_cidr", "0.0.0.0/0")

	v.SetDefault("athena.gb_scanned_cutoff_per_query", 1)

	v.SetDefault("redshift.node_type", "dc2.large")
	v.SetDefault("redshift.number_of_nodes", 2)
	v.SetDefault("redshift.ingress_cidr", "0.0.0.0/0")

	v.SetDefault("airflow.version", "2.5.1")
	v.SetDefault("airflow.environment_class", "mw1.small")
	v.SetDefault("airflow.min_workers", 1)
	v.SetDefault("airflow.max_workers", 2)
	v.SetDefault("airflow.assets_dir", "assets/airflow")

	v.SetDefault("databricks.account_id", "414351767826")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// NewViper returns a viper instance with defaults and environment binding.
// Every key is read from PLATFORM_<SECTION>_<KEY>, e.g.
// PLATFORM_ATHENA_GB_SCANNED_CUTOFF_PER_QUERY.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("PLATFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings from the process environment and, when path is set,
// from that YAML file. An empty path falls back to $PLATFORM_CONFIG.
func Load(path string) (*Settings, error) {
	v := NewViper()
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read settings file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates settings from v.
func LoadWithViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshal settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges. It does not resolve the environment; that
// is environment.Parse's job.
func (s *Settings) Validate() error {
	if len(s.Network.AvailabilityZones) < 2 {
		return errors.Newf("network.availability_zones needs at least 2 zones, got %d", len(s.Network.AvailabilityZones))
	}
	if s.Athena.GBScannedCutoffPerQuery < 1 {
		return errors.Newf("athena.gb_scanned_cutoff_per_query must be at least 1, got %d", s.Athena.GBScannedCutoffPerQuery)
	}
	if s.Redshift.NumberOfNodes < 2 {
		return errors.Newf("redshift.number_of_nodes must be at least 2 for a multi-node cluster, got %d", s.Redshift.NumberOfNodes)
	}
	if s.Airflow.MinWorkers < 1 || s.Airflow.MaxWorkers < s.Airflow.MinWorkers {
		return errors.Newf("airflow workers must satisfy 1 <= min (%d) <= max (%d)", s.Airflow.MinWorkers, s.Airflow.MaxWorkers)
	}
	if len(s.Databricks.AccountID) != 12 {
		return errors.Newf("databricks.account_id must be a 12 digit AWS account, got %q", s.Databricks.AccountID)
	}
	return nil
}
