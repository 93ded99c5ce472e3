package platform

import (
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

var ErrStackDisabled = errors.New("required stack is disabled")

// Topology is the assembled platform for one environment. Stacks disabled
// in settings are nil.
type Topology struct {
	Graph      *topology.Graph
	Common     *CommonStack
	DataLake   *DataLakeStack
	Kinesis    *KinesisStack
	DMS        *DMSStack
	Catalog    *CatalogStack
	Athena     *AthenaStack
	Redshift   *RedshiftStack
	Airflow    *AirflowStack
	Databricks *DatabricksStack
}

// Assemble builds every enabled stack in dependency order: network and
// buckets first, ingestion next, then the catalog and the query and
// warehouse services consuming it. Nothing is constructed unless env is a
// known environment.
func Assemble(env environment.Environment, cfg *settings.Settings, log *zap.SugaredLogger) (*Topology, error) {
	if !env.Valid() {
		if env == "" {
			return nil, errors.WithStack(environment.ErrMissingEnvironment)
		}
		return nil, errors.Wrapf(environment.ErrUnknownEnvironment, "%q", env)
	}
	if cfg == nil {
		return nil, errors.New("settings are required")
	}
	if err := checkToggles(cfg.Stacks); err != nil {
		return nil, err
	}

	t := &Topology{Graph: topology.New(env)}
	log = log.With("environment", env.String())
	built := func(stack *topology.Stack) {
		log.Infow("built stack", "stack", stack.Name(), "resources", len(stack.Resources()))
	}

	var err error
	if t.Common, err = NewCommonStack(t.Graph, cfg, log); err != nil {
		return nil, errors.Wrap(err, "common stack")
	}
	built(t.Common.Stack)

	if t.DataLake, err = NewDataLakeStack(t.Graph, log); err != nil {
		return nil, errors.Wrap(err, "data lake stack")
	}
	built(t.DataLake.Stack)

	if cfg.Stacks.Kinesis {
		if t.Kinesis, err = NewKinesisStack(t.Graph, t.DataLake, log); err != nil {
			return nil, errors.Wrap(err, "kinesis stack")
		}
		built(t.Kinesis.Stack)
	}

	if cfg.Stacks.DMS {
		if t.DMS, err = NewDMSStack(t.Graph, t.Common, t.DataLake, log); err != nil {
			return nil, errors.Wrap(err, "dms stack")
		}
		built(t.DMS.Stack)
	}

	if cfg.Stacks.Catalog {
		if t.Catalog, err = NewCatalogStack(t.Graph, t.DataLake, log); err != nil {
			return nil, errors.Wrap(err, "glue catalog stack")
		}
		built(t.Catalog.Stack)
	}

	if cfg.Stacks.Athena {
		if t.Athena, err = NewAthenaStack(t.Graph, cfg, log); err != nil {
			return nil, errors.Wrap(err, "athena stack")
		}
		built(t.Athena.Stack)
	}

	if cfg.Stacks.Redshift {
		if t.Redshift, err = NewRedshiftStack(t.Graph, cfg, t.Common, t.DataLake, t.Catalog, log); err != nil {
			return nil, errors.Wrap(err, "redshift stack")
		}
		built(t.Redshift.Stack)
	}

	if cfg.Stacks.Airflow {
		if t.Airflow, err = NewAirflowStack(t.Graph, cfg, t.Common, t.DataLake, log); err != nil {
			return nil, errors.Wrap(err, "airflow stack")
		}
		built(t.Airflow.Stack)
	}

	if cfg.Stacks.Databricks {
		if t.Databricks, err = NewDatabricksStack(t.Graph, cfg, t.DataLake, log); err != nil {
			return nil, errors.Wrap(err, "databricks stack")
		}
		built(t.Databricks.Stack)
	}

	if err := t.Graph.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate topology")
	}
	log.Infow("assembled topology", "stacks", len(t.Graph.Stacks()), "resources", t.Graph.Len())
	return t, nil
}

// checkToggles rejects an enabled stack whose producer is disabled.
func checkToggles(s settings.StacksConfig) error {
	if s.Redshift && !s.Catalog {
		return errors.WithHint(
			errors.Wrap(ErrStackDisabled, "redshift stack reads the glue catalog stack"),
			"enable stacks.catalog or disable stacks.redshift")
	}
	return nil
}
