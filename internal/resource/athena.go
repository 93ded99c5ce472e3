package resource

import "github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"

const KindWorkgroup topology.Kind = "aws:athena:Workgroup"

// Workgroup is an interactive query workgroup.
type Workgroup struct {
	topology.Meta `yaml:",inline"`

	Description                string `yaml:"description"`
	State                      string `yaml:"state"`
	OutputLocation             string `yaml:"outputLocation"`
	EncryptionOption           string `yaml:"encryptionOption"`
	BytesScannedCutoffPerQuery int    `yaml:"bytesScannedCutoffPerQuery"`
	EnforceConfiguration       bool   `yaml:"enforceConfiguration"`
	PublishMetrics             bool   `yaml:"publishMetrics"`
	ForceDestroy               bool   `yaml:"forceDestroy"`
}

// BytesFromGB converts the scanned-data guardrail to bytes (decimal GB).
func BytesFromGB(gb int) int {
	return gb * 1_000_000_000
}
