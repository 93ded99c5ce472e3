package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/athena"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) workgroup(w *resource.Workgroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	workgroup, err := athena.NewWorkgroup(p.ctx, w.Name, &athena.WorkgroupArgs{
		Name:         pulumi.String(w.Name),
		Description:  p.optional(w.Description),
		State:        p.optional(w.State),
		ForceDestroy: pulumi.Bool(w.ForceDestroy),
		Configuration: &athena.WorkgroupConfigurationArgs{
			BytesScannedCutoffPerQuery:      pulumi.Int(w.BytesScannedCutoffPerQuery),
			EnforceWorkgroupConfiguration:   pulumi.Bool(w.EnforceConfiguration),
			PublishCloudwatchMetricsEnabled: pulumi.Bool(w.PublishMetrics),
			ResultConfiguration: &athena.WorkgroupConfigurationResultConfigurationArgs{
				OutputLocation: p.str(w.OutputLocation),
				EncryptionConfiguration: &athena.WorkgroupConfigurationResultConfigurationEncryptionConfigurationArgs{
					EncryptionOption: p.optional(w.EncryptionOption),
				},
			},
		},
		Tags: tags(&w.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{workgroup}, attrs{"arn": workgroup.Arn, "name": workgroup.Name}, nil
}
