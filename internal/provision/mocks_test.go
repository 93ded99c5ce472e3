package provision

import (
	"strings"
	"sync"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	mockSecretArn = "arn:aws:secretsmanager:us-east-1:123456789012:secret:rds!db-0000"
	mockAddress   = "orders.example.us-east-1.rds.amazonaws.com"
)

// mocks records every registered resource by logical name.
type mocks struct {
	mu        sync.Mutex
	resources map[string]pulumi.MockResourceArgs
}

func newMocks() *mocks {
	return &mocks{resources: make(map[string]pulumi.MockResourceArgs)}
}

func (m *mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	outputs := args.Inputs.Copy()
	switch args.TypeToken {
	case "aws:s3/bucket:Bucket":
		outputs["arn"] = resource.NewStringProperty("arn:aws:s3:::" + args.Name)
	case "aws:rds/instance:Instance":
		outputs["address"] = resource.NewStringProperty(mockAddress)
		outputs["endpoint"] = resource.NewStringProperty(mockAddress + ":5432")
		outputs["masterUserSecrets"] = resource.NewArrayProperty([]resource.PropertyValue{
			resource.NewObjectProperty(resource.PropertyMap{
				"secretArn": resource.NewStringProperty(mockSecretArn),
			}),
		})
	case "aws:dms/replicationInstance:ReplicationInstance":
		outputs["replicationInstanceArn"] = resource.NewStringProperty("arn:aws:dms:us-east-1:123456789012:rep:" + args.Name)
	case "aws:dms/endpoint:Endpoint":
		outputs["endpointArn"] = resource.NewStringProperty("arn:aws:dms:us-east-1:123456789012:endpoint:" + args.Name)
	case "aws:dms/replicationTask:ReplicationTask":
		outputs["replicationTaskArn"] = resource.NewStringProperty("arn:aws:dms:us-east-1:123456789012:task:" + args.Name)
	case "aws:redshift/cluster:Cluster":
		outputs["endpoint"] = resource.NewStringProperty(args.Name + ".example.redshift.amazonaws.com:5439")
	case "aws:mwaa/environment:Environment":
		outputs["webserverUrl"] = resource.NewStringProperty(args.Name + ".airflow.example.com")
	}
	if _, ok := outputs["arn"]; !ok {
		outputs["arn"] = resource.NewStringProperty("arn:aws:mock:us-east-1:123456789012:" + args.Name)
	}

	m.mu.Lock()
	m.resources[args.Name] = args
	m.mu.Unlock()
	return args.Name + "-id", outputs, nil
}

func (m *mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return resource.PropertyMap{}, nil
}

func (m *mocks) get(name string) (pulumi.MockResourceArgs, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args, ok := m.resources[name]
	return args, ok
}

func (m *mocks) all() []pulumi.MockResourceArgs {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]pulumi.MockResourceArgs, 0, len(m.resources))
	for _, args := range m.resources {
		out = append(out, args)
	}
	return out
}

// input returns the string input key of the resource registered as name.
func (m *mocks) input(name, key string) string {
	args, ok := m.get(name)
	if !ok {
		return ""
	}
	v, ok := args.Inputs[resource.PropertyKey(key)]
	if !ok || !v.IsString() {
		return ""
	}
	return v.StringValue()
}

// dependsOn reports whether the resource registered as name lists a
// dependency on the resource registered as dep.
func (m *mocks) dependsOn(name, dep string) bool {
	args, ok := m.get(name)
	if !ok || args.RegisterRPC == nil {
		return false
	}
	for _, urn := range args.RegisterRPC.GetDependencies() {
		if strings.HasSuffix(urn, "::"+dep) {
			return true
		}
	}
	return false
}

// parent returns the logical name of the parent of name.
func (m *mocks) parent(name string) string {
	args, ok := m.get(name)
	if !ok || args.RegisterRPC == nil {
		return ""
	}
	urn := args.RegisterRPC.GetParent()
	return urn[strings.LastIndex(urn, "::")+2:]
}

// allStrings returns every string value found in the inputs of all resources.
func (m *mocks) allStrings() []string {
	var out []string
	var walk func(v resource.PropertyValue)
	walk = func(v resource.PropertyValue) {
		switch {
		case v.IsString():
			out = append(out, v.StringValue())
		case v.IsArray():
			for _, e := range v.ArrayValue() {
				walk(e)
			}
		case v.IsObject():
			for _, e := range v.ObjectValue() {
				walk(e)
			}
		case v.IsSecret():
			walk(v.SecretValue().Element)
		}
	}
	for _, args := range m.all() {
		for _, v := range args.Inputs {
			walk(v)
		}
	}
	return out
}

func resourceKey(k string) resource.PropertyKey {
	return resource.PropertyKey(k)
}
