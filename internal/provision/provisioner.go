// Package provision realizes a topology graph with Pulumi and the AWS
// provider. Every descriptor becomes one or more provider resources parented
// to a component per stack, with the graph's edges passed as explicit
// DependsOn options.
package provision

import (
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

// StackType is the component type token every stack is registered under.
const StackType = "belisco:platform:Stack"

var (
	ErrUnresolvedReference = errors.New("reference to an attribute that was not provisioned")
	ErrUnsupportedKind     = errors.New("no provisioner for descriptor kind")
)

// Options carries the values the graph leaves to the engine.
type Options struct {
	Region    string
	AccountID string
	// Secret returns the secret program config value stored under key.
	Secret func(key string) pulumi.StringOutput
}

// StackComponent groups the resources of one stack.
type StackComponent struct {
	pulumi.ResourceState
}

type attrs map[string]pulumi.StringOutput

// Provisioner turns descriptors into Pulumi resources.
type Provisioner struct {
	ctx        *pulumi.Context
	log        *zap.SugaredLogger
	opts       Options
	components map[string]*StackComponent
	resources  map[string][]pulumi.Resource
	attrs      map[string]attrs
	err        error
}

// New returns a provisioner registering resources in ctx.
func New(ctx *pulumi.Context, log *zap.SugaredLogger, opts Options) (*Provisioner, error) {
	if opts.Region == "" {
		return nil, errors.WithHint(errors.New("aws region is not set"), "pulumi config set aws:region <region>")
	}
	if opts.AccountID == "" {
		return nil, errors.New("aws account id is not set")
	}
	return &Provisioner{
		ctx:        ctx,
		log:        log,
		opts:       opts,
		components: make(map[string]*StackComponent),
		resources:  make(map[string][]pulumi.Resource),
		attrs:      make(map[string]attrs),
	}, nil
}

// Apply registers every stack component and then every descriptor in
// creation order.
func (p *Provisioner) Apply(g *topology.Graph) error {
	order, err := g.Order()
	if err != nil {
		return err
	}

	for _, s := range g.Stacks() {
		comp := &StackComponent{}
		if err := p.ctx.RegisterComponentResource(StackType, s.Name(), comp); err != nil {
			return errors.Wrapf(err, "register stack %s", s.Name())
		}
		p.components[s.Name()] = comp
	}

	for _, d := range order {
		m := d.Metadata()
		opts, err := p.options(m)
		if err != nil {
			return err
		}
		created, out, err := p.create(d, opts)
		if err == nil {
			err = p.err
		}
		if err != nil {
			return errors.Wrapf(err, "provision %s %s", m.Kind, m.Name)
		}
		p.resources[m.Name] = created
		p.attrs[m.Name] = out
		p.log.Debugw("provisioned resource", "name", m.Name, "kind", m.Kind, "stack", m.Stack)
	}

	for _, s := range g.Stacks() {
		if err := p.ctx.RegisterResourceOutputs(p.components[s.Name()], pulumi.Map{
			"resources": pulumi.Int(len(s.Resources())),
		}); err != nil {
			return errors.Wrapf(err, "register outputs of stack %s", s.Name())
		}
	}
	p.log.Infow("provisioned topology", "stacks", len(g.Stacks()), "resources", len(order))
	return nil
}

// Output returns a generated attribute of a provisioned descriptor.
func (p *Provisioner) Output(name, attr string) (pulumi.StringOutput, bool) {
	out, ok := p.attrs[name][attr]
	return out, ok
}

func (p *Provisioner) options(m *topology.Meta) ([]pulumi.ResourceOption, error) {
	comp, ok := p.components[m.Stack]
	if !ok {
		return nil, errors.Newf("resource %s belongs to unknown stack %q", m.Name, m.Stack)
	}
	var deps []pulumi.Resource
	for _, dep := range m.DependsOn {
		created, ok := p.resources[dep]
		if !ok {
			return nil, errors.Wrapf(topology.ErrUnknownDependency, "%s depends on %s", m.Name, dep)
		}
		deps = append(deps, created...)
	}
	opts := []pulumi.ResourceOption{pulumi.Parent(comp)}
	if len(deps) > 0 {
		opts = append(opts, pulumi.DependsOn(deps))
	}
	return opts, nil
}

func (p *Provisioner) create(d topology.Descriptor, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	switch r := d.(type) {
	case *resource.Bucket:
		return p.bucket(r, opts)
	case *resource.BucketObject:
		return p.bucketObject(r, opts)
	case *resource.Role:
		return p.role(r, opts)
	case *resource.Network:
		return p.network(r, opts)
	case *resource.SecurityGroup:
		return p.securityGroup(r, opts)
	case *resource.ParameterGroup:
		return p.parameterGroup(r, opts)
	case *resource.DBSubnetGroup:
		return p.dbSubnetGroup(r, opts)
	case *resource.Database:
		return p.database(r, opts)
	case *resource.DeliveryStream:
		return p.deliveryStream(r, opts)
	case *resource.ReplicationSubnetGroup:
		return p.replicationSubnetGroup(r, opts)
	case *resource.ReplicationInstance:
		return p.replicationInstance(r, opts)
	case *resource.Endpoint:
		return p.endpoint(r, opts)
	case *resource.ReplicationTask:
		return p.replicationTask(r, opts)
	case *resource.CatalogDatabase:
		return p.catalogDatabase(r, opts)
	case *resource.Crawler:
		return p.crawler(r, opts)
	case *resource.CatalogTable:
		return p.catalogTable(r, opts)
	case *resource.Workgroup:
		return p.workgroup(r, opts)
	case *resource.WarehouseSubnetGroup:
		return p.warehouseSubnetGroup(r, opts)
	case *resource.WarehouseCluster:
		return p.warehouseCluster(r, opts)
	case *resource.AirflowEnvironment:
		return p.airflowEnvironment(r, opts)
	case *resource.Parameter:
		return p.parameter(r, opts)
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedKind, "%s", d.Metadata().Kind)
	}
}

func (p *Provisioner) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// str resolves pseudo parameters and ${ref:...} tokens in s.
func (p *Provisioner) str(s string) pulumi.StringOutput {
	s = strings.NewReplacer(topology.Region, p.opts.Region, topology.Account, p.opts.AccountID).Replace(s)
	refs := topology.ParseReferences(s)
	if len(refs) == 0 {
		return pulumi.String(s).ToStringOutput()
	}

	inputs := make([]interface{}, 0, len(refs))
	for _, ref := range refs {
		out, ok := p.Output(ref.Name, ref.Attr)
		if !ok {
			p.fail(errors.Wrapf(ErrUnresolvedReference, "%s", ref))
			return pulumi.String(s).ToStringOutput()
		}
		inputs = append(inputs, out)
	}
	return pulumi.All(inputs...).ApplyT(func(values []interface{}) string {
		resolved := s
		for i, ref := range refs {
			resolved = strings.ReplaceAll(resolved, ref.String(), values[i].(string))
		}
		return resolved
	}).(pulumi.StringOutput)
}

// optional is str for arguments where an empty value means unset.
func (p *Provisioner) optional(s string) pulumi.StringPtrInput {
	if s == "" {
		return nil
	}
	return p.str(s)
}

func (p *Provisioner) strs(values []string) pulumi.StringArray {
	out := make(pulumi.StringArray, 0, len(values))
	for _, v := range values {
		out = append(out, p.str(v))
	}
	return out
}

// document renders statements as a policy document, resolving tokens.
func (p *Provisioner) document(statements []resource.Statement) pulumi.StringOutput {
	doc, err := resource.PolicyDocument(statements)
	if err != nil {
		p.fail(err)
	}
	return p.str(doc)
}

func tags(m *topology.Meta) pulumi.StringMap {
	out := pulumi.StringMap{
		"Name":        pulumi.String(m.Name),
		"Stack":       pulumi.String(m.Stack),
		"Environment": pulumi.String(environmentOf(m.Stack)),
	}
	for k, v := range m.Tags {
		out[k] = pulumi.String(v)
	}
	return out
}

func environmentOf(stack string) string {
	env, _, _ := strings.Cut(stack, "-")
	return env
}
