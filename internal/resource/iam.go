package resource

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const KindRole topology.Kind = "aws:iam:Role"

const policyVersion = "2012-10-17"

var ErrBroadDataAccess = errors.New("data access statement uses a wildcard resource")

// Principal identifies who a statement applies to.
type Principal struct {
	Type        string   `yaml:"type"`
	Identifiers []string `yaml:"identifiers"`
}

// ServicePrincipal returns the principal of an AWS service, e.g. glue.amazonaws.com.
func ServicePrincipal(service string) Principal {
	return Principal{Type: "Service", Identifiers: []string{service}}
}

// AccountPrincipal returns the root principal of an AWS account.
func AccountPrincipal(accountID string) Principal {
	root := arn.ARN{Partition: "aws", Service: "iam", AccountID: accountID, Resource: "root"}
	return Principal{Type: "AWS", Identifiers: []string{root.String()}}
}

// Statement is one allow or deny statement of a policy document.
type Statement struct {
	Sid        string                       `yaml:"sid,omitempty"`
	Effect     string                       `yaml:"effect"`
	Principals []Principal                  `yaml:"principals,omitempty"`
	Actions    []string                     `yaml:"actions"`
	Resources  []string                     `yaml:"resources,omitempty"`
	Conditions map[string]map[string]string `yaml:"conditions,omitempty"`
}

// Allow returns an Allow statement for actions over resources.
func Allow(actions []string, resources ...string) Statement {
	return Statement{Effect: "Allow", Actions: actions, Resources: resources}
}

// When adds a condition and returns the statement.
func (s Statement) When(operator, key, value string) Statement {
	if s.Conditions == nil {
		s.Conditions = make(map[string]map[string]string)
	}
	if s.Conditions[operator] == nil {
		s.Conditions[operator] = make(map[string]string)
	}
	s.Conditions[operator][key] = value
	return s
}

// For sets the principals of a resource policy statement.
func (s Statement) For(principals ...Principal) Statement {
	s.Principals = principals
	return s
}

// BucketAccess grants actions on a bucket and all its objects.
func BucketAccess(actions []string, buckets ...*Bucket) Statement {
	resources := make([]string, 0, 2*len(buckets))
	for _, b := range buckets {
		resources = append(resources, b.ARN(), b.ObjectsARN())
	}
	return Allow(actions, resources...)
}

// DataAccess reports whether the statement touches stored data.
func (s Statement) DataAccess() bool {
	for _, a := range s.Actions {
		if strings.HasPrefix(a, "s3:") {
			return true
		}
	}
	return false
}

// Policy is a named inline policy.
type Policy struct {
	Name       string      `yaml:"name"`
	Statements []Statement `yaml:"statements"`
}

type jsonStatement struct {
	Sid       string                       `json:"Sid,omitempty"`
	Effect    string                       `json:"Effect"`
	Principal map[string][]string          `json:"Principal,omitempty"`
	Action    []string                     `json:"Action"`
	Resource  []string                     `json:"Resource,omitempty"`
	Condition map[string]map[string]string `json:"Condition,omitempty"`
}

type jsonDocument struct {
	Version   string          `json:"Version"`
	Statement []jsonStatement `json:"Statement"`
}

// PolicyDocument renders statements as an IAM JSON policy document.
func PolicyDocument(statements []Statement) (string, error) {
	doc := jsonDocument{Version: policyVersion}
	for _, s := range statements {
		js := jsonStatement{
			Sid:       s.Sid,
			Effect:    s.Effect,
			Action:    s.Actions,
			Resource:  s.Resources,
			Condition: s.Conditions,
		}
		if len(s.Principals) > 0 {
			js.Principal = make(map[string][]string)
			for _, p := range s.Principals {
				js.Principal[p.Type] = append(js.Principal[p.Type], p.Identifiers...)
			}
		}
		doc.Statement = append(doc.Statement, js)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "marshal policy document")
	}
	return string(raw), nil
}

// ValidateStatements rejects data access statements that grant "*" or a
// bare service wildcard instead of a specific resource ARN.
func ValidateStatements(statements []Statement) error {
	for i, s := range statements {
		if !s.DataAccess() {
			continue
		}
		if len(s.Resources) == 0 {
			return errors.Wrapf(ErrBroadDataAccess, "statement %d has no resources", i)
		}
		for _, r := range s.Resources {
			if r == "*" {
				return errors.Wrapf(ErrBroadDataAccess, "statement %d grants %v on *", i, s.Actions)
			}
			if topology.HasTokens(r) && !strings.HasPrefix(r, "arn:") {
				continue
			}
			parsed, err := arn.Parse(r)
			if err != nil {
				return errors.Wrapf(err, "statement %d resource %q", i, r)
			}
			if parsed.Service == "s3" && (parsed.Resource == "*" || parsed.Resource == "") {
				return errors.Wrapf(ErrBroadDataAccess, "statement %d grants %v on every bucket", i, s.Actions)
			}
		}
	}
	return nil
}

// Role declares an IAM role with inline policies.
type Role struct {
	topology.Meta `yaml:",inline"`

	Description string      `yaml:"description"`
	AssumedBy   []Principal `yaml:"assumedBy"`
	Policies    []Policy    `yaml:"policies,omitempty"`
	// InstanceProfile, when set, names an instance profile wrapping the role.
	InstanceProfile string `yaml:"instanceProfile,omitempty"`
}

// NewRole declares a role named name trusted by principals.
func NewRole(name, description string, principals ...Principal) *Role {
	return &Role{
		Meta:        topology.Meta{Name: name, Kind: KindRole},
		Description: description,
		AssumedBy:   principals,
	}
}

// NewServiceRole declares a role assumable by the given AWS services, e.g.
// "glue.amazonaws.com".
func NewServiceRole(name, description string, services ...string) *Role {
	principals := make([]Principal, 0, len(services))
	for _, svc := range services {
		principals = append(principals, ServicePrincipal(svc))
	}
	return NewRole(name, description, principals...)
}

// Attach adds an inline policy.
func (r *Role) Attach(name string, statements ...Statement) {
	r.Policies = append(r.Policies, Policy{Name: name, Statements: statements})
}

// WithInstanceProfile sets the instance profile name and returns r.
func (r *Role) WithInstanceProfile(name string) *Role {
	r.InstanceProfile = name
	return r
}

// Statements returns the statements of every inline policy.
func (r *Role) Statements() []Statement {
	var out []Statement
	for _, p := range r.Policies {
		out = append(out, p.Statements...)
	}
	return out
}

// Validate checks the trust relationship and least privilege.
func (r *Role) Validate() error {
	if len(r.AssumedBy) == 0 {
		return errors.Newf("role %s has no trusted principal", r.Name)
	}
	if err := ValidateStatements(r.Statements()); err != nil {
		return errors.Wrapf(err, "role %s", r.Name)
	}
	return nil
}

// TrustPolicy renders the assume role policy document.
func (r *Role) TrustPolicy() (string, error) {
	return PolicyDocument([]Statement{{
		Effect:     "Allow",
		Principals: r.AssumedBy,
		Actions:    []string{"sts:AssumeRole"},
	}})
}

// ARN is the role ARN with the account left for the engine to fill in.
func (r *Role) ARN() string {
	return arn.ARN{Partition: "aws", Service: "iam", AccountID: topology.Account, Resource: "role/" + r.Name}.String()
}
