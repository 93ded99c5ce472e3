package resource

import (
	"fmt"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/topology"
)

const (
	KindNetwork       topology.Kind = "aws:ec2:Network"
	KindSecurityGroup topology.Kind = "aws:ec2:SecurityGroup"
)

// Subnet is one partition of the network.
type Subnet struct {
	Name             string `yaml:"name"`
	CidrBlock        string `yaml:"cidrBlock"`
	AvailabilityZone string `yaml:"availabilityZone"`
	Public           bool   `yaml:"public"`
}

// Network declares a VPC with its subnets, internet gateway and routing.
// NAT and VPN gateways are never created.
type Network struct {
	topology.Meta `yaml:",inline"`

	CidrBlock   string   `yaml:"cidrBlock"`
	Subnets     []Subnet `yaml:"subnets"`
	NatGateways int      `yaml:"natGateways"`
	VpnGateway  bool     `yaml:"vpnGateway"`
}

// NewNetwork splits cidr into one public and one private /24 per zone:
// 10.0.0.0/24, 10.0.1.0/24 public, 10.0.2.0/24, 10.0.3.0/24 private for a
// 10.0.0.0/16 network across two zones.
func NewNetwork(name, cidr string, zones []string) (*Network, error) {
	var a, b, c, d, bits int
	if _, err := fmt.Sscanf(cidr, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &bits); err != nil {
		return nil, errors.Wrapf(err, "network cidr %q", cidr)
	}
	if bits > 22 || c != 0 || d != 0 {
		return nil, errors.Newf("network cidr %q must be a /22 or larger block aligned on x.y.0.0", cidr)
	}
	if len(zones) < 2 {
		return nil, errors.Newf("network %s needs at least two availability zones", name)
	}

	n := &Network{
		Meta:      topology.Meta{Name: name, Kind: KindNetwork},
		CidrBlock: cidr,
	}
	third := 0
	for _, public := range []bool{true, false} {
		kind := "private"
		if public {
			kind = "public"
		}
		for i, zone := range zones {
			n.Subnets = append(n.Subnets, Subnet{
				Name:             fmt.Sprintf("%s-%s-%d", name, kind, i+1),
				CidrBlock:        fmt.Sprintf("%d.%d.%d.0/24", a, b, third),
				AvailabilityZone: zone,
				Public:           public,
			})
			third++
		}
	}
	return n, nil
}

// VpcID returns the token of the generated VPC id.
func (n *Network) VpcID() string {
	return topology.Attr(n, "id")
}

// SubnetIDs returns the tokens of the public or private subnet ids.
func (n *Network) SubnetIDs(public bool) []string {
	var ids []string
	for i, s := range n.Subnets {
		if s.Public == public {
			ids = append(ids, topology.Attr(n, SubnetAttr(i)))
		}
	}
	return ids
}

// SubnetCidrs returns the CIDR blocks of the public or private subnets.
func (n *Network) SubnetCidrs(public bool) []string {
	var cidrs []string
	for _, s := range n.Subnets {
		if s.Public == public {
			cidrs = append(cidrs, s.CidrBlock)
		}
	}
	return cidrs
}

// SubnetAttr is the attribute name under which subnet i's id is exported.
func SubnetAttr(i int) string {
	return fmt.Sprintf("subnet%dId", i)
}

// Rule is a security group ingress or egress rule.
type Rule struct {
	Protocol    string `yaml:"protocol"`
	FromPort    int    `yaml:"fromPort"`
	ToPort      int    `yaml:"toPort"`
	CidrBlock   string `yaml:"cidrBlock,omitempty"`
	Self        bool   `yaml:"self,omitempty"`
	Description string `yaml:"description"`
}

// TCP allows a single TCP port from cidr.
func TCP(port int, cidr, description string) Rule {
	return Rule{Protocol: "tcp", FromPort: port, ToPort: port, CidrBlock: cidr, Description: description}
}

// TCPFromSelf allows a single TCP port from members of the same group.
func TCPFromSelf(port int, description string) Rule {
	return Rule{Protocol: "tcp", FromPort: port, ToPort: port, Self: true, Description: description}
}

// AllowAllOutbound is the explicit egress rule used by every group.
func AllowAllOutbound() []Rule {
	return []Rule{{Protocol: "-1", CidrBlock: "0.0.0.0/0", Description: "Allow all outbound traffic"}}
}

// SecurityGroup declares a security group. An empty Ingress list means no
// inbound traffic at all.
type SecurityGroup struct {
	topology.Meta `yaml:",inline"`

	VpcID       string `yaml:"vpcId"`
	Description string `yaml:"description"`
	Ingress     []Rule `yaml:"ingress"`
	Egress      []Rule `yaml:"egress"`
}

// NewSecurityGroup declares a group inside network with explicit egress.
func NewSecurityGroup(name, description string, network *Network) *SecurityGroup {
	sg := &SecurityGroup{
		Meta:        topology.Meta{Name: name, Kind: KindSecurityGroup},
		VpcID:       network.VpcID(),
		Description: description,
		Ingress:     []Rule{},
		Egress:      AllowAllOutbound(),
	}
	sg.Depends(network)
	return sg
}

// Allow appends ingress rules and returns the group.
func (sg *SecurityGroup) Allow(rules ...Rule) *SecurityGroup {
	sg.Ingress = append(sg.Ingress, rules...)
	return sg
}

// ID returns the token of the generated group id.
func (sg *SecurityGroup) ID() string {
	return topology.Attr(sg, "id")
}

// Validate checks that every rule names a protocol and a source.
func (sg *SecurityGroup) Validate() error {
	for i, r := range append(append([]Rule{}, sg.Ingress...), sg.Egress...) {
		if r.Protocol == "" {
			return errors.Newf("security group %s rule %d has no protocol", sg.Name, i)
		}
		if r.CidrBlock == "" && !r.Self {
			return errors.Newf("security group %s rule %d has no source", sg.Name, i)
		}
		if r.Protocol != "-1" && (r.FromPort <= 0 || r.ToPort < r.FromPort) {
			return errors.Newf("security group %s rule %d has invalid ports %d-%d", sg.Name, i, r.FromPort, r.ToPort)
		}
	}
	return nil
}
