package provision

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/resource"
)

func (p *Provisioner) network(n *resource.Network, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	vpc, err := ec2.NewVpc(p.ctx, n.Name, &ec2.VpcArgs{
		CidrBlock:          pulumi.String(n.CidrBlock),
		EnableDnsHostnames: pulumi.Bool(true),
		EnableDnsSupport:   pulumi.Bool(true),
		Tags:               tags(&n.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	created := []pulumi.Resource{vpc}
	out := attrs{"id": vpc.ID().ToStringOutput()}

	igw, err := ec2.NewInternetGateway(p.ctx, n.Name+"-igw", &ec2.InternetGatewayArgs{
		VpcId: vpc.ID(),
		Tags:  pulumi.StringMap{"Name": pulumi.String(n.Name + "-igw")},
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	created = append(created, igw)

	publicRoutes, err := ec2.NewRouteTable(p.ctx, n.Name+"-public-rt", &ec2.RouteTableArgs{
		VpcId: vpc.ID(),
		Routes: ec2.RouteTableRouteArray{
			&ec2.RouteTableRouteArgs{
				CidrBlock: pulumi.String("0.0.0.0/0"),
				GatewayId: igw.ID(),
			},
		},
		Tags: pulumi.StringMap{"Name": pulumi.String(n.Name + "-public-rt")},
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	created = append(created, publicRoutes)

	for i, s := range n.Subnets {
		subnet, err := ec2.NewSubnet(p.ctx, s.Name, &ec2.SubnetArgs{
			VpcId:               vpc.ID(),
			CidrBlock:           pulumi.String(s.CidrBlock),
			AvailabilityZone:    pulumi.String(s.AvailabilityZone),
			MapPublicIpOnLaunch: pulumi.Bool(s.Public),
			Tags:                pulumi.StringMap{"Name": pulumi.String(s.Name)},
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, subnet)
		out[resource.SubnetAttr(i)] = subnet.ID().ToStringOutput()

		// Private subnets keep the VPC main route table: no NAT, no egress.
		if !s.Public {
			continue
		}
		assoc, err := ec2.NewRouteTableAssociation(p.ctx, s.Name+"-rta", &ec2.RouteTableAssociationArgs{
			SubnetId:     subnet.ID(),
			RouteTableId: publicRoutes.ID(),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, assoc)
	}
	return created, out, nil
}

func (p *Provisioner) securityGroup(sg *resource.SecurityGroup, opts []pulumi.ResourceOption) ([]pulumi.Resource, attrs, error) {
	if err := sg.Validate(); err != nil {
		return nil, nil, err
	}
	ingress := ec2.SecurityGroupIngressArray{}
	for _, r := range sg.Ingress {
		ingress = append(ingress, &ec2.SecurityGroupIngressArgs{
			Protocol:    pulumi.String(r.Protocol),
			FromPort:    pulumi.Int(r.FromPort),
			ToPort:      pulumi.Int(r.ToPort),
			CidrBlocks:  cidrBlocks(r),
			Self:        pulumi.Bool(r.Self),
			Description: pulumi.String(r.Description),
		})
	}
	egress := ec2.SecurityGroupEgressArray{}
	for _, r := range sg.Egress {
		egress = append(egress, &ec2.SecurityGroupEgressArgs{
			Protocol:    pulumi.String(r.Protocol),
			FromPort:    pulumi.Int(r.FromPort),
			ToPort:      pulumi.Int(r.ToPort),
			CidrBlocks:  cidrBlocks(r),
			Self:        pulumi.Bool(r.Self),
			Description: pulumi.String(r.Description),
		})
	}

	group, err := ec2.NewSecurityGroup(p.ctx, sg.Name, &ec2.SecurityGroupArgs{
		Name:        pulumi.String(sg.Name),
		VpcId:       p.str(sg.VpcID),
		Description: pulumi.String(sg.Description),
		Ingress:     ingress,
		Egress:      egress,
		Tags:        tags(&sg.Meta),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return []pulumi.Resource{group}, attrs{"id": group.ID().ToStringOutput()}, nil
}

func cidrBlocks(r resource.Rule) pulumi.StringArray {
	if r.CidrBlock == "" {
		return nil
	}
	return pulumi.StringArray{pulumi.String(r.CidrBlock)}
}
