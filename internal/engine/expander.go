package engine

import (
	"context"

	"facr-builder/internal/model"
	"facr-builder/internal/resolver"
)

const (
	defaultAction    = "Add"
	defaultTemporary = "No"

	// Outbound rule sources always carry the infrastructure tag, regardless
	// of the service's own LOB. Confirmed legacy behavior; change here if
	// the product decision is ever reversed.
	outboundSourceLOB = "CONINFRA"
)

// Expander builds firewall access-control rules connecting a host set to a
// service definition. All name resolution goes through the attached
// resolver, strictly sequentially.
type Expander struct {
	resolver *resolver.Resolver
}

func NewExpander(r *resolver.Resolver) *Expander {
	return &Expander{resolver: r}
}

// ResolveHosts resolves a raw host name list into Host records, one lookup
// pair per name, in input order. Names that fail to resolve are kept with an
// empty address.
func (e *Expander) ResolveHosts(ctx context.Context, names []string) []model.Host {
	hosts := make([]model.Host, 0, len(names))
	for _, name := range names {
		addr, resolved := e.resolver.Resolve(ctx, name)
		hosts = append(hosts, model.Host{Name: resolved, Address: addr})
	}
	return hosts
}

// Expand produces the complete rule set for one service. Inbound rules come
// first (hosts outer, incoming endpoints inner), followed by outbound rules
// when the service is bidirectional (outgoing endpoints outer, hosts inner).
// That ordering determines output row order and must stay stable.
func (e *Expander) Expand(ctx context.Context, hosts []model.Host, hostLOB string, svc model.ServiceDefinition) []model.Rule {
	incoming := e.resolveEndpoints(ctx, svc.Incoming)
	outgoing := e.resolveEndpoints(ctx, svc.Outgoing)

	serviceLOB := svc.LOB
	if serviceLOB == "" {
		serviceLOB = model.DefaultServiceLOB
	}

	var rules []model.Rule
	for _, host := range hosts {
		for _, ep := range incoming {
			rules = append(rules, model.Rule{
				SourceHostname:          host.Name,
				SourceIPAddress:         host.Address,
				SourceLOB:               hostLOB,
				DestinationHostname:     ep.Name,
				DestinationIPAddress:    ep.Address,
				DestinationLOB:          serviceLOB,
				DestinationProtocolPort: ep.ProtocolPort,
				AddModifyRemove:         defaultAction,
				Temporary:               defaultTemporary,
			})
		}
	}

	if !svc.Bidirectional {
		return rules
	}

	for _, ep := range outgoing {
		for _, host := range hosts {
			rules = append(rules, model.Rule{
				SourceHostname:          ep.Name,
				SourceIPAddress:         ep.Address,
				SourceLOB:               outboundSourceLOB,
				DestinationHostname:     host.Name,
				DestinationIPAddress:    host.Address,
				DestinationLOB:          hostLOB,
				DestinationProtocolPort: ep.ProtocolPort,
				AddModifyRemove:         defaultAction,
				Temporary:               defaultTemporary,
			})
		}
	}

	return rules
}

// resolveEndpoints resolves each endpoint exactly once, preserving order and
// the verbatim protocol/port token.
func (e *Expander) resolveEndpoints(ctx context.Context, endpoints []model.Endpoint) []model.Endpoint {
	resolved := make([]model.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		addr, name := e.resolver.Resolve(ctx, ep.Name)
		resolved = append(resolved, model.Endpoint{
			Name:         name,
			Address:      addr,
			ProtocolPort: ep.ProtocolPort,
		})
	}
	return resolved
}
