package model

// DefaultServiceLOB tags service endpoints whose catalog entry carries no
// lob override.
const DefaultServiceLOB = "CONINFRA"

// Host is a client machine that needs access to a service. Address is empty
// when resolution failed; Name always carries at least the original lookup
// key.
type Host struct {
	Name    string
	Address string
}

// Endpoint is a named, addressed, ported side of a service connection.
// ProtocolPort is an opaque token such as "443/tcp" and is copied into rules
// verbatim, never parsed.
type Endpoint struct {
	Name         string `yaml:"hostname"`
	Address      string `yaml:"-"`
	ProtocolPort string `yaml:"protocol_port"`
}

// ServiceDefinition describes one catalog entry. Incoming endpoints receive
// traffic from the hosts; Outgoing endpoints generate reverse rules when
// Bidirectional is set.
type ServiceDefinition struct {
	Incoming      []Endpoint `yaml:"incoming"`
	Outgoing      []Endpoint `yaml:"outgoing,omitempty"`
	Bidirectional bool       `yaml:"bi-directional,omitempty"`
	LOB           string     `yaml:"lob,omitempty"`
}

// Rule is a single firewall access-control rule. The field order is the
// output column order and must not change.
type Rule struct {
	SourceHostname          string
	SourceIPAddress         string
	SourceLOB               string
	DestinationHostname     string
	DestinationIPAddress    string
	DestinationLOB          string
	DestinationProtocolPort string
	AddModifyRemove         string
	Temporary               string
}

// RuleHeader lists the CSV column names in rule field order.
func RuleHeader() []string {
	return []string{
		"source_hostname",
		"source_ip_address",
		"source_lob",
		"destination_hostname",
		"destination_ip_address",
		"destination_lob",
		"destination_protocol_port",
		"add_modify_remove",
		"temporary",
	}
}

// Record returns the rule as a CSV row matching RuleHeader.
func (r Rule) Record() []string {
	return []string{
		r.SourceHostname,
		r.SourceIPAddress,
		r.SourceLOB,
		r.DestinationHostname,
		r.DestinationIPAddress,
		r.DestinationLOB,
		r.DestinationProtocolPort,
		r.AddModifyRemove,
		r.Temporary,
	}
}
