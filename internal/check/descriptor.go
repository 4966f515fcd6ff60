// Package check implements the metric evaluation core: threshold range
// parsing, single and correlated comparison, and the mapping of comparison
// outcomes to the OK/WARNING/CRITICAL/UNKNOWN status taxonomy.
package check

import (
	"fmt"
	"strings"
)

// Default connection coordinates for a Jolokia bridge agent.
const (
	DefaultAttribute = "Value"
	DefaultHost      = "localhost"
	DefaultPort      = 8778
	DefaultContext   = "jolokia"
)

// MetricDescriptor identifies one metric exposed by a monitored process:
// an MBean, the attribute to read, an optional key for map-valued
// attributes, and the bridge coordinates to fetch it from. Descriptors are
// value objects; Normalize returns a copy with defaults applied rather than
// mutating in place.
type MetricDescriptor struct {
	// Bean is the MBean object name (e.g.
	// "java.lang:type=Memory" or
	// "kafka.server:type=ReplicaManager,name=UnderReplicatedPartitions").
	Bean string

	// Attribute is the MBean attribute to inspect (default: "Value").
	Attribute string

	// Key selects one entry of a map-valued attribute (e.g. "used" inside
	// HeapMemoryUsage). Empty means the attribute value is used directly.
	Key string

	// Host is the bridge host (default: "localhost").
	Host string

	// Port is the bridge port (default: 8778).
	Port int

	// Context is the bridge context path (default: "jolokia").
	Context string
}

// Normalize returns a copy with unset fields filled in with the plugin
// defaults and the context path stripped of surrounding slashes.
func (d MetricDescriptor) Normalize() MetricDescriptor {
	if d.Attribute == "" {
		d.Attribute = DefaultAttribute
	}
	if d.Host == "" {
		d.Host = DefaultHost
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	if d.Context == "" {
		d.Context = DefaultContext
	}
	d.Context = strings.Trim(d.Context, "/")
	return d
}

// Label renders the metric identity used in plugin output lines:
// "NAME A:<attribute>" or "NAME A:<attribute> K:<key>".
func (d MetricDescriptor) Label() string {
	d = d.Normalize()
	if d.Key != "" {
		return fmt.Sprintf("%s A:%s K:%s", d.Bean, d.Attribute, d.Key)
	}
	return fmt.Sprintf("%s A:%s", d.Bean, d.Attribute)
}
