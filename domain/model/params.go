package model

// ParameterSet is the flat variable mapping handed to the automation
// layer. Values are strings, booleans, string slices or string maps.
type ParameterSet map[string]any

// TranslateEnv carries configuration-derived values needed by Translate.
type TranslateEnv struct {
	VagrantHome  string
	VMHostname   string
	InventoryDir string
}

const (
	GroupEtcd    = "etcd"
	GroupMasters = "masters"
	GroupNodes   = "nodes"
)

// DefaultGroups is the group membership of an all-in-one host.
func DefaultGroups() []string {
	return []string{GroupEtcd, GroupMasters, GroupNodes}
}

// DefaultNodeLabels are the scheduling labels of an all-in-one host.
func DefaultNodeLabels() map[string]string {
	return map[string]string{
		"region": "infra",
		"zone":   "default",
	}
}

// Translate maps a request to the variables expected by the playbooks.
// It is deterministic and returns a new map on every call.
func Translate(req ProvisioningRequest, env TranslateEnv) ParameterSet {
	switch req.Backend {
	case BackendLocalHypervisor:
		p := ParameterSet{
			"origin_ci_vagrant_home_dir": env.VagrantHome,
			"origin_ci_vagrant_os":       string(req.OperatingSystem),
			"origin_ci_vagrant_provider": string(req.Provider),
			"origin_ci_vagrant_stage":    string(req.Stage),
			"origin_ci_vagrant_hostname": env.VMHostname,
			"origin_ci_vagrant_arch":     string(req.Architecture),
			"origin_ci_vagrant_flavor":   string(req.Flavor),
		}
		if req.NetworkAddress != "" {
			p["origin_ci_vagrant_ip"] = req.NetworkAddress
		}
		return p
	case BackendLeasedHost:
		return ParameterSet{
			"origin_ci_duffy_arch":    string(req.Architecture),
			"origin_ci_duffy_flavor":  string(req.Flavor),
			"origin_ci_duffy_groups":  DefaultGroups(),
			"origin_ci_inventory_dir": env.InventoryDir,
			"openshift_schedulable":   true,
			"openshift_node_labels":   DefaultNodeLabels(),
		}
	case BackendRemoteHost:
		return ParameterSet{
			"origin_ci_remote_hostname": req.Hostname,
			"origin_ci_remote_os":       string(req.OperatingSystem),
			"origin_ci_remote_arch":     string(req.Architecture),
			"origin_ci_remote_stage":    string(req.Stage),
			"origin_ci_remote_groups":   DefaultGroups(),
			"origin_ci_inventory_dir":   env.InventoryDir,
		}
	default:
		return ParameterSet{}
	}
}

// TeardownParameters returns the variables for the local-hypervisor
// teardown playbook.
func TeardownParameters(env TranslateEnv) ParameterSet {
	return ParameterSet{
		"origin_ci_vagrant_home_dir": env.VagrantHome,
	}
}

// String returns the value of key if it is a string.
func (p ParameterSet) String(key string) string {
	s, _ := p[key].(string)
	return s
}
