package model

import (
	"slices"
	"time"
)

// HostRecord is a host known to the inventory.
type HostRecord struct {
	ID              string // hostname
	Backend         BackendKind
	LeaseID         string // leased-host only
	OperatingSystem OperatingSystem
	Architecture    Architecture
	Flavor          Flavor
	Stage           Stage
	Provider        Provider // local-hypervisor only
	Groups          []string
	Attributes      map[string]string
	CreatedAt       time.Time
}

// Well-known HostRecord attribute keys.
const (
	AttrAddress     = "address"
	AttrRegion      = "region"
	AttrZone        = "zone"
	AttrSchedulable = "schedulable"
)

// InGroup reports whether the host belongs to group.
func (h *HostRecord) InGroup(group string) bool {
	return slices.Contains(h.Groups, group)
}

// Clone returns a deep copy of h.
func (h *HostRecord) Clone() *HostRecord {
	cp := *h
	cp.Groups = slices.Clone(h.Groups)
	if h.Attributes != nil {
		cp.Attributes = make(map[string]string, len(h.Attributes))
		for k, v := range h.Attributes {
			cp.Attributes[k] = v
		}
	}
	return &cp
}

// VMState is the lifecycle state of the local-hypervisor VM.
type VMState string

const (
	VMAbsent       VMState = "absent"
	VMProvisioning VMState = "provisioning"
	VMActive       VMState = "active"
	VMDestroying   VMState = "destroying"
)

// ActiveVM is the "current VM" slot used by the local-hypervisor backend.
type ActiveVM struct {
	Hostname        string
	OperatingSystem OperatingSystem
	Provider        Provider
	Stage           Stage
	Architecture    Architecture
	Flavor          Flavor
	NetworkAddress  string
	State           VMState
	CreatedAt       time.Time
}
