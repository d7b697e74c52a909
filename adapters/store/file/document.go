package file

import (
	"time"

	"github.com/yaegashi/octops/domain/model"
)

const documentVersion = 1

// document is the on-disk layout of the state file.
type document struct {
	Version int          `yaml:"version"`
	VM      *vmEntry     `yaml:"vm,omitempty"`
	Hosts   []*hostEntry `yaml:"hosts"`
}

type hostEntry struct {
	ID              string            `yaml:"id"`
	Backend         string            `yaml:"backend"`
	LeaseID         string            `yaml:"leaseId,omitempty"`
	OperatingSystem string            `yaml:"os,omitempty"`
	Architecture    string            `yaml:"arch,omitempty"`
	Flavor          string            `yaml:"flavor,omitempty"`
	Stage           string            `yaml:"stage,omitempty"`
	Provider        string            `yaml:"provider,omitempty"`
	Groups          []string          `yaml:"groups,omitempty"`
	Attributes      map[string]string `yaml:"attributes,omitempty"`
	CreatedAt       time.Time         `yaml:"createdAt"`
}

type vmEntry struct {
	Hostname        string    `yaml:"hostname"`
	OperatingSystem string    `yaml:"os,omitempty"`
	Provider        string    `yaml:"provider,omitempty"`
	Stage           string    `yaml:"stage,omitempty"`
	Architecture    string    `yaml:"arch,omitempty"`
	Flavor          string    `yaml:"flavor,omitempty"`
	NetworkAddress  string    `yaml:"ip,omitempty"`
	State           string    `yaml:"state"`
	CreatedAt       time.Time `yaml:"createdAt"`
}

func toDocument(hosts []*model.HostRecord, vm *model.ActiveVM) *document {
	doc := &document{Version: documentVersion, Hosts: make([]*hostEntry, 0, len(hosts))}
	for _, h := range hosts {
		doc.Hosts = append(doc.Hosts, &hostEntry{
			ID:              h.ID,
			Backend:         string(h.Backend),
			LeaseID:         h.LeaseID,
			OperatingSystem: string(h.OperatingSystem),
			Architecture:    string(h.Architecture),
			Flavor:          string(h.Flavor),
			Stage:           string(h.Stage),
			Provider:        string(h.Provider),
			Groups:          h.Groups,
			Attributes:      h.Attributes,
			CreatedAt:       h.CreatedAt,
		})
	}
	if vm != nil {
		doc.VM = &vmEntry{
			Hostname:        vm.Hostname,
			OperatingSystem: string(vm.OperatingSystem),
			Provider:        string(vm.Provider),
			Stage:           string(vm.Stage),
			Architecture:    string(vm.Architecture),
			Flavor:          string(vm.Flavor),
			NetworkAddress:  vm.NetworkAddress,
			State:           string(vm.State),
			CreatedAt:       vm.CreatedAt,
		}
	}
	return doc
}

func (d *document) model() ([]*model.HostRecord, *model.ActiveVM) {
	hosts := make([]*model.HostRecord, 0, len(d.Hosts))
	for _, e := range d.Hosts {
		if e == nil || e.ID == "" {
			continue
		}
		hosts = append(hosts, &model.HostRecord{
			ID:              e.ID,
			Backend:         model.BackendKind(e.Backend),
			LeaseID:         e.LeaseID,
			OperatingSystem: model.OperatingSystem(e.OperatingSystem),
			Architecture:    model.Architecture(e.Architecture),
			Flavor:          model.Flavor(e.Flavor),
			Stage:           model.Stage(e.Stage),
			Provider:        model.Provider(e.Provider),
			Groups:          e.Groups,
			Attributes:      e.Attributes,
			CreatedAt:       e.CreatedAt,
		})
	}
	var vm *model.ActiveVM
	if d.VM != nil && d.VM.Hostname != "" {
		vm = &model.ActiveVM{
			Hostname:        d.VM.Hostname,
			OperatingSystem: model.OperatingSystem(d.VM.OperatingSystem),
			Provider:        model.Provider(d.VM.Provider),
			Stage:           model.Stage(d.VM.Stage),
			Architecture:    model.Architecture(d.VM.Architecture),
			Flavor:          model.Flavor(d.VM.Flavor),
			NetworkAddress:  d.VM.NetworkAddress,
			State:           model.VMState(d.VM.State),
			CreatedAt:       d.VM.CreatedAt,
		}
		if vm.State == "" {
			vm.State = model.VMActive
		}
	}
	return hosts, vm
}
