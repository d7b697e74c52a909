// Package ansible renders the host inventory as an Ansible YAML inventory.
package ansible

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/naming"
	"gopkg.in/yaml.v3"
)

type group struct {
	Hosts map[string]struct{} `yaml:"hosts"`
}

type inventory struct {
	All struct {
		Hosts    map[string]map[string]any `yaml:"hosts"`
		Children map[string]group          `yaml:"children,omitempty"`
	} `yaml:"all"`
}

// Exporter writes the inventory to Path on every Export.
type Exporter struct {
	Path string
}

// NewExporter creates an Exporter writing to path.
func NewExporter(path string) *Exporter { return &Exporter{Path: path} }

// Render returns the YAML inventory for hosts.
func Render(hosts []*model.HostRecord) ([]byte, error) {
	var inv inventory
	inv.All.Hosts = make(map[string]map[string]any, len(hosts))
	inv.All.Children = make(map[string]group)
	for _, h := range hosts {
		inv.All.Hosts[h.ID] = hostVars(h)
		for _, g := range h.Groups {
			if err := naming.ValidateGroupName(g); err != nil {
				return nil, fmt.Errorf("host %s: %w", h.ID, err)
			}
			grp, ok := inv.All.Children[g]
			if !ok {
				grp = group{Hosts: make(map[string]struct{})}
				inv.All.Children[g] = grp
			}
			grp.Hosts[h.ID] = struct{}{}
		}
	}
	return yaml.Marshal(&inv)
}

func hostVars(h *model.HostRecord) map[string]any {
	vars := map[string]any{
		"octops_backend": string(h.Backend),
	}
	set := func(k, v string) {
		if v != "" {
			vars[k] = v
		}
	}
	set("octops_os", string(h.OperatingSystem))
	set("octops_arch", string(h.Architecture))
	set("octops_flavor", string(h.Flavor))
	set("octops_stage", string(h.Stage))
	set("octops_provider", string(h.Provider))
	set("octops_lease_id", h.LeaseID)

	keys := make([]string, 0, len(h.Attributes))
	for k := range h.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == model.AttrAddress {
			vars["ansible_host"] = h.Attributes[k]
			continue
		}
		vars["octops_"+k] = h.Attributes[k]
	}
	return vars
}

// Export writes the inventory file, replacing any previous content.
func (e *Exporter) Export(_ context.Context, hosts []*model.HostRecord) error {
	if e.Path == "" {
		return nil
	}
	b, err := Render(hosts)
	if err != nil {
		return fmt.Errorf("render inventory: %w", err)
	}
	dir := filepath.Dir(e.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create inventory dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(e.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), e.Path); err != nil {
		return fmt.Errorf("write inventory %s: %w", e.Path, err)
	}
	return nil
}

var _ domain.InventoryExporter = (*Exporter)(nil)
