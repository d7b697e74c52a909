package ansible

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaegashi/octops/domain/model"
	"gopkg.in/yaml.v3"
)

func TestRender(t *testing.T) {
	hosts := []*model.HostRecord{
		{
			ID:         "n1.ci.centos.org",
			Backend:    model.BackendLeasedHost,
			LeaseID:    "ab12",
			Flavor:     model.FlavorMedium,
			Groups:     model.DefaultGroups(),
			Attributes: map[string]string{"region": "infra", model.AttrAddress: "172.19.3.1"},
		},
		{ID: "openshiftdevel", Backend: model.BackendLocalHypervisor, Provider: model.ProviderLibvirt},
	}
	b, err := Render(hosts)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(b, &got))
	all := got["all"].(map[string]any)

	hv := all["hosts"].(map[string]any)
	n1 := hv["n1.ci.centos.org"].(map[string]any)
	assert.Equal(t, "172.19.3.1", n1["ansible_host"])
	assert.Equal(t, "infra", n1["octops_region"])
	assert.Equal(t, "ab12", n1["octops_lease_id"])
	assert.Equal(t, "libvirt", hv["openshiftdevel"].(map[string]any)["octops_provider"])

	children := all["children"].(map[string]any)
	for _, g := range []string{"etcd", "masters", "nodes"} {
		members := children[g].(map[string]any)["hosts"].(map[string]any)
		assert.Contains(t, members, "n1.ci.centos.org")
		assert.NotContains(t, members, "openshiftdevel")
	}

	again, err := Render(hosts)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(again), "output must be stable")
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv", "hosts.yml")
	e := NewExporter(path)
	require.NoError(t, e.Export(context.Background(), []*model.HostRecord{{ID: "h1", Backend: model.BackendRemoteHost}}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "h1:")

	require.NoError(t, e.Export(context.Background(), nil))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "h1:")

	assert.NoError(t, NewExporter("").Export(context.Background(), nil))
}

func TestRender_InvalidGroup(t *testing.T) {
	_, err := Render([]*model.HostRecord{{ID: "h1", Groups: []string{"Bad Group"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid group name")
}
