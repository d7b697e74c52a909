package model

import (
	"reflect"
	"testing"
)

func TestTranslate_Vagrant(t *testing.T) {
	req := ProvisioningRequest{
		Backend:         BackendLocalHypervisor,
		OperatingSystem: OSFedora,
		Architecture:    ArchX86_64,
		Flavor:          FlavorMedium,
		Stage:           StageInstall,
		Provider:        ProviderLibvirt,
		NetworkAddress:  "10.245.2.2",
	}
	env := TranslateEnv{VagrantHome: "/home/ci/.config/octops/vagrant", VMHostname: "openshiftdevel"}

	got := Translate(req, env)
	want := ParameterSet{
		"origin_ci_vagrant_home_dir": "/home/ci/.config/octops/vagrant",
		"origin_ci_vagrant_os":       "fedora",
		"origin_ci_vagrant_provider": "libvirt",
		"origin_ci_vagrant_stage":    "install",
		"origin_ci_vagrant_ip":       "10.245.2.2",
		"origin_ci_vagrant_hostname": "openshiftdevel",
		"origin_ci_vagrant_arch":     "x86_64",
		"origin_ci_vagrant_flavor":   "medium",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Translate() = %#v\nwant %#v", got, want)
	}

	req.NetworkAddress = ""
	if _, ok := Translate(req, env)["origin_ci_vagrant_ip"]; ok {
		t.Fatal("origin_ci_vagrant_ip must be omitted when no address is requested")
	}
}

func TestTranslate_Duffy(t *testing.T) {
	req := ProvisioningRequest{Backend: BackendLeasedHost, OperatingSystem: OSCentOS, Architecture: ArchAArch64, Flavor: FlavorXramMedium, Stage: StageBare}
	got := Translate(req, TranslateEnv{InventoryDir: "/tmp/inv"})

	if got.String("origin_ci_duffy_arch") != "aarch64" || got.String("origin_ci_duffy_flavor") != "xram.medium" {
		t.Fatalf("unexpected arch/flavor: %#v", got)
	}
	if !reflect.DeepEqual(got["origin_ci_duffy_groups"], []string{"etcd", "masters", "nodes"}) {
		t.Fatalf("unexpected groups: %#v", got["origin_ci_duffy_groups"])
	}
	if got["openshift_schedulable"] != true {
		t.Fatalf("openshift_schedulable = %#v, want true", got["openshift_schedulable"])
	}
	if !reflect.DeepEqual(got["openshift_node_labels"], map[string]string{"region": "infra", "zone": "default"}) {
		t.Fatalf("unexpected labels: %#v", got["openshift_node_labels"])
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	for _, backend := range AllBackendKinds() {
		req := ProvisioningRequest{
			Backend:         backend,
			OperatingSystem: OSCentOS,
			Architecture:    ArchX86_64,
			Flavor:          FlavorSmall,
			Stage:           StageBare,
			Provider:        ProviderVirtualBox,
			Hostname:        "remote.example.com",
		}
		env := TranslateEnv{VagrantHome: "/v", VMHostname: "vm", InventoryDir: "/i"}

		a := Translate(req, env)
		b := Translate(req, env)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: Translate is not deterministic: %#v vs %#v", backend, a, b)
		}
		if len(a) == 0 {
			t.Fatalf("%s: empty parameter set", backend)
		}

		// Mutating one result must not leak into the next.
		for k := range a {
			a[k] = "mutated"
		}
		if c := Translate(req, env); !reflect.DeepEqual(b, c) {
			t.Fatalf("%s: results share state", backend)
		}
	}
}

func TestTranslate_UnknownBackend(t *testing.T) {
	if got := Translate(ProvisioningRequest{Backend: "cloud"}, TranslateEnv{}); len(got) != 0 {
		t.Fatalf("Translate(unknown) = %#v, want empty", got)
	}
}
