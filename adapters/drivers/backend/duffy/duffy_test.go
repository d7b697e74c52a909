package duffy

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	backenddrv "github.com/yaegashi/octops/adapters/drivers/backend"
	"github.com/yaegashi/octops/domain/model"
)

type mockLease struct {
	requestFunc   func(ctx context.Context, arch model.Architecture, flavor model.Flavor) ([]string, string, error)
	inventoryFunc func(ctx context.Context, leaseID string) (map[string]model.HostProperties, error)
	releaseFunc   func(ctx context.Context, leaseID string) error
}

func (m *mockLease) Request(ctx context.Context, arch model.Architecture, flavor model.Flavor) ([]string, string, error) {
	return m.requestFunc(ctx, arch, flavor)
}
func (m *mockLease) Inventory(ctx context.Context, leaseID string) (map[string]model.HostProperties, error) {
	if m.inventoryFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.inventoryFunc(ctx, leaseID)
}
func (m *mockLease) Release(ctx context.Context, leaseID string) error {
	return m.releaseFunc(ctx, leaseID)
}

type mockRunner struct {
	runFunc func(ctx context.Context, playbook string, vars model.ParameterSet, opts model.RunOptions) error
	calls   []string
}

func (m *mockRunner) Run(ctx context.Context, playbook string, vars model.ParameterSet, opts model.RunOptions) error {
	m.calls = append(m.calls, playbook)
	if m.runFunc == nil {
		return nil
	}
	return m.runFunc(ctx, playbook, vars, opts)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newDriver(t *testing.T, lease model.LeasePort) backenddrv.Driver {
	t.Helper()
	return newDriverWithRunner(t, lease, &mockRunner{})
}

func newDriverWithRunner(t *testing.T, lease model.LeasePort, runner model.AutomationPort) backenddrv.Driver {
	t.Helper()
	d, err := New(backenddrv.Deps{Lease: lease, Runner: runner, Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func duffyParams(arch model.Architecture, flavor model.Flavor) model.ParameterSet {
	return model.Translate(model.ProvisioningRequest{
		Backend:         model.BackendLeasedHost,
		OperatingSystem: model.OSCentOS,
		Architecture:    arch,
		Flavor:          flavor,
		Stage:           model.StageBare,
	}, model.TranslateEnv{InventoryDir: "/inv"})
}

func TestNew_RequiresLease(t *testing.T) {
	if _, err := New(backenddrv.Deps{Runner: &mockRunner{}}); err == nil {
		t.Fatal("expected error without a leasing client")
	}
	if _, err := New(backenddrv.Deps{Lease: &mockLease{}}); err == nil {
		t.Fatal("expected error without a playbook runner")
	}
}

func TestDispatch_RunsAllInOnePlaybook(t *testing.T) {
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			return []string{"n1.ci.centos.org"}, "ss-7", nil
		},
	}
	params := duffyParams(model.ArchAArch64, model.FlavorXramMedium)
	r := &mockRunner{runFunc: func(_ context.Context, playbook string, vars model.ParameterSet, opts model.RunOptions) error {
		if vars.String("origin_ci_inventory_dir") != "/inv" {
			t.Errorf("origin_ci_inventory_dir = %q", vars.String("origin_ci_inventory_dir"))
		}
		if !reflect.DeepEqual(vars["origin_ci_duffy_groups"], []string{"etcd", "masters", "nodes"}) {
			t.Errorf("origin_ci_duffy_groups = %v", vars["origin_ci_duffy_groups"])
		}
		if vars["openshift_schedulable"] != true {
			t.Errorf("openshift_schedulable = %v", vars["openshift_schedulable"])
		}
		if !reflect.DeepEqual(vars["origin_ci_duffy_hosts"], []string{"n1.ci.centos.org"}) || vars.String("origin_ci_duffy_lease_id") != "ss-7" {
			t.Errorf("leased hosts not passed: %v", vars)
		}
		if opts.Verbosity != 3 {
			t.Errorf("Verbosity = %d", opts.Verbosity)
		}
		return nil
	}}

	recs, err := newDriverWithRunner(t, lease, r).Dispatch(context.Background(), model.ProvisioningRequest{}, params, model.DispatchOptions{Verbosity: 3, SkipInventoryLookup: true})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !reflect.DeepEqual(r.calls, []string{PlaybookUp}) {
		t.Fatalf("playbooks = %v", r.calls)
	}
	if len(recs) != 1 || recs[0].LeaseID != "ss-7" {
		t.Fatalf("records = %+v", recs)
	}
	if _, ok := params["origin_ci_duffy_hosts"]; ok {
		t.Error("Dispatch must not modify the caller's parameters")
	}
}

func TestDispatch_PlaybookFailureReleasesLease(t *testing.T) {
	boom := &model.ExternalError{Op: "ansible-playbook provision/duffy-up", ExitCode: 2, Err: errors.New("unreachable")}
	tests := []struct {
		name       string
		releaseErr error
		wantMsg    string
	}{
		{name: "released", wantMsg: "lease ss-9 released"},
		{name: "release fails", releaseErr: errors.New("timeout"), wantMsg: "lease ss-9 is still held"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var released []string
			lease := &mockLease{
				requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
					return []string{"n1"}, "ss-9", nil
				},
				releaseFunc: func(_ context.Context, id string) error {
					released = append(released, id)
					return tt.releaseErr
				},
			}
			r := &mockRunner{runFunc: func(context.Context, string, model.ParameterSet, model.RunOptions) error { return boom }}

			recs, err := newDriverWithRunner(t, lease, r).Dispatch(context.Background(), model.ProvisioningRequest{}, duffyParams(model.ArchX86_64, model.FlavorSmall), model.DispatchOptions{SkipInventoryLookup: true})
			if recs != nil {
				t.Fatalf("records = %+v, want none", recs)
			}
			if !errors.Is(err, boom) || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Dispatch() error = %v, want %q", err, tt.wantMsg)
			}
			if !reflect.DeepEqual(released, []string{"ss-9"}) {
				t.Fatalf("released = %v", released)
			}
		})
	}
}

func TestDispatch_ExactArchFlavor(t *testing.T) {
	var gotArch model.Architecture
	var gotFlavor model.Flavor
	lease := &mockLease{
		requestFunc: func(_ context.Context, arch model.Architecture, flavor model.Flavor) ([]string, string, error) {
			gotArch, gotFlavor = arch, flavor
			return []string{"n1.ci.centos.org", "n2.ci.centos.org"}, "ss-42", nil
		},
		inventoryFunc: func(_ context.Context, leaseID string) (map[string]model.HostProperties, error) {
			if leaseID != "ss-42" {
				t.Errorf("Inventory lease = %q", leaseID)
			}
			return map[string]model.HostProperties{
				"n1.ci.centos.org": {Architecture: model.ArchX86_64, Flavor: model.FlavorXramMedium, Address: "172.19.2.1"},
			}, nil
		},
	}
	req := model.ProvisioningRequest{Backend: model.BackendLeasedHost, OperatingSystem: model.OSCentOS, Architecture: model.ArchX86_64, Flavor: model.FlavorMedium, Stage: model.StageBare}

	recs, err := newDriver(t, lease).Dispatch(context.Background(), req, duffyParams(model.ArchX86_64, model.FlavorMedium), model.DispatchOptions{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotArch != model.ArchX86_64 || gotFlavor != model.FlavorMedium {
		t.Fatalf("Request(arch=%s, flavor=%s), want x86_64/medium", gotArch, gotFlavor)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	n1, n2 := recs[0], recs[1]
	if n1.ID != "n1.ci.centos.org" || n1.LeaseID != "ss-42" || n1.Flavor != model.FlavorXramMedium {
		t.Errorf("n1 = %+v", n1)
	}
	if n1.Attributes[model.AttrAddress] != "172.19.2.1" {
		t.Errorf("n1 address = %q", n1.Attributes[model.AttrAddress])
	}
	if n2.Flavor != model.FlavorMedium {
		t.Errorf("n2 must fall back to the requested flavor, got %s", n2.Flavor)
	}
	wantAttrs := map[string]string{"region": "infra", "zone": "default", "schedulable": "true"}
	if !reflect.DeepEqual(n2.Attributes, wantAttrs) {
		t.Errorf("n2 attributes = %v, want %v", n2.Attributes, wantAttrs)
	}
	if !reflect.DeepEqual(n2.Groups, []string{"etcd", "masters", "nodes"}) {
		t.Errorf("n2 groups = %v", n2.Groups)
	}
	if !n2.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v", n2.CreatedAt)
	}
	n1.Groups[0] = "mutated"
	if n2.Groups[0] != "etcd" {
		t.Error("records must not share group slices")
	}
}

func TestDispatch_InventoryFailureIsWarning(t *testing.T) {
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			return []string{"n1"}, "ss-1", nil
		},
	}
	recs, err := newDriver(t, lease).Dispatch(context.Background(), model.ProvisioningRequest{}, duffyParams(model.ArchPPC64LE, model.FlavorSmall), model.DispatchOptions{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if recs[0].Architecture != model.ArchPPC64LE || recs[0].Flavor != model.FlavorSmall {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestDispatch_SkipInventoryLookup(t *testing.T) {
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			return []string{"n1"}, "ss-1", nil
		},
		inventoryFunc: func(context.Context, string) (map[string]model.HostProperties, error) {
			t.Fatal("Inventory must not be called")
			return nil, nil
		},
	}
	if _, err := newDriver(t, lease).Dispatch(context.Background(), model.ProvisioningRequest{}, duffyParams(model.ArchX86_64, model.FlavorSmall), model.DispatchOptions{SkipInventoryLookup: true}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
}

func TestDispatch_RequestFailure(t *testing.T) {
	boom := &model.ExternalError{Op: "duffy Node/get", Err: errors.New("Insufficient Nodes")}
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			return nil, "", boom
		},
	}
	recs, err := newDriver(t, lease).Dispatch(context.Background(), model.ProvisioningRequest{}, duffyParams(model.ArchX86_64, model.FlavorSmall), model.DispatchOptions{})
	if !errors.Is(err, boom) || recs != nil {
		t.Fatalf("Dispatch() = %v, %v", recs, err)
	}
}

func TestDispatch_DryRun(t *testing.T) {
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			t.Fatal("Request must not be called in dry-run mode")
			return nil, "", nil
		},
	}
	r := &mockRunner{}
	_, err := newDriverWithRunner(t, lease, r).Dispatch(context.Background(), model.ProvisioningRequest{}, duffyParams(model.ArchX86_64, model.FlavorSmall), model.DispatchOptions{DryRun: true})
	if !errors.Is(err, model.ErrDryRun) {
		t.Fatalf("Dispatch() error = %v, want ErrDryRun", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("playbooks = %v, want none without leased hosts", r.calls)
	}
}

func TestTeardown_ReleasesEachLeaseOnce(t *testing.T) {
	var released []string
	lease := &mockLease{
		releaseFunc: func(_ context.Context, id string) error {
			released = append(released, id)
			return nil
		},
	}
	hosts := []*model.HostRecord{{ID: "a", LeaseID: "s1"}, {ID: "b", LeaseID: "s1"}, {ID: "c", LeaseID: "s2"}}
	if err := newDriver(t, lease).Teardown(context.Background(), hosts, nil, model.DispatchOptions{}); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if !reflect.DeepEqual(released, []string{"s1", "s2"}) {
		t.Fatalf("released = %v", released)
	}
}

func TestTeardown_MissingLease(t *testing.T) {
	lease := &mockLease{releaseFunc: func(context.Context, string) error { return nil }}
	err := newDriver(t, lease).Teardown(context.Background(), []*model.HostRecord{{ID: "a"}}, nil, model.DispatchOptions{})
	if err == nil {
		t.Fatal("expected error for a host without lease id")
	}
}

func TestDispatch_InvalidLabel(t *testing.T) {
	lease := &mockLease{
		requestFunc: func(context.Context, model.Architecture, model.Flavor) ([]string, string, error) {
			t.Fatal("Request must not be called with invalid labels")
			return nil, "", nil
		},
	}
	params := duffyParams(model.ArchX86_64, model.FlavorSmall)
	params["openshift_node_labels"] = map[string]string{"region": "not valid!"}
	if _, err := newDriver(t, lease).Dispatch(context.Background(), model.ProvisioningRequest{}, params, model.DispatchOptions{}); err == nil {
		t.Fatal("expected label validation error")
	}
}
