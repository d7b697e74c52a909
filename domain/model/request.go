package model

// ProvisioningRequest captures what the operator asked for. It is built
// once per command invocation and passed by value.
type ProvisioningRequest struct {
	Backend         BackendKind
	OperatingSystem OperatingSystem
	Architecture    Architecture
	Flavor          Flavor
	Stage           Stage
	Provider        Provider // local-hypervisor only
	NetworkAddress  string   // local-hypervisor only, optional
	Hostname        string   // remote-host only
}

// Validate runs every static check on the request. It performs no I/O.
func (r ProvisioningRequest) Validate() error {
	if err := Validate(r.Backend, r.Provider, r.Stage); err != nil {
		return err
	}
	if r.NetworkAddress != "" {
		if err := ValidateNetworkAddress(r.NetworkAddress); err != nil {
			return err
		}
	}
	if r.Backend == BackendRemoteHost {
		if err := ValidateHostname(r.Hostname); err != nil {
			return err
		}
	}
	return nil
}
