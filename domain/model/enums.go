package model

import (
	"fmt"
	"strings"
)

// OperatingSystem is the host operating system.
type OperatingSystem string

const (
	OSFedora OperatingSystem = "fedora"
	OSCentOS OperatingSystem = "centos"
	OSRHEL   OperatingSystem = "rhel"
)

// Architecture is the host CPU architecture.
type Architecture string

const (
	ArchX86_64  Architecture = "x86_64"
	ArchAArch64 Architecture = "aarch64"
	ArchPPC64LE Architecture = "ppc64le"
)

// Flavor selects the size class of a host.
type Flavor string

const (
	FlavorTiny       Flavor = "tiny"
	FlavorSmall      Flavor = "small"
	FlavorMedium     Flavor = "medium"
	FlavorLramTiny   Flavor = "lram.tiny"
	FlavorLramSmall  Flavor = "lram.small"
	FlavorXramTiny   Flavor = "xram.tiny"
	FlavorXramSmall  Flavor = "xram.small"
	FlavorXramMedium Flavor = "xram.medium"
	FlavorXramLarge  Flavor = "xram.large"
)

// Stage describes how far along the sync/build/install pipeline the image is.
//
//   - bare: bare operating system
//   - base: RPM dependencies installed and configured, repositories cloned
//   - build: artifacts and binaries built from repositories
//   - install: OpenShift cluster installed from artifacts
type Stage string

const (
	StageBare    Stage = "bare"
	StageBase    Stage = "base"
	StageBuild   Stage = "build"
	StageInstall Stage = "install"
)

// Provider is the local virtualization provider used by Vagrant.
type Provider string

const (
	ProviderLibvirt    Provider = "libvirt"
	ProviderVirtualBox Provider = "virtualbox"
	ProviderVMware     Provider = "vmware"
)

// BackendKind selects how a host is obtained.
type BackendKind string

const (
	BackendLeasedHost      BackendKind = "leased-host"
	BackendLocalHypervisor BackendKind = "local-hypervisor"
	BackendRemoteHost      BackendKind = "remote-host"
)

func AllOperatingSystems() []OperatingSystem {
	return []OperatingSystem{OSFedora, OSCentOS, OSRHEL}
}

func AllArchitectures() []Architecture {
	return []Architecture{ArchX86_64, ArchAArch64, ArchPPC64LE}
}

func AllFlavors() []Flavor {
	return []Flavor{
		FlavorTiny, FlavorSmall, FlavorMedium,
		FlavorLramTiny, FlavorLramSmall,
		FlavorXramTiny, FlavorXramSmall, FlavorXramMedium, FlavorXramLarge,
	}
}

// AllStages returns stages in pipeline order.
func AllStages() []Stage {
	return []Stage{StageBare, StageBase, StageBuild, StageInstall}
}

func AllProviders() []Provider {
	return []Provider{ProviderLibvirt, ProviderVirtualBox, ProviderVMware}
}

func AllBackendKinds() []BackendKind {
	return []BackendKind{BackendLeasedHost, BackendLocalHypervisor, BackendRemoteHost}
}

// ParseOperatingSystem parses s against allowed, which defaults to all values.
func ParseOperatingSystem(s string, allowed ...OperatingSystem) (OperatingSystem, error) {
	if len(allowed) == 0 {
		allowed = AllOperatingSystems()
	}
	return parseEnum("os", s, allowed)
}

func ParseArchitecture(s string, allowed ...Architecture) (Architecture, error) {
	if len(allowed) == 0 {
		allowed = AllArchitectures()
	}
	return parseEnum("arch", s, allowed)
}

func ParseFlavor(s string, allowed ...Flavor) (Flavor, error) {
	if len(allowed) == 0 {
		allowed = AllFlavors()
	}
	return parseEnum("flavor", s, allowed)
}

func ParseStage(s string, allowed ...Stage) (Stage, error) {
	if len(allowed) == 0 {
		allowed = AllStages()
	}
	return parseEnum("stage", s, allowed)
}

func ParseProvider(s string, allowed ...Provider) (Provider, error) {
	if len(allowed) == 0 {
		allowed = AllProviders()
	}
	return parseEnum("provider", s, allowed)
}

func ParseBackendKind(s string) (BackendKind, error) {
	return parseEnum("backend", s, AllBackendKinds())
}

func parseEnum[T ~string](option, s string, allowed []T) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, &UsageError{
		Option: option,
		Msg:    fmt.Sprintf("invalid value %q for --%s (choose from %s)", s, option, JoinValues(allowed)),
	}
}

// JoinValues renders enum values as a comma separated list for help text.
func JoinValues[T ~string](values []T) string {
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = string(v)
	}
	return strings.Join(ss, ", ")
}
