package model

import (
	"fmt"
	"net/netip"

	"github.com/yaegashi/octops/internal/naming"
)

type stageSet map[Stage]struct{}

func stages(ss ...Stage) stageSet {
	out := make(stageSet, len(ss))
	for _, s := range ss {
		out[s] = struct{}{}
	}
	return out
}

// sorted returns the members in pipeline order.
func (s stageSet) sorted() []Stage {
	out := make([]Stage, 0, len(s))
	for _, st := range AllStages() {
		if _, ok := s[st]; ok {
			out = append(out, st)
		}
	}
	return out
}

// providerStages lists the image stages published for each Vagrant provider.
// There is no license to distribute VMware Fusion boxes, so only the bare
// operating system stage exists for vmware.
var providerStages = map[Provider]stageSet{
	ProviderLibvirt:    stages(StageBare, StageBase, StageInstall),
	ProviderVirtualBox: stages(StageBare, StageBase, StageInstall),
	ProviderVMware:     stages(StageBare),
}

// backendStages lists the image stages each backend can deliver.
var backendStages = map[BackendKind]stageSet{
	BackendLeasedHost:      stages(StageBare),
	BackendLocalHypervisor: stages(StageBare, StageBase, StageInstall),
	BackendRemoteHost:      stages(StageBare, StageBase, StageBuild, StageInstall),
}

// SupportedStages returns the stages available for provider in pipeline order.
func SupportedStages(provider Provider) []Stage {
	return providerStages[provider].sorted()
}

// SupportedBackendStages returns the stages available for backend in pipeline order.
func SupportedBackendStages(backend BackendKind) []Stage {
	return backendStages[backend].sorted()
}

// ValidateProviderStage rejects a stage that has not been published for provider.
func ValidateProviderStage(provider Provider, stage Stage) error {
	allowed, ok := providerStages[provider]
	if !ok {
		return &UsageError{Option: "provider", Msg: fmt.Sprintf("unknown provider %q", provider)}
	}
	if _, ok := allowed[stage]; ok {
		return nil
	}
	return &UsageError{Option: "stage", Msg: stageRejection(allowed.sorted(), stage, string(provider)+" provider")}
}

// ValidateBackendStage rejects a stage that the backend cannot deliver.
func ValidateBackendStage(backend BackendKind, stage Stage) error {
	allowed, ok := backendStages[backend]
	if !ok {
		return &UsageError{Option: "backend", Msg: fmt.Sprintf("unknown backend %q", backend)}
	}
	if _, ok := allowed[stage]; ok {
		return nil
	}
	return &UsageError{Option: "stage", Msg: stageRejection(allowed.sorted(), stage, string(backend)+" backend")}
}

// Validate checks the stage against the backend and, for the local
// hypervisor, against the chosen provider first so that a provider
// restriction is reported by name.
func Validate(backend BackendKind, provider Provider, stage Stage) error {
	if backend == BackendLocalHypervisor {
		if err := ValidateProviderStage(provider, stage); err != nil {
			return err
		}
	}
	return ValidateBackendStage(backend, stage)
}

func stageRejection(allowed []Stage, stage Stage, subject string) string {
	if len(allowed) == 1 {
		return fmt.Sprintf("only the %s stage is supported for the %s (requested: %s)", allowed[0], subject, stage)
	}
	return fmt.Sprintf("the %s stage is not supported for the %s (choose from %s)", stage, subject, JoinValues(allowed))
}

// ValidateNetworkAddress checks that addr is a literal IP address.
func ValidateNetworkAddress(addr string) error {
	if _, err := netip.ParseAddr(addr); err != nil {
		return &UsageError{Option: "master-ip", Msg: fmt.Sprintf("invalid IP address %q", addr)}
	}
	return nil
}

// ValidateHostname checks that name is a valid DNS-1123 subdomain.
func ValidateHostname(name string) error {
	if err := naming.ValidateHostname(name); err != nil {
		return &UsageError{Option: "hostname", Msg: err.Error()}
	}
	return nil
}
