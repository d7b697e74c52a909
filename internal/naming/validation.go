package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	hostnameMaxLength  = 253
	groupNameMaxLength = 63
)

// ValidateHostname checks that name is usable as an inventory hostname.
func ValidateHostname(name string) error {
	if name == "" {
		return fmt.Errorf("hostname must not be empty")
	}
	if len(name) > hostnameMaxLength {
		return fmt.Errorf("hostname exceeds %d characters", hostnameMaxLength)
	}
	if errs := utilvalidation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return fmt.Errorf("invalid hostname %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateGroupName checks an inventory group name. Ansible allows
// underscores in group names, so they are mapped to hyphens before the
// DNS-1123 label check.
func ValidateGroupName(name string) error {
	if name == "" {
		return fmt.Errorf("group name must not be empty")
	}
	if len(name) > groupNameMaxLength {
		return fmt.Errorf("group name exceeds %d characters", groupNameMaxLength)
	}
	if errs := utilvalidation.IsDNS1123Label(strings.ReplaceAll(name, "_", "-")); len(errs) > 0 {
		return fmt.Errorf("invalid group name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateLabel checks a node label key/value pair.
func ValidateLabel(key, value string) error {
	if errs := utilvalidation.IsQualifiedName(key); len(errs) > 0 {
		return fmt.Errorf("invalid label key %q: %s", key, strings.Join(errs, ", "))
	}
	if errs := utilvalidation.IsValidLabelValue(value); len(errs) > 0 {
		return fmt.Errorf("invalid label value %q: %s", value, strings.Join(errs, ", "))
	}
	return nil
}
