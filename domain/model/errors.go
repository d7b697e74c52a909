package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHostNotFound   = errors.New("host not found")
	ErrHostInvalid    = errors.New("host invalid")
	ErrNoActiveVM     = errors.New("no active VM is recorded")
	ErrNoLeasedHosts  = errors.New("no leased hosts are recorded")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrDryRun         = errors.New("dry run: nothing was provisioned")
)

// UsageError reports an invalid option or option combination. It is
// raised before any external call is made.
type UsageError struct {
	Option string
	Msg    string
}

func (e *UsageError) Error() string { return e.Msg }

// ExternalError reports a failure of an external collaborator such as
// the playbook runner or the leasing service.
type ExternalError struct {
	Op       string // e.g. "ansible-playbook provision/vagrant-up", "duffy Node/get"
	ExitCode int    // process exit status, 0 when not applicable
	Err      error
}

func (e *ExternalError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s failed with exit status %d: %v", e.Op, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// RecordError reports that the external step succeeded but the local
// record could not be updated. The named hosts are left provisioned but
// unrecorded (or destroyed but still recorded).
type RecordError struct {
	Hosts   []string
	LeaseID string
	Err     error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to update inventory for %s", strings.Join(e.Hosts, ", "))
	if e.LeaseID != "" {
		fmt.Fprintf(&b, " (lease %s)", e.LeaseID)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *RecordError) Unwrap() error { return e.Err }

// ExportError reports that the hosts were recorded but the inventory
// file for downstream automation could not be rewritten.
type ExportError struct {
	Hosts []string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("recorded %s but the inventory file is stale: %v", strings.Join(e.Hosts, ", "), e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
