package provision

import (
	"time"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// UseCase wires the store and ports needed for provisioning use cases.
type UseCase struct {
	Store        domain.UnitOfWork
	DispatchPort model.DispatchPort
	Exporter     domain.InventoryExporter // optional
	Env          model.TranslateEnv
	Now          func() time.Time
}

// AutomationOptions are the common playbook flags of provisioning commands.
type AutomationOptions struct {
	Verbosity int  `json:"verbosity"`
	DryRun    bool `json:"dry_run"`
	Debug     bool `json:"debug"`
}

func (o AutomationOptions) dispatchOptions(extra ...model.DispatchOption) []model.DispatchOption {
	opts := []model.DispatchOption{model.WithDispatchVerbosity(o.Verbosity)}
	if o.DryRun {
		opts = append(opts, model.WithDispatchDryRun())
	}
	if o.Debug {
		opts = append(opts, model.WithDispatchDebug())
	}
	return append(opts, extra...)
}

func (u *UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
