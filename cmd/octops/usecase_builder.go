package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/adapters/automation/ansible"
	backenddrv "github.com/yaegashi/octops/adapters/drivers/backend"
	_ "github.com/yaegashi/octops/adapters/drivers/backend/duffy"
	_ "github.com/yaegashi/octops/adapters/drivers/backend/remote"
	_ "github.com/yaegashi/octops/adapters/drivers/backend/vagrant"
	ansibleinv "github.com/yaegashi/octops/adapters/inventory/ansible"
	"github.com/yaegashi/octops/adapters/lease/duffy"
	"github.com/yaegashi/octops/config/octcfg"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/usecase/inventory"
	"github.com/yaegashi/octops/usecase/provision"
)

// buildProvisionUseCase creates the provision use case. The leasing client
// is only built when lease is true. The returned func closes the store.
func buildProvisionUseCase(cmd *cobra.Command, lease bool) (*provision.UseCase, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := buildStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	deps := backenddrv.Deps{
		Runner: ansible.New(ansible.Options{
			Binary:      cfg.Ansible.Playbook,
			PlaybookDir: cfg.Ansible.PlaybookDir,
			Inventory:   cfg.Ansible.Inventory,
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		}),
	}
	if lease {
		key, err := duffy.ResolveAPIKey(cfg.Duffy.APIKey, cfg.Duffy.APIKeyFile)
		if err != nil {
			if flagString(cmd, "dry-run") != "true" {
				_ = store.Close()
				return nil, nil, err
			}
			ctx := cmd.Context()
			logging.FromContext(ctx).Warn(ctx, "no duffy API key, continuing in dry-run", "error", err)
		}
		deps.Lease = duffy.NewClient(cfg.Duffy.URL, key, cfg.Duffy.Timeout)
	}

	uc := &provision.UseCase{
		Store:        store,
		DispatchPort: backenddrv.GetDispatchPort(deps),
		Exporter:     ansibleinv.NewExporter(cfg.Ansible.Inventory),
		Env:          translateEnv(cfg),
	}
	return uc, func() { _ = store.Close() }, nil
}

// buildInventoryUseCase creates the inventory use case.
func buildInventoryUseCase(cmd *cobra.Command) (*inventory.UseCase, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := buildStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	uc := &inventory.UseCase{
		Store:    store,
		Exporter: ansibleinv.NewExporter(cfg.Ansible.Inventory),
	}
	return uc, func() { _ = store.Close() }, nil
}

func translateEnv(cfg *octcfg.Config) model.TranslateEnv {
	env := model.TranslateEnv{
		VagrantHome: cfg.Vagrant.Home,
		VMHostname:  cfg.Vagrant.Hostname,
	}
	if cfg.Ansible.Inventory != "" {
		env.InventoryDir = filepath.Dir(cfg.Ansible.Inventory)
	}
	return env
}
