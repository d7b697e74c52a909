package octcfg

import (
	"fmt"
	"net/url"

	"github.com/yaegashi/octops/internal/naming"
)

// Validate performs semantic validation on the configuration tree.
func (c *Config) Validate() error {
	if c.Version != 0 && c.Version != CurrentVersion {
		return fmt.Errorf("version: unsupported config version %d", c.Version)
	}
	if c.Ansible.Playbook == "" {
		return fmt.Errorf("ansible.playbook: must not be empty")
	}
	if c.Ansible.PlaybookDir == "" {
		return fmt.Errorf("ansible.playbookDir: must not be empty")
	}
	if err := naming.ValidateHostname(c.Vagrant.Hostname); err != nil {
		return fmt.Errorf("vagrant.hostname: %w", err)
	}
	if err := c.Duffy.validate(); err != nil {
		return fmt.Errorf("duffy: %w", err)
	}
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retentionDays: must not be negative")
	}
	return nil
}

func (d *Duffy) validate() error {
	u, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url: missing host")
	}
	if d.Timeout < 0 {
		return fmt.Errorf("timeout: must not be negative")
	}
	return nil
}
