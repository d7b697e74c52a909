package octcfg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultPlaybook      = "ansible-playbook"
	DefaultPlaybookDir   = "/usr/share/octops/playbooks"
	DefaultVMHostname    = "openshiftdevel"
	DefaultDuffyURL      = "http://admin.ci.centos.org:8080"
	DefaultDuffyKeyFile  = "~/duffy.key"
	DefaultDuffyTimeout  = 60 * time.Second
	DefaultRetentionDays = 7
)

// Default returns the configuration used when no config.yml exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Ansible: Ansible{
			Playbook:    DefaultPlaybook,
			PlaybookDir: DefaultPlaybookDir,
			Inventory:   "$" + DirEnvKey + "/inventory.yml",
		},
		Vagrant: Vagrant{
			Home:     "$" + DirEnvKey + "/vagrant",
			Hostname: DefaultVMHostname,
		},
		Duffy: Duffy{
			URL:        DefaultDuffyURL,
			APIKeyFile: DefaultDuffyKeyFile,
			Timeout:    DefaultDuffyTimeout,
		},
		Logging: Logging{
			RetentionDays: DefaultRetentionDays,
		},
	}
}

// Load reads a YAML file from the given path on top of Default. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML %s: %w", path, err)
	}
	return cfg, nil
}

// Expand returns a copy of c with every path expanded against dir.
func (c *Config) Expand(dir string) *Config {
	cp := *c
	cp.Ansible.PlaybookDir = ExpandPath(c.Ansible.PlaybookDir, dir)
	cp.Ansible.Inventory = ExpandPath(c.Ansible.Inventory, dir)
	cp.Vagrant.Home = ExpandPath(c.Vagrant.Home, dir)
	cp.Duffy.APIKeyFile = ExpandPath(c.Duffy.APIKeyFile, dir)
	cp.Logging.Dir = ExpandPath(c.Logging.Dir, dir)
	return &cp
}

// Marshal renders c as YAML with the API key masked.
func (c *Config) Marshal() ([]byte, error) {
	cp := *c
	if cp.Duffy.APIKey != "" {
		cp.Duffy.APIKey = "********"
	}
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&cp); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return []byte(buf.String()), nil
}
