// Package octcfg defines the configuration schema (structs) for the octops
// config.yml together with loading, defaulting and validation helpers.
package octcfg

import "time"

// CurrentVersion is the config.yml schema version written by octops.
const CurrentVersion = 1

// Config is the root structure of config.yml.
type Config struct {
	Version int     `yaml:"version"`
	Ansible Ansible `yaml:"ansible"`
	Vagrant Vagrant `yaml:"vagrant"`
	Duffy   Duffy   `yaml:"duffy"`
	Logging Logging `yaml:"logging"`
}

// Ansible configures the playbook runner.
type Ansible struct {
	Playbook    string `yaml:"playbook"`    // ansible-playbook executable
	PlaybookDir string `yaml:"playbookDir"` // root of provision/*.yml
	Inventory   string `yaml:"inventory"`   // exported inventory file, also passed with -i
}

// Vagrant configures the local-hypervisor backend.
type Vagrant struct {
	Home     string `yaml:"home"`     // Vagrant working directory
	Hostname string `yaml:"hostname"` // hostname given to the VM
}

// Duffy configures the leasing service client.
type Duffy struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"apiKey,omitempty"`
	APIKeyFile string        `yaml:"apiKeyFile"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Logging configures the per-run log file.
type Logging struct {
	Dir           string `yaml:"dir"`           // Log directory, empty disables run log files
	RetentionDays int    `yaml:"retentionDays"` // Days to retain log files
}
