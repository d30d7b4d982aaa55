package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Holds the organization/domain mapping used for SSO auto-join, which is
// easier to manage in YAML than env vars.
type YAMLConfig struct {
	Organizations []OrganizationConfig `yaml:"organizations"`
}

// OrganizationConfig maps verified email domains to an organization name.
// Social-login users whose email domain matches are joined to the existing
// organization of that name instead of bootstrapping a new one.
type OrganizationConfig struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetOrganizationByDomain finds an organization mapping by email domain.
func (c *YAMLConfig) GetOrganizationByDomain(domain string) *OrganizationConfig {
	if c == nil {
		return nil
	}
	domain = strings.ToLower(domain)
	for i := range c.Organizations {
		for _, d := range c.Organizations[i].Domains {
			if strings.ToLower(d) == domain {
				return &c.Organizations[i]
			}
		}
	}
	return nil
}
