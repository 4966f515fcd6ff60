package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TargetsFile represents the YAML file structure for batch checks: shared
// defaults plus one entry per check.
type TargetsFile struct {
	Defaults TargetDefaults `yaml:"defaults"`
	Checks   []TargetCheck  `yaml:"checks"`
}

// TargetDefaults are values applied to every check that does not override
// them.
type TargetDefaults struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Context  string `yaml:"context"`
	Warning  string `yaml:"warning"`
	Critical string `yaml:"critical"`
	Reverse  bool   `yaml:"reverse"`
	Compare  bool   `yaml:"compare"`
}

// TargetCheck is one check in a batch file. Unset fields inherit from the
// file defaults; the boolean overrides are pointers so that an explicit
// "false" can override a "true" default.
type TargetCheck struct {
	// Name is an optional display name; the bean label is used when empty.
	Name string `yaml:"name"`

	// MBean is the bean to check (required).
	MBean string `yaml:"mbean"`

	// Attribute and Key select the value within the bean.
	Attribute string `yaml:"attribute"`
	Key       string `yaml:"key"`

	// SecondMBean and its attribute/key define the denominator metric for
	// correlated checks.
	SecondMBean     string `yaml:"second_mbean"`
	SecondAttribute string `yaml:"second_attribute"`
	SecondKey       string `yaml:"second_key"`

	// Connection overrides.
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Context string `yaml:"context"`

	// Threshold overrides.
	Warning  string `yaml:"warning"`
	Critical string `yaml:"critical"`

	// Mode overrides.
	Reverse *bool `yaml:"reverse"`
	Compare *bool `yaml:"compare"`
}

// LoadTargets reads and validates a batch target file. Every returned check
// has the file defaults already merged in.
func LoadTargets(path string) (*TargetsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var file TargetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	if len(file.Checks) == 0 {
		return nil, fmt.Errorf("targets file %s defines no checks", path)
	}

	for i := range file.Checks {
		file.Checks[i] = file.Checks[i].merged(file.Defaults)
		if err := file.Checks[i].validate(i); err != nil {
			return nil, err
		}
	}

	return &file, nil
}

// merged returns the check with the file defaults applied to unset fields.
func (c TargetCheck) merged(d TargetDefaults) TargetCheck {
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.Context == "" {
		c.Context = d.Context
	}
	if c.Warning == "" {
		c.Warning = d.Warning
	}
	if c.Critical == "" {
		c.Critical = d.Critical
	}
	if c.Reverse == nil {
		c.Reverse = &d.Reverse
	}
	if c.Compare == nil {
		c.Compare = &d.Compare
	}
	return c
}

// validate checks one merged entry for required fields.
func (c TargetCheck) validate(index int) error {
	if c.MBean == "" {
		return fmt.Errorf("checks[%d]: mbean is required", index)
	}
	if c.Warning == "" {
		return fmt.Errorf("checks[%d] %s: warning threshold is required", index, c.MBean)
	}
	if c.Critical == "" {
		return fmt.Errorf("checks[%d] %s: critical threshold is required", index, c.MBean)
	}
	if c.Compare != nil && *c.Compare && c.SecondMBean == "" {
		return fmt.Errorf("checks[%d] %s: compare requires second_mbean", index, c.MBean)
	}
	if c.SecondMBean != "" && (c.Compare == nil || !*c.Compare) {
		return fmt.Errorf("checks[%d] %s: second_mbean requires compare", index, c.MBean)
	}
	return nil
}

// DisplayName returns the name to print for the check.
func (c TargetCheck) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.MBean
}

// IsReverse reports the merged reverse flag.
func (c TargetCheck) IsReverse() bool {
	return c.Reverse != nil && *c.Reverse
}

// IsCompare reports the merged compare flag.
func (c TargetCheck) IsCompare() bool {
	return c.Compare != nil && *c.Compare
}
