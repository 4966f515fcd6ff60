package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/config"
)

// checkFlags holds the flags shared by the check and watch commands. The
// names and defaults mirror the classic plugin interface.
type checkFlags struct {
	mbean           string
	attribute       string
	key             string
	secondMBean     string
	secondAttribute string
	secondKey       string
	warning         string
	critical        string
	compare         bool
	reverse         bool
	host            string
	port            int
	contextPath     string
	warnNote        string
	critNote        string
}

// register declares the shared flags on the command.
func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mbean, "mbean", "", "MBean path (required)")
	cmd.Flags().StringVar(&f.attribute, "mbean-attribute", check.DefaultAttribute, "MBean attribute to inspect")
	cmd.Flags().StringVar(&f.key, "mbean-key", "", "MBean attribute key to inspect")
	cmd.Flags().StringVar(&f.secondMBean, "second-mbean", "", "second MBean path for correlated checks")
	cmd.Flags().StringVar(&f.secondAttribute, "second-mbean-attribute", check.DefaultAttribute, "second MBean attribute")
	cmd.Flags().StringVar(&f.secondKey, "second-mbean-key", "", "second MBean attribute key")
	cmd.Flags().StringVar(&f.warning, "warning", "", "warning threshold range (required)")
	cmd.Flags().StringVar(&f.critical, "critical", "", "critical threshold range (required)")
	cmd.Flags().BoolVar(&f.compare, "compare", false, "correlate two MBeans; thresholds apply to primary/second*100")
	cmd.Flags().BoolVar(&f.reverse, "reverse", false, "reverse the breach verdict, alerting on low values")
	cmd.Flags().StringVar(&f.host, "jolokia-host", check.DefaultHost, "Jolokia agent host")
	cmd.Flags().IntVar(&f.port, "jolokia-port", check.DefaultPort, "Jolokia agent port")
	cmd.Flags().StringVar(&f.contextPath, "jolokia-context", check.DefaultContext, "Jolokia context path")
	cmd.Flags().StringVar(&f.warnNote, "warn-explanation", "", "text appended to WARNING results")
	cmd.Flags().StringVar(&f.critNote, "crit-explanation", "", "text appended to CRITICAL results")
	_ = cmd.MarkFlagRequired("mbean")
	_ = cmd.MarkFlagRequired("warning")
	_ = cmd.MarkFlagRequired("critical")
}

// resolve merges flags with the loaded configuration into a runnable check
// spec plus the explanation templates. Explicitly set flags win over the
// config file; the config file wins over built-in defaults.
func (f *checkFlags) resolve(cmd *cobra.Command, cfg *config.Config) (check.Spec, string, string, error) {
	if f.compare && f.secondMBean == "" {
		return check.Spec{}, "", "", fmt.Errorf("--compare requires --second-mbean")
	}
	if f.secondMBean != "" && !f.compare {
		return check.Spec{}, "", "", fmt.Errorf("--second-mbean requires --compare")
	}

	host := cfg.Jolokia.Host
	if cmd.Flags().Changed("jolokia-host") {
		host = f.host
	}
	port := cfg.Jolokia.Port
	if cmd.Flags().Changed("jolokia-port") {
		port = f.port
	}
	contextPath := cfg.Jolokia.Context
	if cmd.Flags().Changed("jolokia-context") {
		contextPath = f.contextPath
	}

	warnNote := cfg.Explanations.Warning
	if cmd.Flags().Changed("warn-explanation") {
		warnNote = f.warnNote
	}
	critNote := cfg.Explanations.Critical
	if cmd.Flags().Changed("crit-explanation") {
		critNote = f.critNote
	}

	spec := check.Spec{
		Primary: check.MetricDescriptor{
			Bean:      f.mbean,
			Attribute: f.attribute,
			Key:       f.key,
			Host:      host,
			Port:      port,
			Context:   contextPath,
		},
		Warning:  f.warning,
		Critical: f.critical,
		Mode:     check.ModeSingle,
		Reverse:  f.reverse,
	}

	if f.compare {
		spec.Mode = check.ModeCorrelated
		spec.Secondary = &check.MetricDescriptor{
			Bean:      f.secondMBean,
			Attribute: f.secondAttribute,
			Key:       f.secondKey,
			Host:      host,
			Port:      port,
			Context:   contextPath,
		}
	}

	return spec, warnNote, critNote, nil
}
