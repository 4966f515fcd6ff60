package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/xlab/treeprint"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/jolokia"
)

// explanationWidth is the wrap column for contact templates.
const explanationWidth = 80

// Status words are colorized on terminals; fatih/color disables itself
// automatically when output is piped, keeping the line machine-readable.
var (
	okFormat       = color.New(color.FgGreen).SprintFunc()
	warningFormat  = color.New(color.FgHiYellow).SprintFunc()
	criticalFormat = color.New(color.FgHiRed).SprintFunc()
	unknownFormat  = color.New(color.FgHiMagenta).SprintFunc()
)

// statusWord renders the status name with its color.
func statusWord(s check.Status) string {
	switch s {
	case check.StatusOK:
		return okFormat(s.String())
	case check.StatusWarning:
		return warningFormat(s.String())
	case check.StatusCritical:
		return criticalFormat(s.String())
	default:
		return unknownFormat(s.String())
	}
}

// formatValue renders the evaluated value: the raw number in single mode,
// "N% (primary/secondary)" in correlated mode. The percentage is rounded
// to two decimals for display only; the comparison already happened on the
// unrounded value.
func formatValue(res check.Result) string {
	if res.Secondary != nil {
		pct := math.Round(res.Effective*100) / 100
		return fmt.Sprintf("%s%% (%s/%s)",
			humanize.Ftoa(pct),
			humanize.Ftoa(res.Primary),
			humanize.Ftoa(*res.Secondary))
	}
	return humanize.Ftoa(res.Effective)
}

// printResult writes one check line in the classic plugin shape,
//
//	STATUS - <bean> A:<attribute> [K:<key>] : <value>
//
// followed by the wrapped explanation when a tier breached, and returns the
// process exit code for the outcome. A non-nil err renders as an UNKNOWN
// line carrying the error text.
func printResult(out io.Writer, label string, res check.Result, err error) int {
	if err != nil {
		fmt.Fprintf(out, "%s - %s : %v\n", statusWord(check.StatusUnknown), label, err)
		return check.StatusUnknown.ExitCode()
	}

	fmt.Fprintf(out, "%s - %s : %s\n", statusWord(res.Status), label, formatValue(res))

	if res.Explanation != "" {
		wrapped := wordwrap.WrapString(strings.TrimSpace(res.Explanation), explanationWidth)
		fmt.Fprintf(out, "%s\n\n", wrapped)
	}

	return res.Status.ExitCode()
}

// renderTree renders the bean hierarchy grouped by domain.
func renderTree(ep jolokia.Endpoint, tree jolokia.BeanTree) string {
	root := treeprint.NewWithRoot(fmt.Sprintf("%s:%d", ep.Host, ep.Port))

	for _, domain := range sortedKeys(tree) {
		domainBranch := root.AddBranch(domain)
		for _, bean := range sortedKeys(tree[domain]) {
			beanBranch := domainBranch.AddBranch(bean)
			for _, attr := range tree[domain][bean] {
				beanBranch.AddNode(attr)
			}
		}
	}

	return root.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
