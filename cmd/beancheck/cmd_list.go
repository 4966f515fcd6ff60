package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/jolokia"
	"github.com/beancheck/beancheck/internal/logger"
)

// newListCmd creates the list subcommand.
func newListCmd() *cobra.Command {
	var (
		domain      string
		host        string
		port        int
		contextPath string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the MBean tree exposed by the bridge",
		Long: `Query the bridge's list endpoint and render the available MBeans as a
tree of domain, bean, and attribute names. Useful for discovering what
--mbean and --mbean-attribute values a host offers.

Examples:
  beancheck list
  beancheck list --domain java.lang
  beancheck list --jolokia-host kafka1 --domain kafka.server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				fatal(err)
			}
			defer logger.Close()

			if !cmd.Flags().Changed("jolokia-host") {
				host = cfg.Jolokia.Host
			}
			if !cmd.Flags().Changed("jolokia-port") {
				port = cfg.Jolokia.Port
			}
			if !cmd.Flags().Changed("jolokia-context") {
				contextPath = cfg.Jolokia.Context
			}

			client := jolokia.NewClient(cfg.Jolokia.Timeout)
			ep := jolokia.Endpoint{Host: host, Port: port, Context: contextPath}

			tree, err := client.List(context.Background(), ep, domain)
			if err != nil {
				fatal(err)
			}

			if len(tree) == 0 {
				if domain != "" {
					fmt.Printf("no beans in domain %q\n", domain)
				} else {
					fmt.Println("no beans exposed")
				}
				return nil
			}

			fmt.Print(renderTree(ep, tree))
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "only show beans in this domain")
	cmd.Flags().StringVar(&host, "jolokia-host", check.DefaultHost, "Jolokia agent host")
	cmd.Flags().IntVar(&port, "jolokia-port", check.DefaultPort, "Jolokia agent port")
	cmd.Flags().StringVar(&contextPath, "jolokia-context", check.DefaultContext, "Jolokia context path")

	return cmd
}
