// Command respcache runs a caching reverse proxy and administers its cache.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "respcache",
		Short:         "HTTP response cache",
		Long:          "Cache upstream HTTP responses in memory or redis and manage the cached entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "respcache.yaml", "Path to the YAML config file")

	root.AddCommand(
		serveCmd(&configPath),
		keyCmd(&configPath),
		purgeCmd(&configPath),
		tokenCmd(&configPath),
	)
	return root
}
