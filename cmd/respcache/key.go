package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/httpcache"
)

func keyCmd(configPath *string) *cobra.Command {
	var body, bodyFile, application string

	cmd := &cobra.Command{
		Use:   "key METHOD URL",
		Short: "Print the cache key for a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body: %w", err)
				}
				body = string(data)
			}

			key := cache.DeriveKey(strings.ToUpper(args[0]), args[1], httpcache.CanonicalBody([]byte(body)))
			if key == "" {
				return fmt.Errorf("request has nothing to key on")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:        %s\n", key)
			fmt.Fprintf(out, "stored as:  %s\n", cfg.Cache.Namespacer().Key(key, application))
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "Request body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the request body from a file")
	cmd.Flags().StringVar(&application, "application", "", "Key under another application's namespace")
	return cmd
}
