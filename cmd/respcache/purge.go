package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/respcache/auth"
	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/config"
)

func purgeCmd(configPath *string) *cobra.Command {
	var application, server string

	cmd := &cobra.Command{
		Use:   "purge PATTERN",
		Short: "Remove every cached entry whose key starts with PATTERN",
		Long: "Remove cached entries by key prefix. With --server the request goes to a running\n" +
			"respcache admin endpoint; otherwise the configured store is cleared directly.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pattern := args[0]
			if err := cache.ValidateKey(pattern); err != nil {
				return err
			}

			if server != "" {
				cfg, err := loadAdmin(ctx, *configPath)
				if err != nil {
					return err
				}
				return remotePurge(ctx, cmd.OutOrStdout(), cfg, server, pattern, application)
			}

			a, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			var opts []cache.KeyOption
			if application != "" {
				opts = append(opts, cache.WithApplication(application))
			}
			a.backend.RemoveByPattern(ctx, pattern, opts...)
			fmt.Fprintf(cmd.OutOrStdout(), "purge issued for %s on %s backend\n", pattern, a.backend.Kind())
			return nil
		},
	}
	cmd.Flags().StringVar(&application, "application", "", "Purge another application's namespace")
	cmd.Flags().StringVar(&server, "server", "", "Base URL of a running respcache, e.g. http://localhost:8080")
	return cmd
}

// remotePurge calls the admin endpoint with a short-lived token.
func remotePurge(ctx context.Context, out io.Writer, cfg *config.Config, server, pattern, application string) error {
	token, err := auth.IssueToken(auth.JWTConfig{
		Secret: []byte(cfg.Admin.JWTSecret),
		Issuer: cfg.Admin.Issuer,
	}, "respcache-cli", []string{cfg.Admin.Role}, time.Minute)
	if err != nil {
		return err
	}

	q := url.Values{"pattern": {pattern}}
	if application != "" {
		q.Set("application", application)
	}
	target := strings.TrimRight(server, "/") + cfg.Admin.Path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("purge request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("purge rejected: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	_, err = out.Write(body)
	return err
}
