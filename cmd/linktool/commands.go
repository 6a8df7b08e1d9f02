package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ai-tools/internal/linkclient"
	"ai-tools/internal/links"
)

const defaultClient = "cli"

// linkAPI is the subset of the gateway client used by the commands.
type linkAPI interface {
	Contextualize(ctx context.Context, link string) (linkclient.Result, error)
	RedirectURL(client, contextualizedLink string) string
	Health(ctx context.Context) bool
}

func newRootCmd(api linkAPI) *cobra.Command {
	root := &cobra.Command{
		Use:          "linktool",
		Short:        "Contextualize links through the ai-tools gateway",
		SilenceUsage: true,
	}
	root.AddCommand(newContextualizeCmd(api), newHealthCmd(api))
	return root
}

func newContextualizeCmd(api linkAPI) *cobra.Command {
	var (
		client string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "contextualize [url]",
		Short: "Contextualize a link",
		Long: `Sends an http or https link to the gateway, which runs the
contextualization workflow and returns a short contextualized link together
with its redirect URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := args[0]
			if err := links.ValidateLink(link); err != nil {
				return err
			}

			res, err := api.Contextualize(cmd.Context(), link)
			if err != nil {
				return fmt.Errorf("contextualize failed: %w", err)
			}
			redirect := api.RedirectURL(client, res.ContextualizedLink)

			if asJSON {
				data, err := json.MarshalIndent(map[string]string{
					"link":                res.Link,
					"contextualized_link": res.ContextualizedLink,
					"redirect_url":        redirect,
					"request_id":          res.RequestID,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Original link:       %s\n", res.Link)
			fmt.Fprintf(out, "Contextualized link: %s\n", res.ContextualizedLink)
			fmt.Fprintf(out, "Redirect URL:        %s\n", redirect)
			return nil
		},
	}
	cmd.Flags().StringVarP(&client, "client", "c", defaultClient, "client name used in the redirect URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

func newHealthCmd(api linkAPI) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the gateway is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !api.Health(cmd.Context()) {
				return errors.New("backend API is unavailable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backend API is healthy")
			return nil
		},
	}
}
