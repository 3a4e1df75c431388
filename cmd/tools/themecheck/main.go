// cmd/tools/themecheck/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/violetshores/vac-themes/internal/themes"
)

type rootOptions struct {
	themesPath  string
	domainsPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "themecheck",
		Short: "Validate and inspect VAC theme files",
		Long: `Validate and inspect the theme registry and the email domain map.

Without --themes or --domains the files embedded in the server binary are used.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.themesPath, "themes", "", "Path to themes file (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&opts.domainsPath, "domains", "", "Path to domains file (default: embedded)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Check that the theme and domain files load and agree",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := themes.NewStore(opts.themesPath, opts.domainsPath)
				if err != nil {
					return err
				}
				reg, domains := store.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d themes, %d domain patterns, default %q\n", reg.Len(), len(domains.Patterns()), reg.DefaultID())
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := themes.LoadRegistry(opts.themesPath)
				if err != nil {
					return err
				}
				for _, theme := range reg.All() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", theme.ID, theme.Name, theme.Audience)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "resolve <email>",
			Short: "Print the theme id chosen for a recipient address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := themes.NewStore(opts.themesPath, opts.domainsPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), store.Domains().ResolveThemeIDForEmail(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "tokens [theme-id]",
			Short: "Print the email tokens for a theme as JSON",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := themes.LoadRegistry(opts.themesPath)
				if err != nil {
					return err
				}
				id := ""
				if len(args) == 1 {
					id = args[0]
				}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(reg.EmailTokens(id))
			},
		},
	)

	return rootCmd
}
