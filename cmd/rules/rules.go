// Package rules implements the site-rule management commands.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/is0692vs/chronoclip/cmd/common"
	"github.com/is0692vs/chronoclip/internal/domain"
)

// Command builds the rules command group.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage site extraction rules",
	}
	cmd.AddCommand(listCommand(cfgFile, debug))
	cmd.AddCommand(addCommand(cfgFile, debug))
	cmd.AddCommand(removeCommand(cfgFile, debug))
	return cmd
}

// listCommand renders the merged rule view as a table.
func listCommand(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all site rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.Close()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Domain", "Origin", "Priority", "Enabled", "Subdomains", "Fields"})

			for _, rule := range deps.Registry.Rules() {
				fields := make([]string, 0, len(rule.Selectors))
				for field := range rule.Selectors {
					fields = append(fields, field)
				}
				sort.Strings(fields)
				t.AppendRow(table.Row{
					rule.DomainPattern,
					rule.Origin,
					rule.Priority,
					rule.Enabled,
					rule.AllowSubdomains,
					strings.Join(fields, ","),
				})
			}
			t.Render()
			return nil
		},
	}
}

// addCommand upserts a user rule.
func addCommand(cfgFile *string, debug *bool) *cobra.Command {
	var (
		selectors       []string
		priority        int
		allowSubdomains bool
		disabled        bool
	)

	cmd := &cobra.Command{
		Use:   "add <domain>",
		Short: "Add or replace a user rule",
		Long: `Add upserts a user rule for a domain. Selectors are given as
field=css pairs, e.g. --selector title=h1.event --selector date=.dtstart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.Close()

			selectorMap := make(map[string]string, len(selectors))
			for _, pair := range selectors {
				field, css, found := strings.Cut(pair, "=")
				if !found || field == "" || css == "" {
					return fmt.Errorf("invalid selector %q, expected field=css", pair)
				}
				selectorMap[field] = css
			}

			rule := domain.SiteRule{
				Priority:        priority,
				Selectors:       selectorMap,
				Enabled:         !disabled,
				AllowSubdomains: allowSubdomains,
			}
			if err := deps.Registry.Add(cmd.Context(), args[0], rule, domain.OriginUser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule for %s saved\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&selectors, "selector", nil, "field=css selector pair (repeatable)")
	cmd.Flags().IntVar(&priority, "priority", 0, "rule priority")
	cmd.Flags().BoolVar(&allowSubdomains, "allow-subdomains", false, "let subdomains inherit this rule")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the rule disabled")
	return cmd
}

// removeCommand deletes a user rule.
func removeCommand(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <domain>",
		Short: "Remove a user rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.Registry.Remove(cmd.Context(), args[0], domain.OriginUser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule for %s removed\n", args[0])
			return nil
		},
	}
}
