// Package extract implements the one-shot extraction command.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/is0692vs/chronoclip/cmd/common"
	"github.com/is0692vs/chronoclip/internal/builder"
	"github.com/is0692vs/chronoclip/internal/dom"
)

// Command builds the extract command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var (
		filePath  string
		pageURL   string
		selection string
		selector  string
		sourceURL string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract an event candidate from a page or selection",
		Long: `Extract reads a page from a local file or URL, optionally narrowed
to a CSS selector region, and prints the extracted event candidate as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" && pageURL == "" && selection == "" {
				return errors.New("one of --file, --url, or --selection is required")
			}

			deps, err := common.Build(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.Close()

			html := ""
			switch {
			case filePath != "":
				data, readErr := os.ReadFile(filePath)
				if readErr != nil {
					return fmt.Errorf("read page file: %w", readErr)
				}
				html = string(data)
			case pageURL != "":
				result, fetchErr := deps.Fetcher.Page(pageURL)
				if fetchErr != nil {
					return fetchErr
				}
				html = result.HTML
				if sourceURL == "" {
					sourceURL = result.URL
				}
			}

			var node dom.Node
			if html != "" {
				node, err = dom.FromHTML(html, selector)
				if err != nil && selection == "" {
					return err
				}
			}

			candidate, err := deps.Builder.Build(cmd.Context(), selection, node, builder.PageMeta{
				URL: sourceURL,
			})
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(candidate, "", "  ")
			if err != nil {
				return fmt.Errorf("encode candidate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "local HTML file to extract from")
	cmd.Flags().StringVar(&pageURL, "url", "", "page URL to fetch and extract from")
	cmd.Flags().StringVar(&selection, "selection", "", "selected text to extract from")
	cmd.Flags().StringVar(&selector, "selector", "", "CSS selector narrowing the extraction region")
	cmd.Flags().StringVar(&sourceURL, "page-url", "", "source URL recorded on the candidate")
	return cmd
}
