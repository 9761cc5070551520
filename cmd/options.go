package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tayloree/petits-plats/internal/display"
	"github.com/tayloree/petits-plats/internal/filter"
)

var flagOptionSearch string

var optionsCmd = &cobra.Command{
	Use:   "options [category...]",
	Short: "List the filter values still available for the current selection",
	Long: "Lists the distinct ingredients, appliances and ustensils of the recipes that\n" +
		"match the current search and filters, without the values already selected.",
	Example: `  plats options
  plats options ingredients --search cit
  plats options appareils -i "lait de coco" --json`,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().StringVarP(&flagOptionSearch, "search", "s", "", "Keep only values containing this text (case and accents ignored)")
}

func runOptions(cmd *cobra.Command, args []string) error {
	categories, err := parseCategoryArgs(args)
	if err != nil {
		return err
	}
	selections, err := selectionsFromFlags()
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.openSession(cmd.Context(), flagQuery, selections, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	opts := narrowOptions(session.View().Options, flagOptionSearch)

	if flagJSON {
		return display.PrintOptionsJSON(cmd.OutOrStdout(), opts, categories)
	}
	display.PrintOptions(cmd.OutOrStdout(), opts, categories)
	return nil
}

func narrowOptions(opts filter.Options, query string) filter.Options {
	return filter.Options{
		Ingredients: filter.SearchOptions(opts.Ingredients, query),
		Appliances:  filter.SearchOptions(opts.Appliances, query),
		Ustensils:   filter.SearchOptions(opts.Ustensils, query),
	}
}
