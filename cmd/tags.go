package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tayloree/petits-plats/internal/browse"
	"github.com/tayloree/petits-plats/internal/display"
	"github.com/tayloree/petits-plats/internal/state"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the active filters as tags",
	Long:  "Resolves the filter flags into the tag list a browsing session would show, without loading recipes.",
	Example: `  plats tags -i citron -a four
  plats tags --filter ustensiles=couteau --json`,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	selections, err := selectionsFromFlags()
	if err != nil {
		return err
	}

	store := state.NewStore(nil)
	applySelections(store, flagQuery, selections)
	tags := browse.Tags(store.Snapshot())

	if flagJSON {
		return display.PrintTagsJSON(cmd.OutOrStdout(), tags)
	}
	display.PrintTags(cmd.OutOrStdout(), tags)
	return nil
}
