package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tayloree/petits-plats/internal/api"
	"github.com/tayloree/petits-plats/internal/display"
	"github.com/tayloree/petits-plats/internal/watch"
)

var flagWatch bool

var tuiCmd = &cobra.Command{
	Use:   "tui [search words]",
	Short: "Browse recipes interactively in the terminal",
	Example: `  plats tui
  plats tui -i "lait de coco"
  plats tui --source https://example.com/recipes.json
  plats tui tarte -u couteau
  plats tui --source ./recettes.json --watch`,
	Args: cobra.ArbitraryArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Reload when the --source file changes on disk")
}

func runTUI(cmd *cobra.Command, args []string) error {
	query, err := resolveQuery(cmd, args)
	if err != nil {
		return err
	}
	selections, err := selectionsFromFlags()
	if err != nil {
		return err
	}
	if !flagJSON && !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`plats tui` requires an interactive terminal",
			"Use `plats --json` in pipelines.",
		)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagWatch && !api.IsLocalFile(a.cfg.Source) {
		return invalidArgsError(
			"--watch needs --source pointing to a local JSON file",
			"plats tui --source ./recettes.json --watch",
		)
	}

	if flagJSON {
		session, err := a.openSession(cmd.Context(), query, selections, nil)
		if err != nil {
			return err
		}
		defer session.Close()
		return display.PrintRecipesJSON(cmd.OutOrStdout(), session.View(), 0)
	}

	loadCfg := tuiLoadConfig{
		ctx:        cmd.Context(),
		app:        a,
		query:      query,
		selections: selections,
	}
	if flagWatch {
		w, err := watch.New(a.cfg.Source, watch.DefaultDebounce, a.log.Named("watch"))
		if err != nil {
			return fmt.Errorf("watching source: %w", err)
		}
		defer w.Stop()
		if err := w.Start(cmd.Context()); err != nil {
			return invalidArgsError(err.Error(), "Check that the --source directory exists.")
		}
		loadCfg.changes = w.Changes()
	}

	model := newLoadingRecipesTUIModel(loadCfg)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	final, runErr := program.Run()
	if m, ok := final.(recipesTUIModel); ok {
		m.close()
		if runErr == nil && m.fatalErr != nil {
			return m.fatalErr
		}
	}
	if runErr != nil {
		return fmt.Errorf("running tui: %w", runErr)
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
