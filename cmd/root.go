package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tayloree/petits-plats/internal/config"
	"github.com/tayloree/petits-plats/internal/display"
)

var (
	flagQuery       string
	flagIngredients []string
	flagAppliances  []string
	flagUstensils   []string
	flagFilters     []string
	flagLimit       int
	flagJSON        bool
)

var rootCmd = &cobra.Command{
	Use:   "plats [search words]",
	Short: "Search and filter the Les Petits Plats recipe collection",
	Long: "CLI tool that searches a recipe collection by free text and narrows it with\n" +
		"ingredient, appliance and ustensil filters. Ingredients and ustensils must all\n" +
		"match; any selected appliance matches.\n\n" +
		"Bare words are used as the search term. Recipes come from the bundled dataset\n" +
		"unless --source (or PLATS_SOURCE) points to a URL or JSON file.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -ingredient citron, appliance=four, --ingredeint citron).",
	Example: `  plats coco
  plats --ingredient "lait de coco" --appliance blender
  plats -q tarte -u couteau -u "moule à tarte"
  plats --filter ustensils=saladier --json
  plats options ingredients --search cit
  plats tui`,
	Args: cobra.ArbitraryArgs,
	RunE: runRecipes,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(flagError)

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	registerSelectionFlags(pf)
	config.RegisterFlags(pf)

	rootCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Limit number of recipes shown (0 = all)")
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			fmt.Fprintln(stderr, explain(err).text())
			return ExitInternal
		}
		return ExitSuccess
	}

	summary := summarizeArgs(normalizedArgs)
	asJSON := summary.json
	if summary.autoJSON(isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
		asJSON = true
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	cliErr := explain(err)
	if !asJSON {
		fmt.Fprintln(stderr, cliErr.text())
	} else if werr := cliErr.writeJSON(stderr); werr != nil {
		fmt.Fprintln(stderr, cliErr.text())
	}
	return cliErr.ExitCode()
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

// resetCLIState restores every flag to its default so runCLI can be called
// repeatedly in one process.
func resetCLIState() {
	resetFlags(rootCmd)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func runRecipes(cmd *cobra.Command, args []string) error {
	query, err := resolveQuery(cmd, args)
	if err != nil {
		return err
	}
	if flagLimit < 0 {
		return invalidArgsError(
			"--limit must be 0 or more",
			"plats coco --limit 5",
		)
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

	session, err := a.openSession(cmd.Context(), query, selections, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	view := session.View()
	if len(view.Recipes) == 0 {
		return notFoundError(
			display.NoMatchMessage(view.SearchTerm),
			"Relax filters like --ingredient/--appliance/--ustensil/--query.",
			"Run `plats options` to list the values still available.",
		)
	}

	if flagJSON {
		return display.PrintRecipesJSON(cmd.OutOrStdout(), view, flagLimit)
	}
	display.PrintRecipes(cmd.OutOrStdout(), view, flagLimit)
	return nil
}

// resolveQuery merges positional search words with --query.
func resolveQuery(cmd *cobra.Command, args []string) (string, error) {
	words := strings.TrimSpace(strings.Join(args, " "))
	if words == "" {
		return flagQuery, nil
	}
	if cmd.Flags().Changed("query") {
		return "", invalidArgsError(
			"use either --query or bare search words, not both",
			"plats tarte aux pommes",
			"plats --query \"tarte aux pommes\"",
		)
	}
	return words, nil
}
