package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// argSummary is what runCLI needs to know before cobra parses the arguments.
type argSummary struct {
	command string
	json    bool
	help    bool
	empty   bool
}

func summarizeArgs(args []string) argSummary {
	vocab := vocabulary()
	s := argSummary{empty: len(args) == 0}
	skipValue := false
	for _, arg := range args {
		switch {
		case skipValue:
			skipValue = false
		case arg == "--":
			return s
		case arg == "-h" || arg == "--help":
			s.help = true
		case arg == "--json" || strings.HasPrefix(arg, "--json="):
			s.json = true
		case strings.HasPrefix(arg, "--"):
			name, _, inline := strings.Cut(arg[2:], "=")
			skipValue = !inline && vocab.flags[name].takesValue
		case len(arg) == 2 && arg[0] == '-':
			skipValue = vocab.short[arg[1:]].takesValue
		case strings.HasPrefix(arg, "-"):
		case s.command == "":
			s.command = arg
		}
	}
	return s
}

// autoJSON reports whether output should switch to JSON because nobody is
// reading it on a terminal. Help and completion scripts stay text.
func (s argSummary) autoJSON(stdoutIsTTY bool) bool {
	if stdoutIsTTY || s.empty || s.json || s.help {
		return false
	}
	return s.command != "help" && s.command != "completion"
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
	Flags    []string `json:"flags"`
}

var quickStart = quickStartJSON{
	Name:  "plats",
	Usage: "plats [search words] [flags] | [options|tags|tui] [flags]",
	Examples: []string{
		"plats coco --limit 5",
		"plats --ingredient tomate --ustensil couteau",
		"plats options appliances --search fo",
	},
	Flags: []string{"--query", "--ingredient", "--appliance", "--ustensil", "--filter", "--limit", "--json", "--source"},
}

func printQuickStart(w io.Writer, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(quickStart)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nusage: %s\nexamples:\n", quickStart.Name, quickStart.Usage)
	for _, ex := range quickStart.Examples {
		fmt.Fprintf(&b, "  %s\n", ex)
	}
	fmt.Fprintf(&b, "flags: %s\n", strings.Join(quickStart.Flags, " "))
	_, err := io.WriteString(w, b.String())
	return err
}
