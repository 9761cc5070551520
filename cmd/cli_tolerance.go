package cmd

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagInfo is what the rewriter needs to know about one accepted flag.
type flagInfo struct {
	name       string
	shorthand  string
	takesValue bool
}

// cliVocabulary lists every flag and command the CLI accepts. It is read off
// the cobra tree so that a new flag is tolerated as soon as it is registered.
type cliVocabulary struct {
	flags    map[string]flagInfo
	short    map[string]flagInfo
	names    []string
	commands []string
}

// French and English spellings users reach for, mapped to the real flag.
var flagAliases = map[string]string{
	"ingredients": "ingredient",
	"appliances":  "appliance",
	"appareil":    "appliance",
	"appareils":   "appliance",
	"ustensils":   "ustensil",
	"ustensile":   "ustensil",
	"ustensiles":  "ustensil",
	"utensil":     "ustensil",
	"utensils":    "ustensil",
	"term":        "query",
	"recherche":   "query",
	"max":         "limit",
	"src":         "source",
	"url":         "source",
	"image-base":  "images",
	"ttl":         "cache-ttl",
	"log":         "log-level",
	"loglevel":    "log-level",
}

var vocabulary = sync.OnceValue(func() *cliVocabulary {
	return buildVocabulary(rootCmd)
})

func buildVocabulary(root *cobra.Command) *cliVocabulary {
	v := &cliVocabulary{
		flags: make(map[string]flagInfo),
		short: make(map[string]flagInfo),
	}
	add := func(f *pflag.Flag) {
		info := flagInfo{name: f.Name, shorthand: f.Shorthand, takesValue: f.NoOptDefVal == ""}
		v.flags[f.Name] = info
		if f.Shorthand != "" {
			v.short[f.Shorthand] = info
		}
	}
	// cobra only attaches these at execution time.
	add(&pflag.Flag{Name: "help", Shorthand: "h", NoOptDefVal: "true"})
	v.commands = []string{"help", "completion"}

	root.PersistentFlags().VisitAll(add)
	root.Flags().VisitAll(add)
	for _, child := range root.Commands() {
		if slices.Contains(v.commands, child.Name()) {
			continue
		}
		v.commands = append(v.commands, child.Name())
		child.Flags().VisitAll(add)
	}

	for name := range v.flags {
		v.names = append(v.names, name)
	}
	slices.Sort(v.names)
	slices.Sort(v.commands)
	return v
}

// resolveFlag maps a typed flag name to a registered one: exact, alias, then
// a close spelling.
func (v *cliVocabulary) resolveFlag(raw string) (flagInfo, bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	if info, ok := v.flags[name]; ok {
		return info, true
	}
	if guess, ok := closestMatch(name, v.names, 2); ok {
		return v.flags[guess], true
	}
	return flagInfo{}, false
}

// resolveCommand is stricter for short tokens since those are usually search
// words like "tout" or "thon".
func (v *cliVocabulary) resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(v.commands, name) {
		return name, true
	}
	maxDistance := 2
	if len([]rune(name)) <= 4 {
		maxDistance = 1
	}
	return closestMatch(name, v.commands, maxDistance)
}

// argRewriter walks the raw arguments once, fixing flag and command spelling
// while leaving flag values and everything after "--" alone.
type argRewriter struct {
	vocab *cliVocabulary
	notes []string

	commandOpen bool
	command     string
	bareFlags   bool
	wantValue   bool
	literal     bool
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	rw := &argRewriter{vocab: vocabulary(), commandOpen: true}
	out := make([]string, 0, len(args))
	for i, tok := range args {
		out = append(out, rw.next(tok, i == len(args)-1))
	}
	return out, rw.notes
}

func (rw *argRewriter) next(tok string, last bool) string {
	switch {
	case rw.literal:
		return tok
	case rw.wantValue:
		rw.wantValue = false
		return tok
	case tok == "--":
		rw.literal = true
		return tok
	case strings.HasPrefix(tok, "--"):
		return rw.flag(tok, tok[2:], last)
	case len(tok) == 2 && tok[0] == '-':
		info, ok := rw.vocab.short[tok[1:]]
		rw.wantValue = ok && info.takesValue && !last
		return tok
	case strings.HasPrefix(tok, "-"):
		return rw.flag(tok, tok[1:], last)
	}

	if name, _, ok := strings.Cut(tok, "="); ok {
		if _, known := rw.vocab.resolveFlag(name); known {
			return rw.flag(tok, tok, last)
		}
	}
	if rw.commandOpen {
		return rw.positional(tok)
	}
	if rw.bareFlags {
		if _, known := rw.vocab.resolveFlag(tok); known {
			return rw.flag(tok, tok, last)
		}
	}
	return tok
}

// flag rewrites body ("name" or "name=value") into its canonical --name form.
// A bare token is only rewritten when it resolves; an unknown dashed flag is
// left for cobra to reject.
func (rw *argRewriter) flag(tok, body string, last bool) string {
	name, value, hasValue := strings.Cut(body, "=")
	info, ok := rw.vocab.resolveFlag(name)
	if !ok {
		return tok
	}
	fixed := "--" + info.name
	if hasValue {
		fixed += "=" + value
	}
	rw.wantValue = info.takesValue && !hasValue && !last
	if fixed != tok {
		rw.note(tok, fixed)
	}
	return fixed
}

func (rw *argRewriter) positional(tok string) string {
	cmd, ok := rw.vocab.resolveCommand(tok)
	if !ok {
		// The first search word closes the command slot.
		rw.commandOpen = false
		return tok
	}
	if cmd != tok {
		rw.notes = append(rw.notes, fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, cmd, cmd))
	}
	if rw.command == "" {
		rw.command = cmd
		// help and completion take one more command name; tags takes no
		// positionals, so a bare word there is a forgotten "--".
		rw.commandOpen = cmd == "help" || cmd == "completion"
		rw.bareFlags = cmd == "tags"
	} else {
		rw.commandOpen = false
	}
	return cmd
}

func (rw *argRewriter) note(from, to string) {
	rw.notes = append(rw.notes, fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", from, to, to))
}

// closestMatch returns the candidate nearest to target within maxDistance.
// Ties go to the candidate listed first.
func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best, bestDist := "", maxDistance+1
	for _, candidate := range candidates {
		if d := editDistance(target, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, bestDist <= maxDistance
}

// editDistance is the Levenshtein distance counted in runes, so "écran" and
// "ecran" are one edit apart.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			above := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(rb)]
}
