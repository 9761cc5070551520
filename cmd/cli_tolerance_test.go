package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"tags", "-ingredient", "citron", "json"})

	assert.Equal(t, []string{"tags", "--ingredient", "citron", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--ingrediant", "citron"})

	assert.Equal(t, []string{"--ingredient", "citron"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesFlagAlias(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--appareil=four", "--ustensiles", "couteau"})

	assert.Equal(t, []string{"--appliance=four", "--ustensil", "couteau"}, args)
	assert.Len(t, notes, 2)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"optionss", "ingredients"})

	assert.Equal(t, []string{"options", "ingredients"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_ShortSearchWordsAreNotCommands(t *testing.T) {
	for _, word := range []string{"tout", "coco", "tarte", "thon"} {
		args, notes := normalizeCLIArgs([]string{word})

		assert.Equal(t, []string{word}, args, "word=%q", word)
		assert.Empty(t, notes, "word=%q", word)
	}
}

func TestNormalizeCLIArgs_RootKeepsBareWords(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"coco", "json"})

	assert.Equal(t, []string{"coco", "json"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_ShorthandValueIsNotRewritten(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-q", "tags", "-u", "limit"})

	assert.Equal(t, []string{"-q", "tags", "-u", "limit"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "tags"})

	assert.Equal(t, []string{"help", "tags"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"tags", "--", "ingredient", "citron"})

	assert.Equal(t, []string{"tags", "--", "ingredient", "citron"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-i", "tomate", "-n", "5"})

	assert.Equal(t, []string{"-i", "tomate", "-n", "5"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_SearchWordClosesCommandSlot(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"salade", "tgas"})

	assert.Equal(t, []string{"salade", "tgas"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_TUIKeepsSearchWords(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"tui", "json", "-w"})

	assert.Equal(t, []string{"tui", "json", "-w"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_BoolFlagDoesNotSwallowNextToken(t *testing.T) {
	args, _ := normalizeCLIArgs([]string{"tags", "--jsn", "ingredient=citron"})

	assert.Equal(t, []string{"tags", "--json", "--ingredient=citron"}, args)
}

func TestBuildVocabulary_ReadsCommandTree(t *testing.T) {
	v := vocabulary()

	assert.Equal(t, []string{"completion", "help", "options", "tags", "tui"}, v.commands)
	assert.True(t, v.flags["ingredient"].takesValue)
	assert.False(t, v.flags["watch"].takesValue)
	assert.False(t, v.flags["json"].takesValue)
	assert.Equal(t, "limit", v.short["n"].name)
	assert.Equal(t, "search", v.short["s"].name)
	assert.Contains(t, v.names, "log-level")
}

func TestClosestMatch_RespectsDistance(t *testing.T) {
	commands := vocabulary().commands

	got, ok := closestMatch("tgas", commands, 2)
	assert.True(t, ok)
	assert.Equal(t, "tags", got)

	_, ok = closestMatch("recette", commands, 2)
	assert.False(t, ok)
}

func TestEditDistance_CountsRunes(t *testing.T) {
	assert.Equal(t, 0, editDistance("four", "four"))
	assert.Equal(t, 1, editDistance("écran", "ecran"))
	assert.Equal(t, 3, editDistance("", "tui"))
	assert.Equal(t, editDistance("options", "optons"), editDistance("optons", "options"))
}
