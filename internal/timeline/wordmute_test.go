package timeline

import (
	"Petrel/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordMuteConjunctiveRule(t *testing.T) {
	n := &model.Note{Text: "the quick brown fox"}

	require.True(t, matchesWordMute(n, [][]string{{"quick", "fox"}}, nil))
	// Every token of a rule must appear.
	require.False(t, matchesWordMute(n, [][]string{{"quick", "dog"}}, nil))
	// Any single rule firing is enough.
	require.True(t, matchesWordMute(n, [][]string{{"quick", "dog"}, {"brown"}}, nil))
}

func TestWordMuteCaseInsensitive(t *testing.T) {
	n := &model.Note{Text: "Hello World"}
	require.True(t, matchesWordMute(n, [][]string{{"hello"}}, nil))
	require.True(t, matchesWordMute(n, [][]string{{"WORLD"}}, nil))
}

func TestWordMuteLooksAtWarningAndQuote(t *testing.T) {
	require.True(t, matchesWordMute(
		&model.Note{Text: "look away", CW: "spoiler"},
		[][]string{{"spoiler"}}, nil))
	require.True(t, matchesWordMute(
		&model.Note{Text: "check this out", RenoteID: "r", RenoteText: "banned phrase"},
		[][]string{{"banned", "phrase"}}, nil))
}

func TestWordMuteEmptyRuleNeverFires(t *testing.T) {
	n := &model.Note{Text: "anything"}
	require.False(t, matchesWordMute(n, [][]string{{}}, nil))
	require.False(t, matchesWordMute(&model.Note{}, [][]string{{"anything"}}, nil))
}

func TestWordMutePatterns(t *testing.T) {
	res := compilePatterns([]string{"/c[aou]t/", "/LOUD/i", "not-a-pattern", "/bad(/"})
	require.Len(t, res, 2)

	require.True(t, matchesWordMute(&model.Note{Text: "my cot"}, nil, res))
	require.True(t, matchesWordMute(&model.Note{Text: "so loud today"}, nil, res))
	require.False(t, matchesWordMute(&model.Note{Text: "harmless"}, nil, res))
}
