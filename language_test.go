package tdd_test

import (
	"testing"

	"github.com/fwojciec/tdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageForFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want tdd.Language
		ok   bool
	}{
		{"ts", tdd.LanguageTypeScript, true},
		{"TypeScript", tdd.LanguageTypeScript, true},
		{"tsx", tdd.LanguageTypeScript, true},
		{"js", tdd.LanguageJavaScript, true},
		{"node", tdd.LanguageJavaScript, true},
		{" python ", tdd.LanguagePython, true},
		{"py", tdd.LanguagePython, true},
		{"python-3.12", tdd.LanguagePython, true},
		{"java", tdd.LanguageJava, true},
		{"C#", tdd.LanguageCSharp, true},
		{"cs", tdd.LanguageCSharp, true},
		{"rust", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			got, ok := tdd.LanguageForFence(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	l, err := tdd.ParseLanguage("python")
	require.NoError(t, err)
	assert.Equal(t, tdd.LanguagePython, l)

	_, err = tdd.ParseLanguage("haskell")
	assert.ErrorIs(t, err, tdd.ErrValidation)
}

func TestLanguageForPath(t *testing.T) {
	t.Parallel()

	l, ok := tdd.LanguageForPath("src/sum.test.TS")
	require.True(t, ok)
	assert.Equal(t, tdd.LanguageTypeScript, l)

	_, ok = tdd.LanguageForPath("main.go")
	assert.False(t, ok)
}

func TestLanguage_Placeholder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# Write your Python code here\n", tdd.LanguagePython.Placeholder())
	assert.Equal(t, "// Write your TypeScript code here\n", tdd.LanguageTypeScript.Placeholder())
	assert.Equal(t, "// Write your C# code here\n", tdd.LanguageCSharp.Placeholder())
}

func TestLanguages_AllValid(t *testing.T) {
	t.Parallel()

	for _, l := range tdd.Languages() {
		assert.NoError(t, l.Validate(), l)
		assert.NotEmpty(t, l.Label())
	}
}
