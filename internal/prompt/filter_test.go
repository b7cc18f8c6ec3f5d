package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionFilter_Match(t *testing.T) {
	f := NewQuestionFilter()

	tests := []struct {
		prompt   string
		expected bool
	}{
		{"What are the causes of diabetes", true},
		{"How can I prevent back pain?", true},
		{"  what are the symptoms of flu", true},
		{"IS IT SAFE TO take ibuprofen daily", true},
		{"Tell me a joke", false},
		{"", false},
		{"Please tell me: What are the causes of diabetes", false},
		{"What are", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, f.Match(tt.prompt), "prompt %q", tt.prompt)
	}
}

func TestQuestionFilter_MatchedPrefix(t *testing.T) {
	f := NewQuestionFilter()

	prefix, ok := f.MatchedPrefix("How can I prevent migraines")
	assert.True(t, ok)
	assert.Equal(t, "how can i prevent", prefix)

	_, ok = f.MatchedPrefix("Write me a poem")
	assert.False(t, ok)
}

func TestQuestionPrefixes_Count(t *testing.T) {
	assert.GreaterOrEqual(t, len(questionPrefixes), 30)
}

func TestQuestionFilter_IgnoresCaseAndLeadingSpace(t *testing.T) {
	f := NewQuestionFilter()

	for _, p := range []string{
		"what are the causes of diabetes",
		"WHAT ARE THE CAUSES OF diabetes",
		"\n\t What are the causes of diabetes",
	} {
		prefix, ok := f.MatchedPrefix(p)
		assert.True(t, ok, "prompt %q", p)
		assert.Equal(t, "what are the causes of", prefix)
	}
}
