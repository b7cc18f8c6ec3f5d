package prompt

import "strings"

// questionPrefixes is checked in order; the first hit wins.
var questionPrefixes = []string{
	"What are the causes of",
	"What are the symptoms of",
	"What are the side effects of",
	"What are the risk factors for",
	"What are the treatments for",
	"What are the complications of",
	"What are the early signs of",
	"What is the treatment for",
	"What is the best way to",
	"What is the normal range for",
	"What is the difference between",
	"What does it mean if",
	"What should I do if",
	"What should I eat",
	"What foods",
	"What medicine",
	"How can I prevent",
	"How can I treat",
	"How can I reduce",
	"How can I improve",
	"How do I know if",
	"How long does it take to recover from",
	"How is",
	"How often should I",
	"Is it normal to",
	"Is it safe to",
	"Is it dangerous to",
	"Can I take",
	"Can stress cause",
	"When should I see a doctor",
	"Why do I feel",
	"Why does my",
}

// QuestionFilter accepts prompts that open with a known medical question
// prefix. Matching ignores case and leading whitespace.
type QuestionFilter struct {
	prefixes []string
}

func NewQuestionFilter() *QuestionFilter {
	lowered := make([]string, len(questionPrefixes))
	for i, p := range questionPrefixes {
		lowered[i] = strings.ToLower(p)
	}
	return &QuestionFilter{prefixes: lowered}
}

func (f *QuestionFilter) Match(prompt string) bool {
	_, ok := f.MatchedPrefix(prompt)
	return ok
}

// MatchedPrefix returns the prefix that accepted the prompt, in its
// lower-cased form.
func (f *QuestionFilter) MatchedPrefix(prompt string) (string, bool) {
	p := strings.ToLower(strings.TrimLeft(prompt, " \t\r\n"))
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(p, prefix) {
			return prefix, true
		}
	}
	return "", false
}
