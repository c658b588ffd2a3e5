package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQuestions(t *testing.T) {
	html := `<div class="panel">
		<h3>Additional questions</h3>
		<p>How many years of experience do you have with Python?</p>
		<div><span>What is your expected CTC?</span></div>
		<p>Need help? Visit https://example.com/help?src=panel</p>
		<p>Why?</p>
		<p>How many years of experience do you have with Python?</p>
		<input type="text">
	</div>`

	questions, err := ExtractQuestions(html)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"How many years of experience do you have with Python?",
		"What is your expected CTC?",
	}, questions)
}

func TestExtractQuestionsFirstFragmentIsCurrent(t *testing.T) {
	// Stale questions from a prior panel screen may linger later in the
	// markup; the current question must come first in document order.
	html := `<aside>
		<p>What is your notice period in days?</p>
		<div class="history"><p>Are you willing to relocate to Pune?</p></div>
	</aside>`

	questions, err := ExtractQuestions(html)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "What is your notice period in days?", questions[0])
}

func TestExtractQuestionsIgnoresWrapperText(t *testing.T) {
	// A wrapper's own text is only its direct text nodes; it must not
	// re-report the question its child already produced.
	html := `<div><p>Do you hold a valid work permit?</p></div>`

	questions, err := ExtractQuestions(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"Do you hold a valid work permit?"}, questions)
}

func TestExtractQuestionsCollapsesWhitespace(t *testing.T) {
	html := `<p>How  many
		years of experience?</p>`

	questions, err := ExtractQuestions(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"How many years of experience?"}, questions)
}

func TestExtractQuestionsEmptyPanel(t *testing.T) {
	questions, err := ExtractQuestions(`<div><button>Save</button></div>`)
	require.NoError(t, err)
	assert.Empty(t, questions)
}
