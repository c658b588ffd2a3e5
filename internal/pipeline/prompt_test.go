package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPrompterReadsAnswer(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("9998887777\n"), &out)

	answer, ok := p.Ask("What is your phone number?", "tel")
	require.True(t, ok)
	assert.Equal(t, "9998887777", answer)
	assert.Contains(t, out.String(), "What is your phone number?")
	assert.Contains(t, out.String(), "(tel)")
}

func TestTerminalPrompterEmptyLineDeclines(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("\n"), &out)

	_, ok := p.Ask("Expected CTC?", "text")
	assert.False(t, ok)
}

func TestTerminalPrompterClosedInputDeclines(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader(""), &out)

	_, ok := p.Ask("Notice period?", "text")
	assert.False(t, ok)
}

func TestSeededPrompterNormalizesQuestions(t *testing.T) {
	p := NewSeededPrompter(map[string]string{"Notice Period?": "30 days"})

	answer, ok := p.Ask("notice period?", "text")
	require.True(t, ok)
	assert.Equal(t, "30 days", answer)
}

func TestSeededPrompterDeclinesUnknown(t *testing.T) {
	p := NewSeededPrompter(map[string]string{"phone": "9998887777"})

	_, ok := p.Ask("Expected CTC?", "text")
	assert.False(t, ok)
}
