package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/types"
)

func TestElementJSPrefersSelector(t *testing.T) {
	js := elementJS(types.FieldRef{Selector: "#email", Index: 4})
	assert.Equal(t, `document.querySelector("#email")`, js)
}

func TestElementJSPositionalFallback(t *testing.T) {
	js := elementJS(types.FieldRef{Index: 4})
	assert.Contains(t, js, "querySelectorAll")
	assert.Contains(t, js, "[4]")
}

func TestSetValueJSEscapesValue(t *testing.T) {
	// Values come from humans and memory; quotes and newlines must not be
	// able to break out of the script.
	js := setValueJS(types.FieldRef{Selector: "#msg"}, "she said \"hi\"\nbye")
	assert.Contains(t, js, `"she said \"hi\"\nbye"`)
	assert.Contains(t, js, "dispatchEvent")
}

func TestClickScanJSEmbedsTokens(t *testing.T) {
	js := clickScanJS(engine.ButtonScan{Tokens: []string{"apply"}, Exclude: []string{"applied"}})
	assert.Contains(t, js, `["apply"]`)
	assert.Contains(t, js, `["applied"]`)
	assert.False(t, strings.Contains(js, "null"))
}

func TestClickScanJSSubmitOnlySelector(t *testing.T) {
	standard := clickScanJS(engine.ButtonScan{Tokens: []string{"apply"}})
	submit := clickScanJS(engine.ButtonScan{Tokens: []string{"submit"}, SubmitOnly: true})

	assert.Contains(t, standard, `input[type=\"button\"]`)
	assert.Contains(t, submit, `input[type=\"submit\"]`)
}

func TestJSStringSliceNilIsEmptyArray(t *testing.T) {
	assert.Equal(t, "[]", jsStringSlice(nil))
}
