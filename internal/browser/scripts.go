package browser

import (
	"encoding/json"
	"fmt"

	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/types"
)

// controlSelector is the collection every positional field index refers to.
// Discovery, positional lookup, and panel input indexing all use it so an
// index captured by one script stays valid for the next.
const controlSelector = `input, textarea, select`

// fieldScanJS enumerates the visible, fillable controls on the page. The
// visibility filter drops zero-size, display:none, and hidden/submit/button/
// image controls; label resolution tries the associated label, then
// label[for], then placeholder, then name, and skips controls where all four
// are empty because they cannot be keyed into memory.
const fieldScanJS = `(() => {
	const out = [];
	document.querySelectorAll('` + controlSelector + `').forEach((el, idx) => {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (rect.width <= 0 || rect.height <= 0 ||
			style.display === 'none' || style.visibility === 'hidden' ||
			el.type === 'hidden' || el.type === 'submit' ||
			el.type === 'button' || el.type === 'image') {
			return;
		}
		let label = '';
		if (el.labels && el.labels.length > 0) {
			label = el.labels[0].innerText.trim();
		}
		if (!label && el.id) {
			const lab = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (lab) label = lab.innerText.trim();
		}
		if (!label && el.placeholder) label = el.placeholder;
		if (!label && el.name) label = el.name;
		if (!label) return;
		out.push({
			index: idx,
			tag: el.tagName.toLowerCase(),
			type: el.type || 'text',
			name: el.name || '',
			id: el.id || '',
			label: label,
			placeholder: el.placeholder || '',
			value: el.value || '',
			required: el.required || el.hasAttribute('required') ||
				el.getAttribute('aria-required') === 'true'
		});
	});
	return out;
})()`

const bodyTextJS = `document.body ? document.body.innerText : ''`

// jsString renders a Go string as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsStringSlice renders a Go string slice as a JavaScript array literal.
// A nil slice renders as an empty array, not null.
func jsStringSlice(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

// elementJS builds an expression resolving a FieldRef to its live element:
// the selector when one was captured, otherwise the positional index over the
// shared control collection.
func elementJS(ref types.FieldRef) string {
	if ref.Selector != "" {
		return fmt.Sprintf("document.querySelector(%s)", jsString(ref.Selector))
	}
	return fmt.Sprintf("document.querySelectorAll('%s')[%d]", controlSelector, ref.Index)
}

// refLabel names a FieldRef for error messages.
func refLabel(ref types.FieldRef) string {
	if ref.Selector != "" {
		return ref.Selector
	}
	return fmt.Sprintf("control #%d", ref.Index)
}

// setValueJS assigns a value and dispatches input/change events so the host
// page's own validation observes the edit.
func setValueJS(ref types.FieldRef, value string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	el.value = %s;
	el.dispatchEvent(new Event('input', {bubbles: true}));
	el.dispatchEvent(new Event('change', {bubbles: true}));
	return true;
})()`, elementJS(ref), jsString(value))
}

// focusClickJS focuses and clicks an input the way a user's pointer would,
// giving focus-triggered widgets a chance to open before the value lands.
func focusClickJS(ref types.FieldRef) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	el.focus();
	el.click();
	return true;
})()`, elementJS(ref))
}

// optionsJS lists a select control's option display texts.
func optionsJS(ref types.FieldRef) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el || !el.options) return [];
	return Array.from(el.options).map(o => (o.innerText || o.value || '').trim());
})()`, elementJS(ref))
}

// selectOptionJS sets a select control to the option with the given display
// text and dispatches a change event.
func selectOptionJS(ref types.FieldRef, option string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el || !el.options) return false;
	const want = %s;
	for (const opt of el.options) {
		if ((opt.innerText || opt.value || '').trim() === want) {
			el.value = opt.value;
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		}
	}
	return false;
})()`, elementJS(ref), jsString(option))
}

// clickScanJS scans clickable controls for the first visible, enabled one
// whose text contains a wanted token and none of the excluded ones, and
// clicks it.
func clickScanJS(scan engine.ButtonScan) string {
	sel := `button, a, input[type="button"]`
	if scan.SubmitOnly {
		sel = `button, input[type="submit"], a`
	}
	return fmt.Sprintf(`(() => {
	const tokens = %s;
	const exclude = %s;
	for (const btn of document.querySelectorAll(%s)) {
		const text = btn.innerText || btn.value || '';
		const lower = text.toLowerCase();
		if (!tokens.some(t => lower.includes(t))) continue;
		if (exclude.some(t => lower.includes(t))) continue;
		if (btn.offsetParent === null || btn.disabled) continue;
		btn.click();
		return {success: true, text: text.trim()};
	}
	return {success: false, text: ''};
})()`, jsStringSlice(scan.Tokens), jsStringSlice(scan.Exclude), jsString(sel))
}

// uploadTagID marks a file input that has no usable selector so the upload
// round-trip can target it by id.
const uploadTagID = "autoapply-upload-target"

func tagElementJS(ref types.FieldRef) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	el.id = %s;
	return true;
})()`, elementJS(ref), jsString(uploadTagID))
}
