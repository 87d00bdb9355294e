package webtrac

import (
	"encoding/json"
	"fmt"
)

// jsCall wraps a JS arrow function body into an immediately-invoked call
// with one JSON-encoded argument.
func jsCall(fn string, arg any) string {
	b, _ := json.Marshal(arg)
	return fmt.Sprintf("(%s)(%s)", fn, b)
}

func jsCall2(fn string, a, b any) string {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return fmt.Sprintf("(%s)(%s, %s)", fn, ab, bb)
}

// setResult reports whether a structural guess found its control.
type setResult struct {
	Found    bool   `json:"found"`
	Name     string `json:"name"`
	Selected string `json:"selected"`
}

// The player dropdown is whichever select offers bare 1..4 options.
const jsSetPlayers = `(target) => {
	const selects = document.querySelectorAll('select');
	for (const s of selects) {
		const opts = Array.from(s.options).map(o => o.text.trim().toLowerCase());
		if (opts.some(o => /^[1-4]$/.test(o))) {
			for (const o of s.options) {
				if (o.text.trim() === target || o.value === target) {
					s.value = o.value;
					s.dispatchEvent(new Event('change', {bubbles: true}));
					return {found: true, name: s.name, selected: o.text.trim()};
				}
			}
		}
	}
	return {found: false};
}`

// The date input needs the native value setter so the page's framework sees
// the change.
const jsSetDate = `(target) => {
	const inputs = document.querySelectorAll('input');
	for (const inp of inputs) {
		if (inp.type === 'date' || inp.name.toLowerCase().includes('date') || inp.id.toLowerCase().includes('date')) {
			const nativeSetter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value').set;
			nativeSetter.call(inp, target);
			inp.dispatchEvent(new Event('input', {bubbles: true}));
			inp.dispatchEvent(new Event('change', {bubbles: true}));
			return {found: true, name: inp.name || inp.id};
		}
	}
	return {found: false};
}`

// The begin-time dropdown is the select whose options carry am/pm. Each
// spelling variant is tried in order.
const jsSetTime = `(variants) => {
	const selects = document.querySelectorAll('select');
	for (const s of selects) {
		const optsLower = Array.from(s.options).map(o => o.text.trim().toLowerCase());
		if (optsLower.some(o => o.includes('am') || o.includes('pm'))) {
			for (const target of variants) {
				for (const o of s.options) {
					if (o.text.trim().toLowerCase() === target.toLowerCase()) {
						s.value = o.value;
						s.dispatchEvent(new Event('change', {bubbles: true}));
						return {found: true, name: s.name, selected: o.text.trim()};
					}
				}
			}
			return {found: false};
		}
	}
	return {found: false};
}`

// The sidebar Search button, not the nav menu link of the same name.
const jsClickSearch = `(() => {
	const buttons = document.querySelectorAll('button, input[type="submit"], input[type="button"]');
	for (const el of buttons) {
		const text = (el.textContent || el.value || '').trim();
		if (text === 'Search') {
			el.click();
			return true;
		}
	}
	return false;
})()`

// Result rows are trs with cells; the header row names the Time/Holes/Course
// columns. A row is open when it says Available and its cart control is not
// in the error state.
const jsListRows = `(() => {
	const out = [];
	for (const row of document.querySelectorAll('tr')) {
		if (!row.querySelector('td')) continue;
		const text = (row.textContent || '').replace(/\s+/g, ' ').trim();
		if (text.includes('Time') && text.includes('Holes') && text.includes('Course')) continue;
		const btn = row.querySelector('a.cart-button');
		const available = text.includes('Available') && !!btn && !btn.className.includes('error');
		out.push({label: text.substring(0, 100), available: available});
	}
	return out;
})()`

// Click the cart control inside the labeled row, falling back to the first
// non-error cart control on the page.
const jsSelectSlot = `(label) => {
	for (const row of document.querySelectorAll('tr')) {
		const text = (row.textContent || '').replace(/\s+/g, ' ').trim();
		if (text.substring(0, 100) !== label) continue;
		const btn = row.querySelector('a.cart-button:not(.error)') || row.querySelector('a.cart-button.success');
		if (btn) {
			btn.click();
			return true;
		}
	}
	const fallback = document.querySelector('a.cart-button:not(.error)') || document.querySelector('a.cart-button.success');
	if (fallback) {
		fallback.click();
		return true;
	}
	return false;
}`

const jsLogin = `(username, password) => {
	const user = document.querySelector('input[name*="user"], input[id*="user"], input[type="text"]');
	const pass = document.querySelector('input[type="password"]');
	if (!pass) return false;
	const nativeSetter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value').set;
	if (user) {
		nativeSetter.call(user, username);
		user.dispatchEvent(new Event('input', {bubbles: true}));
	}
	nativeSetter.call(pass, password);
	pass.dispatchEvent(new Event('input', {bubbles: true}));
	for (const el of document.querySelectorAll('button, input[type="submit"]')) {
		const text = (el.textContent || el.value || '').trim();
		if (text === 'Login' || el.type === 'submit') {
			el.click();
			return true;
		}
	}
	return false;
}`

const jsHasControlWithText = `(wanted) => {
	for (const el of document.querySelectorAll('button, a, input[type="submit"], input[type="button"]')) {
		const text = (el.textContent || el.value || '').trim();
		if (text === wanted) return true;
	}
	return false;
}`

const jsClickControlWithText = `(wanted) => {
	for (const el of document.querySelectorAll('button, a, input[type="submit"], input[type="button"]')) {
		const text = (el.textContent || el.value || '').trim();
		if (text === wanted) {
			el.click();
			return true;
		}
	}
	return false;
}`

// The checkout page finishes with one of a few control spellings.
const jsHasFinalControl = `(() => {
	const wanted = ['Continue', 'Book', 'Submit', 'Checkout'];
	for (const el of document.querySelectorAll('button, input[type="submit"], input[type="button"]')) {
		const text = (el.textContent || el.value || '').trim();
		if (wanted.includes(text) || text.includes('Book')) return true;
	}
	return false;
})()`

const jsClickFinalControl = `(() => {
	const wanted = ['Continue', 'Book', 'Submit', 'Checkout'];
	for (const el of document.querySelectorAll('button, input[type="submit"], input[type="button"]')) {
		const text = (el.textContent || el.value || '').trim();
		if (wanted.includes(text) || text.includes('Book')) {
			el.click();
			return true;
		}
	}
	return false;
})()`
