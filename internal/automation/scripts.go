package automation

import (
	"fmt"
	"strings"

	"github.com/crosspub/crosspub/internal/platforms"
)

// escapeJS escapes a value for embedding in a single-quoted JS string.
func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// jsArray renders a slice as a JS array literal of single-quoted strings.
func jsArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeJS(v) + "'"
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

// hasUploadSurfaceJS detects the upload surface: a file input, a known
// selector, or a known text marker in the body.
func hasUploadSurfaceJS(spec platforms.Spec) string {
	return fmt.Sprintf(`
		(function() {
			if (document.querySelectorAll("input[type='file']").length > 0) return true;
			const selectors = %s;
			for (const sel of selectors) {
				try { if (document.querySelector(sel)) return true; } catch (_) {}
			}
			const text = (document.body && document.body.innerText) ? document.body.innerText : '';
			const markers = %s;
			for (const marker of markers) {
				if (marker && text.includes(marker)) return true;
			}
			return false;
		})()`, jsArray(spec.SurfaceSelectors), jsArray(spec.SurfaceTextMarkers))
}

// selectorCountJS counts matches for a selector, -1 on an invalid selector.
func selectorCountJS(selector string) string {
	return fmt.Sprintf(`
		(function() {
			try { return document.querySelectorAll('%s').length; }
			catch (_) { return -1; }
		})()`, escapeJS(selector))
}

// dispatchUploadEventsJS fires the change/input events SPA frameworks listen
// for after files are attached outside a real file chooser.
func dispatchUploadEventsJS(selector string) string {
	return fmt.Sprintf(`
		(function() {
			const el = document.querySelector('%s');
			if (!el) return 'not_found';
			el.dispatchEvent(new Event('change', { bubbles: true }));
			el.dispatchEvent(new Event('input', { bubbles: true }));
			return 'dispatched:files=' + (el.files ? el.files.length : 0);
		})()`, escapeJS(selector))
}

// uploadSignalJS checks whether the page accepted the file: the input holds
// it, or progress text appeared.
func uploadSignalJS(selector string) string {
	return fmt.Sprintf(`
		(function() {
			const el = document.querySelector('%s');
			if (el && el.files && el.files.length > 0) return true;
			const text = (document.body && document.body.innerText) ? document.body.innerText : '';
			const markers = ['上传中', '上传成功', '解析中', 'uploading', 'Uploading', '%%'];
			for (const marker of markers) {
				if (text.includes(marker)) return true;
			}
			return false;
		})()`, escapeJS(selector))
}

// setInputValueJS writes value into an input/textarea through the native
// value setter so framework state stays in sync, then fires input/change.
func setInputValueJS(selector, value string) string {
	return fmt.Sprintf(`
		(function() {
			const el = document.querySelector('%s');
			if (!el) return 'not_found';
			const proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
			const setter = Object.getOwnPropertyDescriptor(proto, 'value');
			if (setter && setter.set) { setter.set.call(el, '%s'); } else { el.value = '%s'; }
			el.dispatchEvent(new Event('input', { bubbles: true }));
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return 'ok';
		})()`, escapeJS(selector), escapeJS(value), escapeJS(value))
}

// setEditableTextJS fills a contenteditable surface.
func setEditableTextJS(selector, value string) string {
	return fmt.Sprintf(`
		(function() {
			const el = document.querySelector('%s');
			if (!el) return 'not_found';
			el.focus();
			el.innerText = '%s';
			el.dispatchEvent(new Event('input', { bubbles: true }));
			return 'ok';
		})()`, escapeJS(selector), escapeJS(value))
}

// addTagJS types a tag and commits it with an Enter keydown.
func addTagJS(selector, tag string) string {
	return fmt.Sprintf(`
		(function() {
			const el = document.querySelector('%s');
			if (!el) return 'not_found';
			el.focus();
			const proto = HTMLInputElement.prototype;
			const setter = Object.getOwnPropertyDescriptor(proto, 'value');
			if (setter && setter.set) { setter.set.call(el, '%s'); } else { el.value = '%s'; }
			el.dispatchEvent(new Event('input', { bubbles: true }));
			el.dispatchEvent(new KeyboardEvent('keydown', { key: 'Enter', keyCode: 13, bubbles: true }));
			return 'ok';
		})()`, escapeJS(selector), escapeJS(tag), escapeJS(tag))
}

// clickJS clicks the first visible element matching the selector.
func clickJS(selector string) string {
	return fmt.Sprintf(`
		(function() {
			const nodes = document.querySelectorAll('%s');
			for (const el of nodes) {
				const rect = el.getBoundingClientRect();
				if (rect.width > 0 && rect.height > 0) { el.click(); return true; }
			}
			return false;
		})()`, escapeJS(selector))
}
