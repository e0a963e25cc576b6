package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/playwright-community/playwright-go"
)

// playwrightDriver drives one page through an in-process Playwright session.
type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	timeout float64 // actionability bound, milliseconds
	log     hclog.Logger
}

func newPlaywright(opts Options) (Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	var b playwright.Browser
	switch opts.Browser {
	case "firefox":
		b, err = pw.Firefox.Launch(launchOpts)
	case "webkit":
		b, err = pw.WebKit.Launch(launchOpts)
	default:
		b, err = pw.Chromium.Launch(launchOpts)
	}
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &playwrightDriver{
		pw:      pw,
		browser: b,
		page:    page,
		timeout: float64(opts.operationTimeout()),
		log:     opts.Logger,
	}, nil
}

// playwrightTarget renders a Selector in Playwright's engine syntax.
func playwrightTarget(sel Selector) string {
	if sel.Kind == SelectorXPath {
		return "xpath=" + sel.Expr
	}
	return sel.Expr
}

func jsKind(sel Selector) string {
	if sel.Kind == SelectorXPath {
		return "xpath"
	}
	return "css"
}

// find resolves the first matching element without waiting, staging the
// lookup failure apart from the action failure.
func (d *playwrightDriver) find(sel Selector) (playwright.ElementHandle, *DriverError) {
	handle, err := d.page.QuerySelector(playwrightTarget(sel))
	if err != nil {
		return nil, invalidSelectorErr(sel, err)
	}
	if handle == nil {
		return nil, notFoundErr(sel)
	}
	return handle, nil
}

func (d *playwrightDriver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return &DriverError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Failed to navigate to '%s'. Details: %v", url, err),
		}
	}
	return nil
}

func (d *playwrightDriver) URL() (string, error) {
	return d.page.URL(), nil
}

func (d *playwrightDriver) Click(selector string) error {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	err := handle.Click(playwright.ElementHandleClickOptions{Timeout: playwright.Float(d.timeout)})
	if err != nil {
		return internalErr("click", sel, err)
	}
	return nil
}

func (d *playwrightDriver) SetValue(selector, value string) error {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	err := handle.Fill(value, playwright.ElementHandleFillOptions{Timeout: playwright.Float(d.timeout)})
	if err != nil {
		return notInputErr(sel)
	}
	return nil
}

func (d *playwrightDriver) Text(selector string) (string, error) {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	text, err := handle.InnerText()
	if err != nil {
		return "", internalErr("read text from", sel, err)
	}
	return text, nil
}

func (d *playwrightDriver) Value(selector string) (string, error) {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	value, err := handle.InputValue()
	if err != nil {
		return "", notInputErr(sel)
	}
	return value, nil
}

const pwResolveFn = `const resolve = (kind, expr) => kind === 'xpath'
		? document.evaluate(expr, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue
		: document.querySelector(expr);`

var pwAttributeScript = `(args) => {
	` + pwResolveFn + `
	const el = resolve(args.kind, args.expr);
	if (!el) return { found: false };
	const value = el.getAttribute(args.name);
	return { found: true, present: value !== null, value: value === null ? '' : value };
}`

var pwSetAttributeScript = `(args) => {
	` + pwResolveFn + `
	const el = resolve(args.kind, args.expr);
	if (!el) return { found: false };
	try {
		el.setAttribute(args.name, args.value);
		return { found: true, ok: true };
	} catch (e) {
		return { found: true, ok: false, error: String(e) };
	}
}`

var pwSelectOptionScript = `(args) => {
	` + pwResolveFn + `
	const el = resolve(args.kind, args.expr);
	if (!el) return { found: false };
	if (el.tagName !== 'SELECT') return { found: true, isSelect: false };
	el.value = args.value;
	return { found: true, isSelect: true };
}`

const pwAllAttributesScript = `(args) => {
	const out = [];
	if (args.kind === 'xpath') {
		const it = document.evaluate(args.expr, document, null, XPathResult.ORDERED_NODE_ITERATOR_TYPE, null);
		let node;
		while ((node = it.iterateNext())) {
			out.push(node.getAttribute ? node.getAttribute(args.name) : null);
		}
	} else {
		for (const el of document.querySelectorAll(args.expr)) {
			out.push(el.getAttribute(args.name));
		}
	}
	return out;
}`

func evalArgs(sel Selector, extra map[string]interface{}) map[string]interface{} {
	args := map[string]interface{}{"kind": jsKind(sel), "expr": sel.Expr}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func mapBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func mapString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func (d *playwrightDriver) Attribute(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	raw, err := d.page.Evaluate(pwAttributeScript, evalArgs(sel, map[string]interface{}{"name": name}))
	if err != nil {
		return "", invalidSelectorErr(sel, err)
	}
	res := asMap(raw)
	if !mapBool(res, "found") {
		return "", notFoundErr(sel)
	}
	if !mapBool(res, "present") {
		return "", attrNotFoundErr(sel, name)
	}
	return mapString(res, "value"), nil
}

func (d *playwrightDriver) SetAttribute(selector, name, value string) error {
	sel := ParseSelector(selector)
	raw, err := d.page.Evaluate(pwSetAttributeScript, evalArgs(sel, map[string]interface{}{"name": name, "value": value}))
	if err != nil {
		return invalidSelectorErr(sel, err)
	}
	res := asMap(raw)
	if !mapBool(res, "found") {
		return notFoundErr(sel)
	}
	if !mapBool(res, "ok") {
		return setAttrErr(sel, name, errors.New(mapString(res, "error")))
	}
	return nil
}

func (d *playwrightDriver) SelectOption(selector, value string) error {
	sel := ParseSelector(selector)
	raw, err := d.page.Evaluate(pwSelectOptionScript, evalArgs(sel, map[string]interface{}{"value": value}))
	if err != nil {
		return invalidSelectorErr(sel, err)
	}
	res := asMap(raw)
	if !mapBool(res, "found") {
		return notFoundErr(sel)
	}
	if !mapBool(res, "isSelect") {
		return notSelectErr(sel)
	}
	return nil
}

func (d *playwrightDriver) AllAttributes(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	raw, err := d.page.Evaluate(pwAllAttributesScript, evalArgs(sel, map[string]interface{}{"name": name}))
	if err != nil {
		return "", invalidSelectorErr(sel, err)
	}
	items, _ := raw.([]interface{})
	values := make([]*string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			v := s
			values = append(values, &v)
		} else {
			values = append(values, nil)
		}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", serializationErr(err)
	}
	return string(data), nil
}

func (d *playwrightDriver) Exists(selector string) (bool, error) {
	sel := ParseSelector(selector)
	handle, err := d.page.QuerySelector(playwrightTarget(sel))
	if err != nil {
		return false, invalidSelectorErr(sel, err)
	}
	return handle != nil, nil
}

func (d *playwrightDriver) Visible(selector string) (bool, error) {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		if derr.Code == CodeElementNotFound {
			return false, nil
		}
		return false, derr
	}
	visible, err := handle.IsVisible()
	if err != nil {
		return false, internalErr("check visibility of", sel, err)
	}
	return visible, nil
}

func (d *playwrightDriver) ScrollTo(selector string) error {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if err := handle.ScrollIntoViewIfNeeded(); err != nil {
		return internalErr("scroll to", sel, err)
	}
	return nil
}

func (d *playwrightDriver) Hover(selector string) error {
	sel := ParseSelector(selector)
	handle, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	err := handle.Hover(playwright.ElementHandleHoverOptions{Timeout: playwright.Float(d.timeout)})
	if err != nil {
		return internalErr("hover over", sel, err)
	}
	return nil
}

func (d *playwrightDriver) WaitFor(selector string, timeoutMs uint64) error {
	sel := ParseSelector(selector)
	_, err := d.page.WaitForSelector(playwrightTarget(sel), playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeoutMs)),
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return notFoundErr(sel)
		}
		return invalidSelectorErr(sel, err)
	}
	return nil
}

func (d *playwrightDriver) AllText(selector, separator string) (string, error) {
	sel := ParseSelector(selector)
	handles, err := d.page.QuerySelectorAll(playwrightTarget(sel))
	if err != nil {
		return "", invalidSelectorErr(sel, err)
	}
	texts := make([]string, 0, len(handles))
	for _, handle := range handles {
		text, err := handle.InnerText()
		if err != nil {
			return "", internalErr("read text from", sel, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, separator), nil
}

func (d *playwrightDriver) Close() error {
	if d.page != nil {
		d.page.Close()
	}
	if d.browser != nil {
		d.browser.Close()
	}
	if d.pw != nil {
		return d.pw.Stop()
	}
	return nil
}
