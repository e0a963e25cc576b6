package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/hashicorp/go-hclog"
)

// rodDriver drives one page through rod's DevTools client.
type rodDriver struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	log     hclog.Logger
}

func newRod(opts Options) (Driver, error) {
	u, err := launcher.New().Headless(opts.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return &rodDriver{
		browser: b,
		page:    page,
		timeout: time.Duration(opts.operationTimeout()) * time.Millisecond,
		log:     opts.Logger,
	}, nil
}

// find resolves the first match without waiting for it to appear.
func (d *rodDriver) find(sel Selector) (*rod.Element, *DriverError) {
	var (
		found bool
		el    *rod.Element
		err   error
	)
	if sel.Kind == SelectorXPath {
		found, el, err = d.page.HasX(sel.Expr)
	} else {
		found, el, err = d.page.Has(sel.Expr)
	}
	if err != nil {
		return nil, invalidSelectorErr(sel, err)
	}
	if !found {
		return nil, notFoundErr(sel)
	}
	return el, nil
}

func (d *rodDriver) findAll(sel Selector) (rod.Elements, *DriverError) {
	var (
		els rod.Elements
		err error
	)
	if sel.Kind == SelectorXPath {
		els, err = d.page.ElementsX(sel.Expr)
	} else {
		els, err = d.page.Elements(sel.Expr)
	}
	if err != nil {
		return nil, invalidSelectorErr(sel, err)
	}
	return els, nil
}

func (d *rodDriver) Navigate(url string) error {
	p := d.page.Timeout(navigateTimeout)
	err := p.Navigate(url)
	if err == nil {
		err = p.WaitLoad()
	}
	if err != nil {
		return &DriverError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Failed to navigate to '%s'. Details: %v", url, err),
		}
	}
	return nil
}

func (d *rodDriver) URL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", &DriverError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Failed to read the current URL. Details: %v", err),
		}
	}
	return info.URL, nil
}

func (d *rodDriver) Click(selector string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return internalErr("click", sel, err)
	}
	return nil
}

func (d *rodDriver) SetValue(selector, value string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	res, err := el.Eval(`() => this instanceof HTMLInputElement || this instanceof HTMLTextAreaElement`)
	if err != nil {
		return internalErr("type in", sel, err)
	}
	if !res.Value.Bool() {
		return notInputErr(sel)
	}
	_, err = el.Eval(`(v) => {
	this.value = v;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`, value)
	if err != nil {
		return internalErr("type in", sel, err)
	}
	return nil
}

func (d *rodDriver) Text(selector string) (string, error) {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	text, err := el.Text()
	if err != nil {
		return "", internalErr("read text from", sel, err)
	}
	return text, nil
}

func (d *rodDriver) Value(selector string) (string, error) {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	res, err := el.Eval(`() => {
	if (this instanceof HTMLInputElement || this instanceof HTMLTextAreaElement || this instanceof HTMLSelectElement) {
		return this.value;
	}
	return null;
}`)
	if err != nil {
		return "", internalErr("read value from", sel, err)
	}
	if res.Value.Nil() {
		return "", notInputErr(sel)
	}
	return res.Value.Str(), nil
}

func (d *rodDriver) Attribute(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	v, err := el.Attribute(name)
	if err != nil {
		return "", internalErr("read attribute from", sel, err)
	}
	if v == nil {
		return "", attrNotFoundErr(sel, name)
	}
	return *v, nil
}

func (d *rodDriver) SetAttribute(selector, name, value string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if _, err := el.Eval(`(n, v) => this.setAttribute(n, v)`, name, value); err != nil {
		return setAttrErr(sel, name, err)
	}
	return nil
}

func (d *rodDriver) SelectOption(selector, value string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	res, err := el.Eval(`() => this instanceof HTMLSelectElement`)
	if err != nil {
		return internalErr("select option in", sel, err)
	}
	if !res.Value.Bool() {
		return notSelectErr(sel)
	}
	_, err = el.Eval(`(v) => {
	this.value = v;
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`, value)
	if err != nil {
		return internalErr("select option in", sel, err)
	}
	return nil
}

func (d *rodDriver) AllAttributes(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	els, derr := d.findAll(sel)
	if derr != nil {
		return "", derr
	}
	values := make([]*string, 0, len(els))
	for _, el := range els {
		v, err := el.Attribute(name)
		if err != nil {
			return "", internalErr("read attribute from", sel, err)
		}
		values = append(values, v)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", serializationErr(err)
	}
	return string(data), nil
}

func (d *rodDriver) Exists(selector string) (bool, error) {
	sel := ParseSelector(selector)
	var (
		found bool
		err   error
	)
	if sel.Kind == SelectorXPath {
		found, _, err = d.page.HasX(sel.Expr)
	} else {
		found, _, err = d.page.Has(sel.Expr)
	}
	if err != nil {
		return false, invalidSelectorErr(sel, err)
	}
	return found, nil
}

func (d *rodDriver) Visible(selector string) (bool, error) {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		if derr.Code == CodeElementNotFound {
			return false, nil
		}
		return false, derr
	}
	visible, err := el.Visible()
	if err != nil {
		return false, internalErr("check visibility of", sel, err)
	}
	return visible, nil
}

func (d *rodDriver) ScrollTo(selector string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if err := el.ScrollIntoView(); err != nil {
		return internalErr("scroll to", sel, err)
	}
	return nil
}

func (d *rodDriver) Hover(selector string) error {
	sel := ParseSelector(selector)
	el, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if err := el.Hover(); err != nil {
		return internalErr("hover over", sel, err)
	}
	return nil
}

func (d *rodDriver) WaitFor(selector string, timeoutMs uint64) error {
	sel := ParseSelector(selector)
	p := d.page.Timeout(time.Duration(timeoutMs) * time.Millisecond)
	var (
		el  *rod.Element
		err error
	)
	if sel.Kind == SelectorXPath {
		el, err = p.ElementX(sel.Expr)
	} else {
		el, err = p.Element(sel.Expr)
	}
	if err == nil {
		err = el.WaitVisible()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return notFoundErr(sel)
		}
		return invalidSelectorErr(sel, err)
	}
	return nil
}

func (d *rodDriver) AllText(selector, separator string) (string, error) {
	sel := ParseSelector(selector)
	els, derr := d.findAll(sel)
	if derr != nil {
		return "", derr
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return "", internalErr("read text from", sel, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, separator), nil
}

func (d *rodDriver) Close() error {
	if d.page != nil {
		d.page.Close()
	}
	if d.browser != nil {
		return d.browser.Close()
	}
	return nil
}
