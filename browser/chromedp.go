package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/hashicorp/go-hclog"
)

// chromedpDriver drives one tab over the DevTools protocol. Element
// operations run under the configured operation timeout; page loads get
// the fixed navigateTimeout bound.
type chromedpDriver struct {
	ctx         context.Context
	ctxCancel   context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	log         hclog.Logger
}

func newChromedp(opts Options) (Driver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	// Launch eagerly so a missing Chrome binary fails here, not on the
	// first task.
	if err := chromedp.Run(ctx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	return &chromedpDriver{
		ctx:         ctx,
		ctxCancel:   ctxCancel,
		allocCancel: allocCancel,
		timeout:     time.Duration(opts.operationTimeout()) * time.Millisecond,
		log:         opts.Logger,
	}, nil
}

func (d *chromedpDriver) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(d.ctx, d.timeout)
}

func queryOne(sel Selector) chromedp.QueryOption {
	if sel.Kind == SelectorXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func queryAll(sel Selector) chromedp.QueryOption {
	if sel.Kind == SelectorXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}

// jsResolveOne renders a JS expression resolving the first match.
func jsResolveOne(sel Selector) string {
	if sel.Kind == SelectorXPath {
		return fmt.Sprintf("document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", sel.Expr)
	}
	return fmt.Sprintf("document.querySelector(%q)", sel.Expr)
}

// find resolves matching nodes without waiting for them to appear.
func (d *chromedpDriver) find(sel Selector) ([]*cdp.Node, *DriverError) {
	ctx, cancel := d.opCtx()
	defer cancel()
	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(sel.Expr, &nodes, queryOne(sel), chromedp.AtLeast(0)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, notFoundErr(sel)
		}
		return nil, invalidSelectorErr(sel, err)
	}
	if len(nodes) == 0 {
		return nil, notFoundErr(sel)
	}
	return nodes, nil
}

func (d *chromedpDriver) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(d.ctx, navigateTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return &DriverError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Failed to navigate to '%s'. Details: %v", url, err),
		}
	}
	return nil
}

func (d *chromedpDriver) URL() (string, error) {
	ctx, cancel := d.opCtx()
	defer cancel()
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", &DriverError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Failed to read the current URL. Details: %v", err),
		}
	}
	return url, nil
}

func (d *chromedpDriver) Click(selector string) error {
	sel := ParseSelector(selector)
	if _, derr := d.find(sel); derr != nil {
		return derr
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Click(sel.Expr, queryOne(sel))); err != nil {
		return internalErr("click", sel, err)
	}
	return nil
}

func (d *chromedpDriver) SetValue(selector, value string) error {
	sel := ParseSelector(selector)
	nodes, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	tag := strings.ToUpper(nodes[0].NodeName)
	if tag != "INPUT" && tag != "TEXTAREA" {
		return notInputErr(sel)
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.SetValue(sel.Expr, value, queryOne(sel))); err != nil {
		return internalErr("type in", sel, err)
	}
	return nil
}

func (d *chromedpDriver) Text(selector string) (string, error) {
	sel := ParseSelector(selector)
	if _, derr := d.find(sel); derr != nil {
		return "", derr
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	var text string
	if err := chromedp.Run(ctx, chromedp.Text(sel.Expr, &text, queryOne(sel))); err != nil {
		return "", internalErr("read text from", sel, err)
	}
	return text, nil
}

func (d *chromedpDriver) Value(selector string) (string, error) {
	sel := ParseSelector(selector)
	nodes, derr := d.find(sel)
	if derr != nil {
		return "", derr
	}
	tag := strings.ToUpper(nodes[0].NodeName)
	if tag != "INPUT" && tag != "TEXTAREA" && tag != "SELECT" {
		return "", notInputErr(sel)
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	var value string
	if err := chromedp.Run(ctx, chromedp.Value(sel.Expr, &value, queryOne(sel))); err != nil {
		return "", internalErr("read value from", sel, err)
	}
	return value, nil
}

func (d *chromedpDriver) Attribute(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	if _, derr := d.find(sel); derr != nil {
		return "", derr
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	var value string
	var ok bool
	err := chromedp.Run(ctx, chromedp.AttributeValue(sel.Expr, name, &value, &ok, queryOne(sel)))
	if err != nil {
		return "", internalErr("read attribute from", sel, err)
	}
	if !ok {
		return "", attrNotFoundErr(sel, name)
	}
	return value, nil
}

func (d *chromedpDriver) SetAttribute(selector, name, value string) error {
	sel := ParseSelector(selector)
	if _, derr := d.find(sel); derr != nil {
		return derr
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.SetAttributeValue(sel.Expr, name, value, queryOne(sel))); err != nil {
		return setAttrErr(sel, name, err)
	}
	return nil
}

func (d *chromedpDriver) SelectOption(selector, value string) error {
	sel := ParseSelector(selector)
	nodes, derr := d.find(sel)
	if derr != nil {
		return derr
	}
	if strings.ToUpper(nodes[0].NodeName) != "SELECT" {
		return notSelectErr(sel)
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.SetValue(sel.Expr, value, queryOne(sel))); err != nil {
		return internalErr("select option in", sel, err)
	}
	return nil
}

func (d *chromedpDriver) AllAttributes(selector, name string) (string, error) {
	sel := ParseSelector(selector)
	ctx, cancel := d.opCtx()
	defer cancel()
	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(sel.Expr, &nodes, queryAll(sel), chromedp.AtLeast(0)))
	if err != nil {
		return "", invalidSelectorErr(sel, err)
	}
	values := make([]*string, 0, len(nodes))
	for _, node := range nodes {
		var match *string
		attrs := node.Attributes
		for i := 0; i+1 < len(attrs); i += 2 {
			if attrs[i] == name {
				v := attrs[i+1]
				match = &v
				break
			}
		}
		values = append(values, match)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", serializationErr(err)
	}
	return string(data), nil
}

func (d *chromedpDriver) Exists(selector string) (bool, error) {
	sel := ParseSelector(selector)
	ctx, cancel := d.opCtx()
	defer cancel()
	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(sel.Expr, &nodes, queryOne(sel), chromedp.AtLeast(0)))
	if err != nil {
		return false, invalidSelectorErr(sel, err)
	}
	return len(nodes) > 0, nil
}

func (d *chromedpDriver) Visible(selector string) (bool, error) {
	sel := ParseSelector(selector)
	script := fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	return style.visibility !== 'hidden' && style.display !== 'none' && rect.width > 0 && rect.height > 0;
})()`, jsResolveOne(sel))
	ctx, cancel := d.opCtx()
	defer cancel()
	var visible bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &visible)); err != nil {
		return false, invalidSelectorErr(sel, err)
	}
	return visible, nil
}

func (d *chromedpDriver) ScrollTo(selector string) error {
	sel := ParseSelector(selector)
	if _, derr := d.find(sel); derr != nil {
		return derr
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.ScrollIntoView(sel.Expr, queryOne(sel))); err != nil {
		return internalErr("scroll to", sel, err)
	}
	return nil
}

func (d *chromedpDriver) Hover(selector string) error {
	sel := ParseSelector(selector)
	script := fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	el.dispatchEvent(new MouseEvent('mouseover', { bubbles: true }));
	el.dispatchEvent(new MouseEvent('mouseenter', { bubbles: false }));
	return true;
})()`, jsResolveOne(sel))
	ctx, cancel := d.opCtx()
	defer cancel()
	var found bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return invalidSelectorErr(sel, err)
	}
	if !found {
		return notFoundErr(sel)
	}
	return nil
}

func (d *chromedpDriver) WaitFor(selector string, timeoutMs uint64) error {
	sel := ParseSelector(selector)
	ctx, cancel := context.WithTimeout(d.ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.WaitVisible(sel.Expr, queryOne(sel))); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return notFoundErr(sel)
		}
		return invalidSelectorErr(sel, err)
	}
	return nil
}

func (d *chromedpDriver) AllText(selector, separator string) (string, error) {
	sel := ParseSelector(selector)
	var script string
	if sel.Kind == SelectorXPath {
		script = fmt.Sprintf(`(() => {
	const out = [];
	const it = document.evaluate(%q, document, null, XPathResult.ORDERED_NODE_ITERATOR_TYPE, null);
	let node;
	while ((node = it.iterateNext())) {
		out.push(node.innerText ?? '');
	}
	return out;
})()`, sel.Expr)
	} else {
		script = fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(el => el.innerText ?? '')`, sel.Expr)
	}
	ctx, cancel := d.opCtx()
	defer cancel()
	var texts []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &texts)); err != nil {
		return "", invalidSelectorErr(sel, err)
	}
	return strings.Join(texts, separator), nil
}

func (d *chromedpDriver) Close() error {
	d.ctxCancel()
	d.allocCancel()
	return nil
}
