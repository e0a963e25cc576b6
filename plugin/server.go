package plugin

import (
	"encoding/json"
	"fmt"
	"strconv"

	goplugin "github.com/hashicorp/go-plugin"

	"pagepilot/browser"
)

// Serve runs a driver plugin process. It blocks until the host kills the
// process; the driver is closed on the way out.
func Serve(driver browser.Driver) {
	defer driver.Close()
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]goplugin.Plugin{
			"driver": &DriverPlugin{Impl: driver},
		},
	})
}

// driverServer is the net/rpc receiver wrapping the real driver inside the
// plugin process.
type driverServer struct {
	impl browser.Driver
}

func (s *driverServer) Call(args CallArgs, reply *CallReply) error {
	var p callPayload
	if args.Payload != "" {
		if err := json.Unmarshal([]byte(args.Payload), &p); err != nil {
			reply.ErrCode = string(browser.CodeInternalError)
			reply.ErrMessage = fmt.Sprintf("Failed to decode payload for op '%s'. Details: %v", args.Op, err)
			return nil
		}
	}

	var result string
	var err error

	switch args.Op {
	case opNavigate:
		err = s.impl.Navigate(p.URL)
	case opURL:
		result, err = s.impl.URL()
	case opClick:
		err = s.impl.Click(p.Selector)
	case opSetValue:
		err = s.impl.SetValue(p.Selector, p.Value)
	case opText:
		result, err = s.impl.Text(p.Selector)
	case opValue:
		result, err = s.impl.Value(p.Selector)
	case opAttribute:
		result, err = s.impl.Attribute(p.Selector, p.Attribute)
	case opSetAttribute:
		err = s.impl.SetAttribute(p.Selector, p.Attribute, p.Value)
	case opSelectOption:
		err = s.impl.SelectOption(p.Selector, p.Value)
	case opAllAttributes:
		result, err = s.impl.AllAttributes(p.Selector, p.Attribute)
	case opExists:
		var exists bool
		exists, err = s.impl.Exists(p.Selector)
		result = strconv.FormatBool(exists)
	case opVisible:
		var visible bool
		visible, err = s.impl.Visible(p.Selector)
		result = strconv.FormatBool(visible)
	case opScrollTo:
		err = s.impl.ScrollTo(p.Selector)
	case opHover:
		err = s.impl.Hover(p.Selector)
	case opWaitFor:
		err = s.impl.WaitFor(p.Selector, p.TimeoutMs)
	case opAllText:
		result, err = s.impl.AllText(p.Selector, p.Separator)
	case opClose:
		err = s.impl.Close()
	default:
		reply.ErrCode = string(browser.CodeInternalError)
		reply.ErrMessage = fmt.Sprintf("Unknown driver op '%s'", args.Op)
		return nil
	}

	if err != nil {
		if derr, ok := browser.AsDriverError(err); ok {
			reply.ErrCode = string(derr.Code)
			reply.ErrMessage = derr.Message
		} else {
			reply.ErrCode = string(browser.CodeInternalError)
			reply.ErrMessage = err.Error()
		}
		return nil
	}

	reply.Result = result
	return nil
}
