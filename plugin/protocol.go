package plugin

import (
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"

	"pagepilot/browser"
)

// Handshake guards against launching an incompatible binary: the plugin
// process must present the same cookie before any RPC happens.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PAGEPILOT_PLUGIN",
	MagicCookieValue: "e6c7e9f2b8a14d3f9c5d2a7b4e1f8c06",
}

// PluginMap is the map of plugins we can dispense.
var PluginMap = map[string]goplugin.Plugin{
	"driver": &DriverPlugin{},
}

// Driver operation names on the wire. One op per browser.Driver method.
const (
	opNavigate      = "navigate"
	opURL           = "url"
	opClick         = "click"
	opSetValue      = "set_value"
	opText          = "text"
	opValue         = "value"
	opAttribute     = "attribute"
	opSetAttribute  = "set_attribute"
	opSelectOption  = "select_option"
	opAllAttributes = "all_attributes"
	opExists        = "exists"
	opVisible       = "visible"
	opScrollTo      = "scroll_to"
	opHover         = "hover"
	opWaitFor       = "wait_for"
	opAllText       = "all_text"
	opClose         = "close"
)

// CallArgs is one driver operation request. Payload is the JSON-encoded
// callPayload for ops that take arguments.
type CallArgs struct {
	Op      string
	Payload string
}

// CallReply carries the result or a flattened driver error. net/rpc turns
// returned errors into bare strings, so the code travels in the reply and
// the client rebuilds the typed error.
type CallReply struct {
	Result     string
	ErrCode    string
	ErrMessage string
}

type callPayload struct {
	URL       string `json:"url,omitempty"`
	Selector  string `json:"selector,omitempty"`
	Value     string `json:"value,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	TimeoutMs uint64 `json:"timeout_ms,omitempty"`
	Separator string `json:"separator"`
}

// DriverPlugin is the go-plugin adapter dispensing a browser.Driver over
// net/rpc. Impl is only set on the serving side.
type DriverPlugin struct {
	Impl browser.Driver
}

func (p *DriverPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &driverServer{impl: p.Impl}, nil
}

func (p *DriverPlugin) Client(_ *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &driverClient{rpc: c}, nil
}
