package plugin

import (
	"encoding/json"
	"fmt"
	"net/rpc"
	"os/exec"
	"strconv"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"pagepilot/browser"
)

// Client owns a driver plugin subprocess and the browser.Driver speaking to
// it. Close tears the page session down and kills the process.
type Client struct {
	client *goplugin.Client
	driver browser.Driver
}

// DefaultBinary is the plugin executable looked up on PATH when no
// plugin_path is configured.
const DefaultBinary = "pagepilot-driver-playwright"

// Load launches the plugin binary at path and dispenses its driver. args
// are passed to the subprocess verbatim; the stock driver binary reads its
// browser settings from them.
func Load(path string, log hclog.Logger, args ...string) (*Client, error) {
	if path == "" {
		path = DefaultBinary
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path, args...),
		Logger:           log.Named("plugin"),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to connect to driver plugin: %w", err)
	}

	raw, err := rpcClient.Dispense("driver")
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense driver plugin: %w", err)
	}

	driver, ok := raw.(browser.Driver)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("driver plugin does not implement the driver interface")
	}

	return &Client{client: client, driver: driver}, nil
}

// Driver returns the page session backed by the plugin process.
func (c *Client) Driver() browser.Driver {
	return c.driver
}

// Close releases the remote page session and kills the subprocess.
func (c *Client) Close() error {
	err := c.driver.Close()
	c.client.Kill()
	return err
}

// driverClient implements browser.Driver over the plugin RPC connection.
type driverClient struct {
	rpc *rpc.Client
}

func (d *driverClient) call(op string, p callPayload) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", &browser.DriverError{
			Code:    browser.CodeSerializationError,
			Message: fmt.Sprintf("Failed to encode payload for op '%s'. Details: %v", op, err),
		}
	}

	var reply CallReply
	if err := d.rpc.Call("Plugin.Call", CallArgs{Op: op, Payload: string(payload)}, &reply); err != nil {
		return "", &browser.DriverError{
			Code:    browser.CodeInternalError,
			Message: fmt.Sprintf("Driver plugin call '%s' failed. Details: %v", op, err),
		}
	}

	if reply.ErrCode != "" {
		return "", &browser.DriverError{
			Code:    browser.Code(reply.ErrCode),
			Message: reply.ErrMessage,
		}
	}
	return reply.Result, nil
}

func (d *driverClient) Navigate(url string) error {
	_, err := d.call(opNavigate, callPayload{URL: url})
	return err
}

func (d *driverClient) URL() (string, error) {
	return d.call(opURL, callPayload{})
}

func (d *driverClient) Click(selector string) error {
	_, err := d.call(opClick, callPayload{Selector: selector})
	return err
}

func (d *driverClient) SetValue(selector, value string) error {
	_, err := d.call(opSetValue, callPayload{Selector: selector, Value: value})
	return err
}

func (d *driverClient) Text(selector string) (string, error) {
	return d.call(opText, callPayload{Selector: selector})
}

func (d *driverClient) Value(selector string) (string, error) {
	return d.call(opValue, callPayload{Selector: selector})
}

func (d *driverClient) Attribute(selector, name string) (string, error) {
	return d.call(opAttribute, callPayload{Selector: selector, Attribute: name})
}

func (d *driverClient) SetAttribute(selector, name, value string) error {
	_, err := d.call(opSetAttribute, callPayload{Selector: selector, Attribute: name, Value: value})
	return err
}

func (d *driverClient) SelectOption(selector, value string) error {
	_, err := d.call(opSelectOption, callPayload{Selector: selector, Value: value})
	return err
}

func (d *driverClient) AllAttributes(selector, name string) (string, error) {
	return d.call(opAllAttributes, callPayload{Selector: selector, Attribute: name})
}

func (d *driverClient) Exists(selector string) (bool, error) {
	result, err := d.call(opExists, callPayload{Selector: selector})
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(result)
}

func (d *driverClient) Visible(selector string) (bool, error) {
	result, err := d.call(opVisible, callPayload{Selector: selector})
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(result)
}

func (d *driverClient) ScrollTo(selector string) error {
	_, err := d.call(opScrollTo, callPayload{Selector: selector})
	return err
}

func (d *driverClient) Hover(selector string) error {
	_, err := d.call(opHover, callPayload{Selector: selector})
	return err
}

func (d *driverClient) WaitFor(selector string, timeoutMs uint64) error {
	_, err := d.call(opWaitFor, callPayload{Selector: selector, TimeoutMs: timeoutMs})
	return err
}

func (d *driverClient) AllText(selector, separator string) (string, error) {
	return d.call(opAllText, callPayload{Selector: selector, Separator: separator})
}

func (d *driverClient) Close() error {
	_, err := d.call(opClose, callPayload{})
	return err
}
