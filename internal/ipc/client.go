package ipc

import (
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

const dialTimeout = 2 * time.Second

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:   conn,
		client: rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	if err := c.client.Call("Cardbox."+method, req, resp); err != nil {
		return fmt.Errorf("daemon %s: %w", method, err)
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Record retrieves the current contact record from the daemon.
func (c *Client) Record() (*RecordResponse, error) {
	var resp RecordResponse
	if err := c.call("Record", RecordRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset clears the contact record via the daemon.
func (c *Client) Reset() (*ResetResponse, error) {
	var resp ResetResponse
	if err := c.call("Reset", ResetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
