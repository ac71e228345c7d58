package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a CDP JSON-RPC connection to one page target.
//
// Calls are serialized: one in-flight command at a time, with protocol events
// interleaved on the wire skipped until the matching response id arrives.
// That is all the automation driver needs; it never subscribes to events.
type Conn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	nextID int64
}

type request struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type response struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	Method string          `json:"method"` // set on events, which carry no id
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Dial connects to a page target's websocket debugger URL.
func Dial(ctx context.Context, wsURL string) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to page: %w", err)
	}
	return &Conn{ws: ws, nextID: 1}, nil
}

// Close closes the websocket. The page and browser stay open.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// Call invokes a CDP method and decodes its result into out (which may be nil).
func (c *Conn) Call(ctx context.Context, method string, params, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	if deadline, ok := ctx.Deadline(); ok {
		c.ws.SetWriteDeadline(deadline)
		c.ws.SetReadDeadline(deadline)
	} else {
		c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		c.ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	}

	if err := c.ws.WriteJSON(request{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("cdp write %s: %w", method, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var resp response
		if err := c.ws.ReadJSON(&resp); err != nil {
			return fmt.Errorf("cdp read %s: %w", method, err)
		}
		if resp.ID != id {
			// Event or stale response; keep reading.
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("cdp %s failed: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("cdp decode %s result: %w", method, err)
			}
		}
		return nil
	}
}

// evaluateResult is the Runtime.evaluate response envelope.
type evaluateResult struct {
	Result struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"result"`
	ExceptionDetails *struct {
		Text string `json:"text"`
	} `json:"exceptionDetails"`
}

// Evaluate runs a JavaScript expression in the page and returns its
// JSON-serialized value.
func (c *Conn) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	params := map[string]any{
		"expression":    expression,
		"returnByValue": true,
		"awaitPromise":  true,
	}

	var result evaluateResult
	if err := c.Call(ctx, "Runtime.evaluate", params, &result); err != nil {
		return nil, err
	}
	if result.ExceptionDetails != nil {
		return nil, fmt.Errorf("page script threw: %s", result.ExceptionDetails.Text)
	}
	return result.Result.Value, nil
}

// EvaluateString evaluates an expression expected to yield a string.
func (c *Conn) EvaluateString(ctx context.Context, expression string) (string, error) {
	raw, err := c.Evaluate(ctx, expression)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string result: %w", err)
	}
	return s, nil
}

// EvaluateBool evaluates an expression expected to yield a boolean.
func (c *Conn) EvaluateBool(ctx context.Context, expression string) (bool, error) {
	raw, err := c.Evaluate(ctx, expression)
	if err != nil {
		return false, err
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("expected boolean result: %w", err)
	}
	return b, nil
}

// EvaluateInt evaluates an expression expected to yield a number.
func (c *Conn) EvaluateInt(ctx context.Context, expression string) (int, error) {
	raw, err := c.Evaluate(ctx, expression)
	if err != nil {
		return 0, err
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("expected numeric result: %w", err)
	}
	return int(n), nil
}

// Navigate points the page at a URL.
func (c *Conn) Navigate(ctx context.Context, url string) error {
	return c.Call(ctx, "Page.navigate", map[string]any{"url": url}, nil)
}

// SetFileInput attaches local files to the first DOM node matching selector
// using DOM.setFileInputFiles, the CDP-native path that bypasses the
// browser's file chooser dialog.
func (c *Conn) SetFileInput(ctx context.Context, selector string, files []string) error {
	var doc struct {
		Root struct {
			NodeID int `json:"nodeId"`
		} `json:"root"`
	}
	if err := c.Call(ctx, "DOM.getDocument", map[string]any{"depth": 0}, &doc); err != nil {
		return err
	}

	var node struct {
		NodeID int `json:"nodeId"`
	}
	params := map[string]any{"nodeId": doc.Root.NodeID, "selector": selector}
	if err := c.Call(ctx, "DOM.querySelector", params, &node); err != nil {
		return err
	}
	if node.NodeID == 0 {
		return fmt.Errorf("no node matches selector %q", selector)
	}

	return c.Call(ctx, "DOM.setFileInputFiles", map[string]any{
		"files":  files,
		"nodeId": node.NodeID,
	}, nil)
}
