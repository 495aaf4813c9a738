// Package oxidb is a TCP client for oxidb-server, trimmed to the blob
// storage commands the portal uses for attachments.
//
// Protocol: each message is [4-byte little-endian length][JSON payload].
// Server responds with {"ok": true, "data": ...} or {"ok": false, "error": "..."}.
package oxidb

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// maxFrame bounds a single response; attachments are capped well below it.
const maxFrame = 64 << 20

// ErrBroken is returned by every call on a client whose connection was
// abandoned mid-exchange.
var ErrBroken = errors.New("oxidb: connection broken")

// Client is a TCP client for oxidb-server. Safe for concurrent use; requests
// are serialized on the single connection.
type Client struct {
	conn   net.Conn
	mu     sync.Mutex
	broken atomic.Bool
}

// Connect creates a new client connected to oxidb-server.
func Connect(ctx context.Context, host string, port int) (*Client, error) {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("oxidb: connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Broken reports whether an earlier exchange failed part way. A broken
// client never sends again; the pool replaces it.
func (c *Client) Broken() bool {
	return c.broken.Load()
}

// abandon drops the connection so a late reply can never be read as the
// answer to a later request.
func (c *Client) abandon() {
	if c.broken.CompareAndSwap(false, true) {
		c.conn.Close()
	}
}

func (c *Client) sendRaw(data []byte) error {
	frame := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[4:], data)
	_, err := c.conn.Write(frame)
	return err
}

func (c *Client) recvRaw() ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(c.conn, lenBuf); err != nil {
		return nil, fmt.Errorf("oxidb: read length: %w", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf)
	if length > maxFrame {
		return nil, fmt.Errorf("oxidb: frame of %d bytes exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("oxidb: read payload: %w", err)
	}
	return payload, nil
}

type response struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// call runs one request/response exchange. The context deadline, if any,
// bounds the whole exchange. Any transport failure, including the deadline,
// leaves the client broken.
func (c *Client) call(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("oxidb: marshal request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Broken() {
		return nil, ErrBroken
	}

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.abandon()
		return nil, fmt.Errorf("oxidb: set deadline: %w", err)
	}
	if err := c.sendRaw(body); err != nil {
		c.abandon()
		return nil, fmt.Errorf("oxidb: send: %w", err)
	}
	raw, err := c.recvRaw()
	if err != nil {
		c.abandon()
		return nil, err
	}
	_ = c.conn.SetDeadline(time.Time{})

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("oxidb: unmarshal response: %w", err)
	}
	if !resp.OK {
		return nil, newServerError(resp.Error)
	}
	return resp.Data, nil
}

// Ping sends a ping to the server. Returns "pong".
func (c *Client) Ping(ctx context.Context) (string, error) {
	data, err := c.call(ctx, map[string]any{"cmd": "ping"})
	if err != nil {
		return "", err
	}
	var s string
	_ = json.Unmarshal(data, &s)
	return s, nil
}

// CreateBucket creates a blob storage bucket. An existing bucket is not an error.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	_, err := c.call(ctx, map[string]any{"cmd": "create_bucket", "bucket": bucket})
	if IsAlreadyExists(err) {
		return nil
	}
	return err
}

// ObjectInfo is what the server reports about a stored object.
type ObjectInfo struct {
	Key         string            `json:"key"`
	Size        int64             `json:"size"`
	ContentType string            `json:"content_type"`
	ETag        string            `json:"etag,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// PutObject uploads a blob object. Data is base64-encoded on the wire.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) (*ObjectInfo, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	payload := map[string]any{
		"cmd":          "put_object",
		"bucket":       bucket,
		"key":          key,
		"data":         base64.StdEncoding.EncodeToString(data),
		"content_type": contentType,
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}
	raw, err := c.call(ctx, payload)
	if err != nil {
		return nil, err
	}
	info := &ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType}
	_ = json.Unmarshal(raw, info)
	return info, nil
}

// GetObject downloads a blob object and returns its content and metadata.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, map[string]any, error) {
	raw, err := c.call(ctx, map[string]any{"cmd": "get_object", "bucket": bucket, "key": key})
	if err != nil {
		return nil, nil, err
	}
	var body struct {
		Content  string         `json:"content"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, nil, fmt.Errorf("oxidb: decode object: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("oxidb: decode base64: %w", err)
	}
	return decoded, body.Metadata, nil
}

// HeadObject gets blob object metadata without downloading content.
func (c *Client) HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	raw, err := c.call(ctx, map[string]any{"cmd": "head_object", "bucket": bucket, "key": key})
	if err != nil {
		return nil, err
	}
	info := &ObjectInfo{Key: key}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, fmt.Errorf("oxidb: decode head: %w", err)
	}
	return info, nil
}

// DeleteObject deletes a blob object.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.call(ctx, map[string]any{"cmd": "delete_object", "bucket": bucket, "key": key})
	return err
}
