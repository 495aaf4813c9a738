// Package oxidbtest runs an in-memory oxidb-server for tests.
package oxidbtest

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
)

// Server speaks the length-prefixed JSON protocol and keeps blobs in memory.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	buckets map[string]map[string]object

	connMu sync.Mutex
	conns  []net.Conn
}

type object struct {
	data        string
	size        int
	contentType string
}

// NewServer listens on a loopback port until the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("oxidbtest: listen: %v", err)
	}
	s := &Server{ln: ln, buckets: map[string]map[string]object{}}
	t.Cleanup(func() {
		ln.Close()
		s.DropConns()
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.connMu.Lock()
			s.conns = append(s.conns, conn)
			s.connMu.Unlock()
			go s.serve(conn)
		}
	}()
	return s
}

func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Stall holds every request until the returned func is called.
func (s *Server) Stall() (resume func()) {
	s.mu.Lock()
	var once sync.Once
	return func() { once.Do(s.mu.Unlock) }
}

// DropConns closes every accepted connection, as a server restart would.
func (s *Server) DropConns() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

// Truncate cuts a stored object's content to n bytes while keeping the
// size it was stored with.
func (s *Server) Truncate(bucket, key string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return
	}
	raw, _ := base64.StdEncoding.DecodeString(obj.data)
	if n < len(raw) {
		raw = raw[:n]
	}
	obj.data = base64.StdEncoding.EncodeToString(raw)
	s.buckets[bucket][key] = obj
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			return
		}
		body := make([]byte, binary.LittleEndian.Uint32(lenBuf))
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		out, _ := json.Marshal(s.handle(req))
		frame := make([]byte, 4+len(out))
		binary.LittleEndian.PutUint32(frame, uint32(len(out)))
		copy(frame[4:], out)
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

func (s *Server) handle(req map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, _ := req["bucket"].(string)
	key, _ := req["key"].(string)
	fail := func(msg string) map[string]any { return map[string]any{"ok": false, "error": msg} }

	switch req["cmd"] {
	case "ping":
		return map[string]any{"ok": true, "data": "pong"}
	case "create_bucket":
		if _, ok := s.buckets[bucket]; ok {
			return fail("bucket already exists")
		}
		s.buckets[bucket] = map[string]object{}
		return map[string]any{"ok": true, "data": nil}
	case "put_object":
		b, ok := s.buckets[bucket]
		if !ok {
			return fail("bucket not found")
		}
		data, _ := req["data"].(string)
		ct, _ := req["content_type"].(string)
		raw, _ := base64.StdEncoding.DecodeString(data)
		b[key] = object{data: data, size: len(raw), contentType: ct}
		return map[string]any{"ok": true, "data": map[string]any{"key": key, "size": len(raw), "etag": "e1"}}
	case "head_object":
		obj, ok := s.buckets[bucket][key]
		if !ok {
			return fail("object not found")
		}
		return map[string]any{"ok": true, "data": map[string]any{"key": key, "size": obj.size, "content_type": obj.contentType}}
	case "get_object":
		obj, ok := s.buckets[bucket][key]
		if !ok {
			return fail("object not found")
		}
		return map[string]any{"ok": true, "data": map[string]any{"content": obj.data, "metadata": map[string]any{"content_type": obj.contentType}}}
	case "delete_object":
		if _, ok := s.buckets[bucket][key]; !ok {
			return fail("object not found")
		}
		delete(s.buckets[bucket], key)
		return map[string]any{"ok": true, "data": nil}
	}
	return fail("unknown command")
}
