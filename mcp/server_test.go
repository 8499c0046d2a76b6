package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// A malformed frame must not take the loop down or starve the frames
// behind it.
func TestServeSkipsMalformedFrames(t *testing.T) {
	srv := &MCPServer{DefaultTimeout: time.Second}
	srv.initTools()

	in := strings.NewReader("{not json}\n" +
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	if err := srv.Serve(in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 response, got %d: %q", len(lines), out.String())
	}
	var resp rpcResp
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if _, ok := resp.Result["tools"]; !ok {
		t.Fatalf("expected tools in result, got %v", resp.Result)
	}
}

func TestServeUnknownMethod(t *testing.T) {
	srv := &MCPServer{DefaultTimeout: time.Second}
	srv.initTools()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"nope"}` + "\n")
	var out bytes.Buffer

	if err := srv.Serve(in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var resp rpcResp
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "unknown method") {
		t.Fatalf("expected unknown-method error, got %+v", resp)
	}
}
