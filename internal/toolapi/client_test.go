package toolapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "GameDex tool server", "version": "1.0.0"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	info, err := c.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Message != "GameDex tool server" || info.Version != "1.0.0" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]protocol.ToolDescriptor{
			{Name: "list_products", Arguments: []protocol.ArgSpec{}},
			{Name: "calculate", Arguments: []protocol.ArgSpec{
				{Name: "expression", Type: protocol.ArgString, Required: true},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	descs, err := c.Tools(context.Background())
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if len(descs) != 2 || descs[1].Name != "calculate" {
		t.Errorf("unexpected descriptors: %v", descs)
	}
}

func TestTools_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, discardLogger())
	if _, err := c.Tools(context.Background()); err == nil {
		t.Fatal("expected error when server is down")
	}
}

func TestCallTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call_tool" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req protocol.CallToolRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Tool != "calculate" {
			t.Errorf("tool = %q", req.Tool)
		}
		if req.Arguments["expression"] != "2+2" {
			t.Errorf("arguments = %v", req.Arguments)
		}
		json.NewEncoder(w).Encode(protocol.OkResult(4))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	res := c.CallTool(context.Background(), "calculate", map[string]any{"expression": "2+2"})
	if !res.OK {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.Result != 4.0 {
		t.Errorf("result = %v (%T)", res.Result, res.Result)
	}
}

func TestCallTool_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(protocol.ErrResult("tool 'ghost' not found"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	res := c.CallTool(context.Background(), "ghost", nil)
	if res.OK {
		t.Fatal("expected failed envelope")
	}
	if res.Error != "tool 'ghost' not found" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCallTool_ServerDownDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, discardLogger())
	res := c.CallTool(context.Background(), "list_products", nil)
	if res.OK {
		t.Fatal("expected failed envelope when server is down")
	}
	if !strings.HasPrefix(res.Error, "tool server unreachable:") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCallTool_BadStatusDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	res := c.CallTool(context.Background(), "list_products", nil)
	if res.OK {
		t.Fatal("expected failed envelope on bad status")
	}
	if !strings.Contains(res.Error, "status 500") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("level") != "error" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"level":"ERROR","message":"broke"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, discardLogger())
	entries, err := c.Logs(context.Background(), "error", 5)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "broke" {
		t.Errorf("unexpected entries: %v", entries)
	}
}
