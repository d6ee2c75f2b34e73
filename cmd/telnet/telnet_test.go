package main

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"visopsys.dev/kernel/kernel/syscall"
)

func TestServeCallLogReportsGatewayCalls(t *testing.T) {
	gw := syscall.NewGateway(syscall.NewDefaultTable(syscall.Handlers{
		Version: func() string { return "x" },
	}))
	gw.ProcessCall([]interface{}{1, syscall.FnVersion}, 1)

	rec := httptest.NewRecorder()
	serveCallLog(rec, gw)

	var entries []callLogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].FunctionNumber != syscall.FnVersion {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Err != "" {
		t.Fatalf("unexpected err: %q", entries[0].Err)
	}
}
