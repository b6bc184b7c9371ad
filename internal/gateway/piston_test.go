package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPistonSuccessReturnsRunOutput(t *testing.T) {
	var gotReq pistonRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"run":{"output":"5"}}`))
	}))
	defer srv.Close()

	e := NewPistonEngine(srv.URL, srv.Client())
	res := e.Execute(context.Background(), "python", "print(5)")

	if !res.OK() {
		t.Fatalf("expected success, got %q", res.Reason())
	}
	if res.Legacy() != "5" {
		t.Fatalf("expected output %q, got %q", "5", res.Legacy())
	}
	if gotReq.Language != "python" || gotReq.Version != "*" {
		t.Fatalf("unexpected request fields: %+v", gotReq)
	}
	if len(gotReq.Files) != 1 || gotReq.Files[0].Content != "print(5)" {
		t.Fatalf("unexpected files payload: %+v", gotReq.Files)
	}
}

func TestPistonNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewPistonEngine(srv.URL, srv.Client())
	res := e.Execute(context.Background(), "python", "print(5)")

	if res.OK() {
		t.Fatal("expected failure")
	}
	out := res.Legacy()
	if !strings.Contains(out, "Error") || !strings.Contains(out, "500") {
		t.Fatalf("expected error string with status, got %q", out)
	}
}

func TestPistonNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	e := NewPistonEngine(srv.URL, &http.Client{Timeout: time.Second})
	res := e.Execute(context.Background(), "python", "print(5)")

	if res.OK() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Legacy(), "Execution failed") {
		t.Fatalf("expected transport failure marker, got %q", res.Legacy())
	}
}

func TestPistonMissingRunField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"language":"python"}`))
	}))
	defer srv.Close()

	e := NewPistonEngine(srv.URL, srv.Client())
	res := e.Execute(context.Background(), "python", "print(5)")

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Legacy() != "Error executing code: No output returned" {
		t.Fatalf("got %q", res.Legacy())
	}
}

func TestResultLegacy(t *testing.T) {
	if got := Ok("hello\n").Legacy(); got != "hello\n" {
		t.Fatalf("Ok legacy = %q", got)
	}
	if got := Err("Error: nope").Legacy(); got != "Error: nope" {
		t.Fatalf("Err legacy = %q", got)
	}
	if Ok("x").Reason() != "" || Err("y").Output() != "" {
		t.Fatal("cross-field leakage between Ok and Err")
	}
}
