package validator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testGrid() [][]int {
	grid := make([][]int, 4)
	for r := range grid {
		grid[r] = make([]int, 4)
	}
	grid[0][0] = 1
	return grid
}

func TestClientValidateBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate" {
			t.Errorf("path = %q, want /validate", r.URL.Path)
		}
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.N != 2 || req.Side != 4 || len(req.Grid) != 4 {
			t.Errorf("request = %+v, want n=2 side=4 4-row grid", req)
		}
		json.NewEncoder(w).Encode(validateResponse{Valid: false})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.ValidateBoard(context.Background(), testGrid(), 2, 4) {
		t.Error("ValidateBoard() = true, server said false")
	}
}

func TestClientCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/candidates" {
			t.Errorf("path = %q, want /candidates", r.URL.Path)
		}
		var req candidatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Row != 1 || req.Col != 2 {
			t.Errorf("request cell = (%d,%d), want (1,2)", req.Row, req.Col)
		}
		json.NewEncoder(w).Encode(candidatesResponse{Candidates: []int{2, 3}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	got := c.Candidates(context.Background(), testGrid(), 1, 2, 2, 4)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Candidates() = %v, want [2 3]", got)
	}
}

func TestClientDegradesOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every request now fails at the transport

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if !c.ValidateBoard(context.Background(), testGrid(), 2, 4) {
		t.Error("ValidateBoard() = false on transport failure, want no objection")
	}
	if got := c.Candidates(context.Background(), testGrid(), 0, 0, 2, 4); got != nil {
		t.Errorf("Candidates() = %v on transport failure, want nil", got)
	}
}

func TestClientDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if !c.ValidateBoard(context.Background(), testGrid(), 2, 4) {
		t.Error("ValidateBoard() = false on 500, want no objection")
	}
	if got := c.Candidates(context.Background(), testGrid(), 0, 0, 2, 4); got != nil {
		t.Errorf("Candidates() = %v on 500, want nil", got)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("://missing-scheme", nil); err == nil {
		t.Error("NewClient accepted a malformed URL")
	}
}

func TestNoop(t *testing.T) {
	var n Noop
	if n.Available() {
		t.Error("Noop.Available() = true")
	}
	if !n.ValidateBoard(context.Background(), testGrid(), 2, 4) {
		t.Error("Noop.ValidateBoard() = false, want no objection")
	}
	if got := n.Candidates(context.Background(), testGrid(), 0, 0, 2, 4); got != nil {
		t.Errorf("Noop.Candidates() = %v, want nil", got)
	}
}
