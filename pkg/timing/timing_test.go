package timing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abrezinsky/gridpicks/internal/logger"
)

func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Output: io.Discard})
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected FlexInt
		wantErr  bool
	}{
		{`93`, 93, false},
		{`"89"`, 89, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		var f FlexInt
		err := json.Unmarshal([]byte(tt.input), &f)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.input, err)
		}
		if f != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.input, tt.expected, f)
		}
	}
}

func TestClassified_FiltersAndSorts(t *testing.T) {
	entries := []Entry{
		{Position: 2, RiderNumber: 89},
		{Position: 0, RiderNumber: 5, Status: "DNF"},
		{Position: 1, RiderNumber: 93, Status: "finished"},
		{Position: 3, RiderNumber: 1, Status: "DSQ"},
		{Position: 3, RiderNumber: 72, Status: "Classified"},
	}

	got := Classified(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 classified entries, got %d", len(got))
	}
	want := []FlexInt{93, 89, 72}
	for i, e := range got {
		if e.RiderNumber != want[i] {
			t.Errorf("position %d: expected #%d, got #%d", i+1, want[i], e.RiderNumber)
		}
	}
}

func TestHTTPClient_FetchClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seasons/2025/rounds/3/sprint/classification" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Write([]byte(`{"entries":[
			{"position":2,"rider_number":"89"},
			{"position":1,"rider_number":93},
			{"position":0,"rider_number":12,"status":"DNF"}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(100, quietLogger())
	client.SetToken("secret")

	entries, err := client.FetchClassification(context.Background(), server.URL+"/",
		Session{Season: 2025, Round: 3, Type: "sprint"})
	if err != nil {
		t.Fatalf("FetchClassification failed: %v", err)
	}
	if len(entries) != 2 || entries[0].RiderNumber != 93 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestHTTPClient_FetchRiders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seasons/2025/riders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(RiderListResponse{Riders: []Rider{{Number: 93, Name: "Marquez", Team: "Ducati"}}})
	}))
	defer server.Close()

	client := NewHTTPClient(100, quietLogger())
	riders, err := client.FetchRiders(context.Background(), server.URL, 2025)
	if err != nil {
		t.Fatalf("FetchRiders failed: %v", err)
	}
	if len(riders) != 1 || riders[0].Name != "Marquez" {
		t.Errorf("unexpected riders: %+v", riders)
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(100, quietLogger())
	if _, err := client.FetchRiders(context.Background(), server.URL, 2025); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestHTTPClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(100, quietLogger())
	_, err := client.FetchClassification(context.Background(), server.URL, Session{Season: 2025, Round: 1, Type: "race"})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestHTTPClient_ConnectionError(t *testing.T) {
	client := NewHTTPClient(100, quietLogger())
	_, err := client.FetchRiders(context.Background(), "http://127.0.0.1:1", 2025)
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestHTTPClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"riders":[]}`))
	}))
	defer server.Close()

	// one request per minute: the first call uses the burst, the second must wait
	client := NewHTTPClient(1.0/60, quietLogger())
	if _, err := client.FetchRiders(context.Background(), server.URL, 2025); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.FetchRiders(ctx, server.URL, 2025); err == nil {
		t.Fatal("expected rate limit wait to fail on context deadline")
	}
}

func TestMockClient(t *testing.T) {
	s := Session{Season: 2025, Round: 1, Type: "race"}
	m := NewMockClient(
		WithClassification(s, []Entry{{Position: 2, RiderNumber: 2}, {Position: 1, RiderNumber: 1}}),
		WithRiders([]Rider{{Number: 1, Name: "A"}}),
	)

	entries, err := m.FetchClassification(context.Background(), "http://feed", s)
	if err != nil || len(entries) != 2 || entries[0].RiderNumber != 1 {
		t.Errorf("unexpected classification: %+v %v", entries, err)
	}
	riders, _ := m.FetchRiders(context.Background(), "http://feed", 2025)
	if len(riders) != 1 {
		t.Errorf("expected 1 rider, got %d", len(riders))
	}
	if len(m.Calls()) != 2 {
		t.Errorf("expected 2 calls recorded, got %v", m.Calls())
	}

	failing := NewMockClient(WithClassificationError(errors.New("down")), WithRidersError(errors.New("down")))
	if _, err := failing.FetchClassification(context.Background(), "", s); err == nil {
		t.Error("expected classification error")
	}
	if _, err := failing.FetchRiders(context.Background(), "", 2025); err == nil {
		t.Error("expected riders error")
	}
}
