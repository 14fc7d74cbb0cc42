package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/gridpicks/internal/deadline"
	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/services"
)

// fakeDeadlines returns whatever race is set, or not found
type fakeDeadlines struct {
	mu   sync.Mutex
	next *services.RaceWithDeadline
}

func (f *fakeDeadlines) NextDeadline(ctx context.Context, season int) (*services.RaceWithDeadline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		return nil, errors.NotFound("no open prediction deadline")
	}
	return f.next, nil
}

func (f *fakeDeadlines) set(id string, round int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		f.next = nil
		return
	}
	fp1 := time.Date(2025, 3, 14, 1, 45, 0, 0, time.UTC)
	f.next = &services.RaceWithDeadline{
		Race:     models.Race{ID: id, Name: "Round " + id, RoundNumber: round, FP1At: fp1},
		Deadline: deadline.StatusAt(fp1, fp1.Add(-90*time.Minute)),
	}
}

func testLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Output: io.Discard})
}

func newTestHub(t *testing.T) (*Hub, *fakeDeadlines) {
	t.Helper()
	deadlines := &fakeDeadlines{}
	hub := New(testLogger(), deadlines, 2025)
	hub.Start()
	return hub, deadlines
}

// attach registers a connectionless client and returns its queue
func attach(hub *Hub) chan models.WSMessage {
	c := &Client{hub: hub, send: make(chan models.WSMessage, 16)}
	hub.register <- c
	return c.send
}

func receive(t *testing.T, ch chan models.WSMessage) models.WSMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return models.WSMessage{}
	}
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) models.WSMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	return msg
}

func TestHub_GreetsNewClientWithDeadline(t *testing.T) {
	hub, deadlines := newTestHub(t)
	deadlines.set("r1", 1)

	ws := dial(t, hub)
	msg := readMessage(t, ws)
	if msg.Type != TypeDeadline {
		t.Fatalf("expected deadline greeting, got %s", msg.Type)
	}
	payload := msg.Payload.(map[string]interface{})
	if payload["race_id"] != "r1" {
		t.Errorf("expected race r1, got %v", payload["race_id"])
	}
	status := payload["deadline"].(map[string]interface{})
	if status["label"] != "1h 30m" || status["passed"] != false {
		t.Errorf("unexpected deadline status: %v", status)
	}
}

func TestHub_BroadcastsScoreUpdates(t *testing.T) {
	hub, _ := newTestHub(t)
	ws := dial(t, hub)

	// No open deadline, so no greeting is sent
	for hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastScoresUpdated("r7")
	msg := readMessage(t, ws)
	if msg.Type != TypeScoresUpdated {
		t.Fatalf("expected scores_updated, got %s", msg.Type)
	}
	if msg.Payload.(map[string]interface{})["race_id"] != "r7" {
		t.Errorf("unexpected payload: %v", msg.Payload)
	}

	hub.BroadcastChampionshipUpdated(2025)
	msg = readMessage(t, ws)
	if msg.Type != TypeChampionshipUpdated || msg.Payload.(map[string]interface{})["season"] != float64(2025) {
		t.Errorf("unexpected championship message: %+v", msg)
	}
}

func TestHub_MultipleClients(t *testing.T) {
	hub, _ := newTestHub(t)

	conns := []*websocket.Conn{dial(t, hub), dial(t, hub), dial(t, hub)}
	for hub.ClientCount() < len(conns) {
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastScoresUpdated("r1")
	for i, ws := range conns {
		if msg := readMessage(t, ws); msg.Type != TypeScoresUpdated {
			t.Errorf("client %d got wrong type: %s", i+1, msg.Type)
		}
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, _ := newTestHub(t)
	ws := dial(t, hub)
	for hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	ws.Close()
	time.Sleep(200 * time.Millisecond)

	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", n)
	}
}

func TestHub_UnregisterSendsClose(t *testing.T) {
	hub, _ := newTestHub(t)
	ws := dial(t, hub)
	for hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	closed := make(chan struct{}, 1)
	ws.SetCloseHandler(func(code int, text string) error {
		closed <- struct{}{}
		return nil
	})
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hub.mutex.RLock()
	var client *Client
	for c := range hub.clients {
		client = c
	}
	hub.mutex.RUnlock()
	hub.unregister <- client

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Error("expected close message from server")
	}
}

func TestServeWs_UpgradeError(t *testing.T) {
	hub, _ := newTestHub(t)

	req := httptest.NewRequest("GET", "/ws", nil)
	rr := httptest.NewRecorder()
	hub.ServeWs(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for plain HTTP request, got %d", rr.Code)
	}
	if hub.ClientCount() != 0 {
		t.Error("failed upgrade must not register a client")
	}
}

func TestCheckDeadline_AnnouncesLock(t *testing.T) {
	hub, deadlines := newTestHub(t)
	ch := attach(hub)
	ctx := context.Background()

	// let the empty greeting lookup finish before a deadline exists
	time.Sleep(50 * time.Millisecond)

	deadlines.set("r1", 1)
	hub.checkDeadline(ctx)
	if msg := receive(t, ch); msg.Type != TypeDeadline {
		t.Fatalf("expected deadline, got %s", msg.Type)
	}

	// Round 1 FP1 passes and round 2 becomes the next deadline
	deadlines.set("r2", 2)
	hub.checkDeadline(ctx)
	msg := receive(t, ch)
	if msg.Type != TypePredictionsLocked || msg.Payload.(map[string]interface{})["race_id"] != "r1" {
		t.Fatalf("expected r1 locked, got %+v", msg)
	}
	msg = receive(t, ch)
	if msg.Type != TypeDeadline || msg.Payload.(*DeadlinePayload).RaceID != "r2" {
		t.Fatalf("expected r2 countdown, got %+v", msg)
	}

	// Season over
	deadlines.set("", 0)
	hub.checkDeadline(ctx)
	msg = receive(t, ch)
	if msg.Type != TypePredictionsLocked || msg.Payload.(map[string]interface{})["race_id"] != "r2" {
		t.Fatalf("expected r2 locked, got %+v", msg)
	}

	hub.checkDeadline(ctx)
	select {
	case msg := <-ch:
		t.Errorf("expected no message with no open deadline, got %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartDeadlineCountdown_StopsOnCancel(t *testing.T) {
	hub, deadlines := newTestHub(t)
	deadlines.set("r1", 1)
	ch := attach(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.StartDeadlineCountdown(ctx, 10*time.Millisecond)
		close(done)
	}()

	// greeting plus at least one tick
	receive(t, ch)
	if msg := receive(t, ch); msg.Type != TypeDeadline {
		t.Errorf("expected countdown tick, got %s", msg.Type)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop after cancel")
	}
}

func TestHub_ImplementsBroadcaster(t *testing.T) {
	var _ services.Broadcaster = New(testLogger(), &fakeDeadlines{}, 2025)
}

func TestHub_SendToDepartedClientIsDropped(t *testing.T) {
	hub, _ := newTestHub(t)
	c := &Client{hub: hub, send: make(chan models.WSMessage, 1)}
	hub.register <- c
	hub.unregister <- c
	for hub.ClientCount() != 0 {
		time.Sleep(10 * time.Millisecond)
	}

	// must not panic on the closed queue
	hub.sendTo(c, models.WSMessage{Type: TypeDeadline})

	if _, open := <-c.send; open {
		t.Error("expected closed queue with nothing delivered")
	}
}

func TestHub_SendToFullQueueDoesNotBlock(t *testing.T) {
	hub, _ := newTestHub(t)
	c := &Client{hub: hub, send: make(chan models.WSMessage, 1)}
	hub.register <- c
	for hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	hub.sendTo(c, models.WSMessage{Type: TypeScoresUpdated})
	hub.sendTo(c, models.WSMessage{Type: TypeChampionshipUpdated})

	if msg := receive(t, c.send); msg.Type != TypeScoresUpdated {
		t.Errorf("expected first message kept, got %s", msg.Type)
	}
}
