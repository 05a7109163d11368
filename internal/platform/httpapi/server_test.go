package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *httptest.Server {
	t.Helper()
	s := New(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.Hub().Start(ctx)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func do(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func createGame(t *testing.T, ts *httptest.Server, req createRequest) stateResponse {
	t.Helper()
	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/games", req)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", status, body)
	}
	return decode[stateResponse](t, body)
}

func seed(v int64) *int64 { return &v }

// checkerboard is a full 4x4 board without any merge: already game over.
var checkerboard = []int{
	2, 4, 2, 4,
	4, 2, 4, 2,
	2, 4, 2, 4,
	4, 2, 4, 2,
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	status, body := do(t, http.MethodGet, ts.URL+"/health", nil)
	if status != http.StatusOK || !strings.Contains(string(body), `"ok":true`) {
		t.Errorf("health = %d %s", status, body)
	}
}

func TestVariants(t *testing.T) {
	ts := newTestServer(t, nil)
	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/variants", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	variants := decode[[]variantDTO](t, body)
	if len(variants) == 0 || variants[0].ID != "classic" || variants[0].Size != 4 || variants[0].Threshold != 2048 {
		t.Errorf("variants = %+v", variants)
	}
	for _, v := range variants {
		if v.Size < 2 {
			t.Errorf("variant %s has size %d", v.ID, v.Size)
		}
	}
}

func TestCreateDefaultsToClassic(t *testing.T) {
	ts := newTestServer(t, nil)
	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/games", nil)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}

	st := decode[stateResponse](t, body)
	if st.Variant != "classic" || st.Size != 4 || st.Moves != 0 {
		t.Errorf("state = %+v", st)
	}
	tiles := 0
	for _, row := range st.Board {
		for _, v := range row {
			if v != 0 {
				tiles++
			}
		}
	}
	if tiles != 2 {
		t.Errorf("fresh board has %d tiles, want 2", tiles)
	}
}

func TestCreateWithBoard(t *testing.T) {
	ts := newTestServer(t, nil)
	st := createGame(t, ts, createRequest{Variant: "mini", Board: []int{2, 0, 0, 0, 4, 0, 0, 0, 8}})

	if st.Size != 3 || st.Score != 14 || st.MaxTile != 8 {
		t.Errorf("state = %+v", st)
	}
	if st.Board[1][1] != 4 {
		t.Errorf("board = %v", st.Board)
	}
}

func TestSwipe(t *testing.T) {
	ts := newTestServer(t, nil)
	st := createGame(t, ts, createRequest{
		Seed: seed(1),
		Board: []int{
			2, 2, 2, 2,
			0, 0, 0, 0,
			0, 0, 0, 0,
			0, 0, 0, 0,
		},
	})

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/games/"+st.ID+"/swipe", swipeRequest{Direction: "left"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	res := decode[swipeResponse](t, body)

	wantKinds := []string{
		"tile_merged", "tile_moved", "tile_moved", "tile_merged",
		"score_changed", "tile_spawned", "move_processed",
	}
	if len(res.Events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(res.Events), len(wantKinds), res.Events)
	}
	for i, k := range wantKinds {
		if res.Events[i].Kind != k {
			t.Errorf("event %d = %s, want %s", i, res.Events[i].Kind, k)
		}
	}

	score := res.Events[4]
	if score.Delta != 8 || score.Total != 16 {
		t.Errorf("score event = %+v, want delta 8 total 16", score)
	}
	if mp := res.Events[6]; mp.Direction != "left" || mp.Changed == nil || !*mp.Changed || mp.Moves != 1 {
		t.Errorf("move event = %+v", mp)
	}
	if row := res.State.Board[0]; row[0] != 4 || row[1] != 4 {
		t.Errorf("first row = %v, want [4 4 ...]", row)
	}
	if res.State.Score != 16 || res.State.Moves != 1 {
		t.Errorf("state = %+v", res.State)
	}
}

func TestSwipeGameOverRecordsScore(t *testing.T) {
	store := openTestStore(t)
	ts := newTestServer(t, store)
	st := createGame(t, ts, createRequest{Board: checkerboard})

	_, body := do(t, http.MethodPost, ts.URL+"/api/v1/games/"+st.ID+"/swipe", swipeRequest{Direction: "up"})
	res := decode[swipeResponse](t, body)

	if !res.State.GameOver {
		t.Fatal("checkerboard should be game over")
	}
	last := res.Events[len(res.Events)-1]
	if last.Kind != "game_over" || last.Score != 48 {
		t.Errorf("last event = %+v", last)
	}

	// A second swipe must not record the game again.
	do(t, http.MethodPost, ts.URL+"/api/v1/games/"+st.ID+"/swipe", swipeRequest{Direction: "down"})

	scores, err := store.TopScores("classic", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 48 || scores[0].MaxTile != 4 {
		t.Errorf("scores = %+v", scores)
	}

	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/scores/classic", nil)
	if status != http.StatusOK {
		t.Fatalf("scores status = %d", status)
	}
	if got := decode[[]scoreDTO](t, body); len(got) != 1 || got[0].Score != 48 {
		t.Errorf("scores endpoint = %+v", got)
	}
}

func TestResetAndDelete(t *testing.T) {
	store := openTestStore(t)
	ts := newTestServer(t, store)
	st := createGame(t, ts, createRequest{Board: []int{
		2, 2, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}})
	url := ts.URL + "/api/v1/games/" + st.ID

	do(t, http.MethodPost, url+"/swipe", swipeRequest{Direction: "right"})

	status, body := do(t, http.MethodPost, url+"/reset", nil)
	if status != http.StatusOK {
		t.Fatalf("reset status = %d", status)
	}
	if reset := decode[stateResponse](t, body); reset.Moves != 0 || reset.ID != st.ID {
		t.Errorf("reset state = %+v", reset)
	}

	status, _ = do(t, http.MethodDelete, url, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", status)
	}
	status, _ = do(t, http.MethodGet, url, nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", status)
	}

	// Reset zeroes the score, so deleting records nothing.
	scores, err := store.TopScores("classic", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("unexpected scores %+v", scores)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	st := createGame(t, ts, createRequest{})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown variant", http.MethodPost, "/api/v1/games", createRequest{Variant: "hex"}, 400, "unknown_variant"},
		{"malformed board", http.MethodPost, "/api/v1/games", createRequest{Board: []int{2, 2, 2}}, 400, "malformed_board"},
		{"wrong size board", http.MethodPost, "/api/v1/games", createRequest{Variant: "mini", Board: make([]int, 16)}, 400, "malformed_board"},
		{"negative tile", http.MethodPost, "/api/v1/games", createRequest{Board: append([]int{-2}, make([]int, 15)...)}, 400, "malformed_board"},
		{"unknown field", http.MethodPost, "/api/v1/games", map[string]int{"width": 4}, 400, "invalid_body"},
		{"bad direction", http.MethodPost, "/api/v1/games/" + st.ID + "/swipe", swipeRequest{Direction: "sideways"}, 400, "invalid_direction"},
		{"bad id", http.MethodGet, "/api/v1/games/not-a-uuid", nil, 400, "invalid_id"},
		{"missing session", http.MethodGet, "/api/v1/games/00000000-0000-0000-0000-000000000000", nil, 404, "not_found"},
		{"unknown route", http.MethodGet, "/api/v2/games", nil, 404, "not_found"},
		{"unknown scores", http.MethodGet, "/api/v1/scores/hex", nil, 404, "unknown_variant"},
		{"bad limit", http.MethodGet, "/api/v1/scores/classic?limit=0", nil, 400, "invalid_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, tt.method, ts.URL+tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d, body %s", status, tt.status, body)
			}
			if got := decode[errorResponse](t, body); got.Error != tt.code {
				t.Errorf("error = %q, want %q", got.Error, tt.code)
			}
		})
	}
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t, nil)
	st := createGame(t, ts, createRequest{Seed: seed(3), Board: []int{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 0, 2,
	}})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/games/" + st.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() envelope {
		t.Helper()
		//nolint:errcheck // Test deadline
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		return decode[envelope](t, data)
	}

	hello := read()
	if hello.Type != "state" || hello.State == nil || hello.State.Score != 4 {
		t.Fatalf("hello = %+v", hello)
	}

	do(t, http.MethodPost, ts.URL+"/api/v1/games/"+st.ID+"/swipe", swipeRequest{Direction: "right"})

	var kinds []string
	for {
		env := read()
		if env.Type != "event" || env.Event == nil {
			t.Fatalf("unexpected frame %+v", env)
		}
		if env.Session != st.ID {
			t.Errorf("frame for session %s, want %s", env.Session, st.ID)
		}
		kinds = append(kinds, env.Event.Kind)
		if env.Event.Kind == "move_processed" {
			break
		}
	}

	// [2,0,0,2] right: the left 2 slides twice then merges.
	want := []string{"tile_moved", "tile_moved", "tile_merged", "score_changed", "tile_spawned", "move_processed"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("streamed %v, want %v", kinds, want)
	}
}

func TestDeleteDisconnectsWatchers(t *testing.T) {
	ts := newTestServer(t, nil)
	st := createGame(t, ts, createRequest{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/games/" + st.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	//nolint:errcheck // Test deadline
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("hello: %v", err)
	}

	do(t, http.MethodDelete, ts.URL+"/api/v1/games/"+st.ID, nil)

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the stream to close after delete")
	}
}

func TestWithoutRunningHub(t *testing.T) {
	s := New(nil, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	game := createGame(t, ts, createRequest{Seed: seed(3)})

	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/games/"+game.ID+"/events", nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("events status = %d, want 503", status)
	}
	if e := decode[errorResponse](t, body); e.Error != "events_unavailable" {
		t.Errorf("error code = %q, want events_unavailable", e.Error)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/games/"+game.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete should not block without a running hub: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
}
