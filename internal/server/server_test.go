package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/teenpatti/internal/deck"
	"github.com/lox/teenpatti/internal/game"
	"github.com/lox/teenpatti/internal/randutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

var testTime = time.Date(2026, 10, 18, 19, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...game.SessionOption) (*Server, *httptest.Server) {
	t.Helper()

	clock := quartz.NewMock(t)
	clock.Set(testTime)

	factory := func(id uint64, extra ...game.SessionOption) (*game.Session, error) {
		all := append([]game.SessionOption{}, opts...)
		all = append(all, extra...)
		return game.NewSession(randutil.New(int64(id)), all...)
	}

	srv := NewServer(testLogger(), factory, WithClock(clock), WithRegistry(prometheus.NewRegistry()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType MessageType, data any) {
	t.Helper()
	msg := map[string]any{"type": messageType}
	if data != nil {
		msg["data"] = data
	}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
}

func receive(t *testing.T, conn *websocket.Conn, want MessageType, v any) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	require.Equal(t, want, msg.Type, "payload: %s", msg.Data)
	if v != nil {
		require.NoError(t, msg.Decode(v))
	}
	return &msg
}

func TestServerHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestServerPlaysRound(t *testing.T) {
	_, ts := newTestServer(t,
		game.WithSessionPolicy(game.FixedPolicy(game.Concede)),
	)
	conn := dial(t, ts)

	send(t, conn, MessageTypeStartRound, nil)
	var view game.RoundView
	msg := receive(t, conn, MessageTypeRound, &view)
	assert.True(t, testTime.Equal(msg.Timestamp))
	assert.Equal(t, "betting", view.State)
	assert.Equal(t, 20, view.Pot)
	assert.Equal(t, 990, view.PlayerChips)
	assert.True(t, view.IsBlind)
	assert.True(t, view.OpponentHandHidden)
	assert.Empty(t, view.OpponentHand)
	assert.Len(t, view.PlayerHand, 3)
	for _, c := range view.PlayerHand {
		assert.GreaterOrEqual(t, c.Rank, deck.Two)
	}
	cards := regexp.MustCompile(`\{"suit":"(hearts|diamonds|clubs|spades)","rank":"(10|[2-9JQKA])"\}`)
	assert.Len(t, cards.FindAll(msg.Data, -1), 3, "cards are sent by name: %s", msg.Data)

	send(t, conn, MessageTypeAct, ActData{Action: "call"})
	var outcome game.RoundOutcome
	receive(t, conn, MessageTypeOutcome, &outcome)
	assert.Equal(t, "gameOver", outcome.State)
	assert.Equal(t, "player", outcome.Winner)
	assert.Equal(t, 25, outcome.Payout)
	assert.Equal(t, 1010, outcome.PlayerChips)
	assert.Equal(t, "Opponent folded. You win the pot!", outcome.Message)
	assert.Len(t, outcome.View.OpponentHand, 3)

	send(t, conn, MessageTypeAct, ActData{Action: "call"})
	var errData ErrorData
	receive(t, conn, MessageTypeError, &errData)
	assert.Equal(t, "invalid_action", errData.Code)
}

func TestServerToggleBlindAndBoot(t *testing.T) {
	_, ts := newTestServer(t, game.WithSessionPolicy(game.FixedPolicy(game.Match)))
	conn := dial(t, ts)

	send(t, conn, MessageTypeSetBoot, SetBootData{Amount: 25})
	var boot BootData
	receive(t, conn, MessageTypeBoot, &boot)
	assert.Equal(t, BootData{Amount: 10, Accepted: false}, boot)

	send(t, conn, MessageTypeSetBoot, SetBootData{Amount: 50})
	receive(t, conn, MessageTypeBoot, &boot)
	assert.Equal(t, BootData{Amount: 50, Accepted: true}, boot)

	send(t, conn, MessageTypeStartRound, nil)
	var view game.RoundView
	receive(t, conn, MessageTypeRound, &view)
	assert.Equal(t, 100, view.Pot)

	send(t, conn, MessageTypeSetBoot, SetBootData{Amount: 20})
	receive(t, conn, MessageTypeBoot, &boot)
	assert.Equal(t, BootData{Amount: 50, Accepted: false}, boot)

	send(t, conn, MessageTypeToggleBlind, nil)
	var blind BlindData
	receive(t, conn, MessageTypeBlind, &blind)
	assert.False(t, blind.IsBlind)

	send(t, conn, MessageTypeAct, ActData{Action: "raise"})
	var outcome game.RoundOutcome
	receive(t, conn, MessageTypeOutcome, &outcome)
	assert.Equal(t, "betting", outcome.State)
	assert.Equal(t, 100, outcome.CurrentBet)

	send(t, conn, MessageTypeToggleBlind, nil)
	var errData ErrorData
	receive(t, conn, MessageTypeError, &errData)
	assert.Equal(t, "invalid_action", errData.Code)

	send(t, conn, MessageTypeState, nil)
	receive(t, conn, MessageTypeRound, &view)
	assert.Equal(t, 100, view.CurrentBet)
	assert.False(t, view.CanToggleBlind)
}

func TestServerRejectsBadMessages(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	tests := []struct {
		name     string
		send     func()
		wantCode string
	}{
		{"state before deal", func() { send(t, conn, MessageTypeState, nil) }, "invalid_action"},
		{"act before deal", func() { send(t, conn, MessageTypeAct, ActData{Action: "fold"}) }, "invalid_action"},
		{"unknown action", func() { send(t, conn, MessageTypeAct, ActData{Action: "check"}) }, "invalid_action"},
		{"unknown type", func() { send(t, conn, "shuffle", nil) }, CodeUnknownMessageType},
		{"bad payload", func() { send(t, conn, MessageTypeAct, "fold") }, CodeInvalidMessage},
		{"not json", func() {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
		}, CodeInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.send()
			var errData ErrorData
			receive(t, conn, MessageTypeError, &errData)
			assert.Equal(t, tt.wantCode, errData.Code)
			assert.NotEmpty(t, errData.Message)
		})
	}
}

func TestServerInsufficientChips(t *testing.T) {
	_, ts := newTestServer(t, game.WithBalances(5, 1000))
	conn := dial(t, ts)

	send(t, conn, MessageTypeStartRound, nil)
	var errData ErrorData
	receive(t, conn, MessageTypeError, &errData)
	assert.Equal(t, "insufficient_chips", errData.Code)
}

func TestServerSessionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t, game.WithSessionPolicy(game.FixedPolicy(game.Concede)))
	a := dial(t, ts)
	b := dial(t, ts)

	send(t, a, MessageTypeStartRound, nil)
	receive(t, a, MessageTypeRound, nil)
	send(t, a, MessageTypeAct, ActData{Action: "fold"})
	receive(t, a, MessageTypeOutcome, nil)

	send(t, b, MessageTypeStartRound, nil)
	var view game.RoundView
	receive(t, b, MessageTypeRound, &view)
	assert.Equal(t, 990, view.PlayerChips)
	assert.Equal(t, 990, view.OpponentChips)
}

func TestServerMetrics(t *testing.T) {
	srv, ts := newTestServer(t, game.WithSessionPolicy(game.FixedPolicy(game.Concede)))
	conn := dial(t, ts)

	send(t, conn, MessageTypeStartRound, nil)
	receive(t, conn, MessageTypeRound, nil)
	send(t, conn, MessageTypeAct, ActData{Action: "raise"})
	receive(t, conn, MessageTypeOutcome, nil)
	send(t, conn, MessageTypeAct, ActData{Action: "raise"})
	receive(t, conn, MessageTypeError, nil)

	assert.Equal(t, 1, srv.ConnectionCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Actions.WithLabelValues("raise")))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Rounds.WithLabelValues("player", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Rejected.WithLabelValues("invalid_action")))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "teenpatti_rounds_total")
	assert.Contains(t, string(body), "teenpatti_connections 1")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(srv.metrics.Connections))
}

func TestServerWithoutMetrics(t *testing.T) {
	srv := NewServer(testLogger(), func(id uint64, opts ...game.SessionOption) (*game.Session, error) {
		return game.NewSession(randutil.New(1), opts...)
	}, WithoutMetrics())
	defer srv.Stop()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
