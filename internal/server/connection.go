package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/teenpatti/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client playing its own session
type Connection struct {
	id        uint64
	conn      *websocket.Conn
	send      chan *Message
	session   *game.Session
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConnection(id uint64, conn *websocket.Conn, session *game.Session, s *Server) *Connection {
	ctx, cancel := context.WithCancel(s.ctx)

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 64),
		session: session,
		server:  s,
		logger:  s.logger.WithPrefix("conn").With("conn", id),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse message")
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := c.server.clock.NewTicker(pingPeriod, "server", "ping")
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("Failed to encode message", "type", msg.Type, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage runs one client request against the session. Requests are
// handled in arrival order on the read goroutine.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeStartRound:
		view, err := c.session.StartRound()
		if err != nil {
			c.reject(err)
			return
		}
		c.reply(MessageTypeRound, view)

	case MessageTypeAct:
		var data ActData
		if err := msg.Decode(&data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse act data")
			return
		}
		action, err := game.ParseAction(data.Action)
		if err != nil {
			c.reject(err)
			return
		}
		outcome, err := c.session.Act(action)
		if err != nil {
			c.reject(err)
			return
		}
		c.server.metrics.Actions.WithLabelValues(action.String()).Inc()
		c.reply(MessageTypeOutcome, outcome)

	case MessageTypeToggleBlind:
		blind, err := c.session.ToggleBlind()
		if err != nil {
			c.reject(err)
			return
		}
		c.reply(MessageTypeBlind, BlindData{IsBlind: blind})

	case MessageTypeSetBoot:
		var data SetBootData
		if err := msg.Decode(&data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse set_boot data")
			return
		}
		accepted := c.session.SetBootAmount(data.Amount)
		if !accepted {
			c.server.metrics.Rejected.WithLabelValues(game.ErrorCode(game.ErrInvalidConfiguration)).Inc()
		}
		c.reply(MessageTypeBoot, BootData{Amount: c.session.BootAmount(), Accepted: accepted})

	case MessageTypeState:
		view, ok := c.session.View()
		if !ok {
			c.sendError(game.ErrorCode(game.ErrInvalidAction), "No round has been dealt")
			return
		}
		c.reply(MessageTypeRound, view)

	default:
		c.sendError(CodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) reply(messageType MessageType, data any) {
	msg, err := NewMessage(c.server.clock, messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// reject reports a game error to the client
func (c *Connection) reject(err error) {
	c.logger.Debug("Request rejected", "error", err)
	c.sendError(game.ErrorCode(err), err.Error())
}

func (c *Connection) sendError(code, message string) {
	c.server.metrics.Rejected.WithLabelValues(code).Inc()
	c.reply(MessageTypeError, ErrorData{Code: code, Message: message})
}
