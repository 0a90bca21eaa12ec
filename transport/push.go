package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Engine.IO server defaults, used until the handshake says otherwise
const (
	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second
)

// ErrPushTimeout is returned when the server stops sending within the ping window
var ErrPushTimeout = errors.New("push channel timed out")

// PushClient holds the persistent push channel to the toolkit server.
// Run serves one connection; RunReconnecting redials with backoff until cancelled.
type PushClient struct {
	url      string
	clientID string
	dialer   *websocket.Dialer
	logger   *zap.SugaredLogger

	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// NewPushClient creates a push client for the websocket URL of the server's socket.io endpoint
func NewPushClient(wsURL string, logger *zap.SugaredLogger) *PushClient {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PushClient{
		url:      wsURL,
		clientID: uuid.NewString(),
		dialer:   &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
		logger:   logger,

		RetryBackoff:    time.Second,
		MaxRetryBackoff: 5 * time.Second,
	}
}

// Run dials the server and delivers ConnectionEvent, StatusEvent and EmailStatus
// values to emit until the context is cancelled or the connection drops.
// A Disconnected event is always emitted before Run returns.
func (p *PushClient) Run(ctx context.Context, emit func(any)) error {
	_, err := p.session(ctx, emit)
	return err
}

// RunReconnecting keeps the push channel open until the context is cancelled.
// Dropped connections are redialled with exponential backoff, which resets
// after every successful connect. Consecutive Disconnected events from failed
// dials are collapsed into one.
func (p *PushClient) RunReconnecting(ctx context.Context, emit func(any)) error {
	var (
		last    = ConnState(-1)
		backoff = p.RetryBackoff
	)
	filtered := func(v any) {
		if ce, ok := v.(ConnectionEvent); ok {
			if ce.State == Disconnected && last == Disconnected {
				return
			}
			last = ce.State
		}
		emit(v)
	}

	for {
		connected, err := p.session(ctx, filtered)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			backoff = p.RetryBackoff
		}
		p.logger.Infow("Push channel lost, reconnecting", "error", err, "delay", backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil
		}
		if next := backoff * 2; next <= p.MaxRetryBackoff {
			backoff = next
		}
	}
}

// session serves one connection and reports whether it reached Connected
func (p *PushClient) session(ctx context.Context, emit func(any)) (bool, error) {
	connected := false
	track := func(v any) {
		if ce, ok := v.(ConnectionEvent); ok && ce.State == Connected {
			connected = true
		}
		emit(v)
	}

	header := http.Header{}
	header.Set("X-Client-ID", p.clientID)

	conn, _, err := p.dialer.DialContext(ctx, p.url, header)
	if err != nil {
		emit(ConnectionEvent{State: Disconnected, Err: err})
		return false, fmt.Errorf("failed to open push channel: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	err = p.readLoop(conn, track)
	emit(ConnectionEvent{State: Disconnected, Err: err})
	if ctx.Err() != nil {
		return connected, nil
	}
	return connected, err
}

func (p *PushClient) readLoop(conn *websocket.Conn, emit func(any)) error {
	window := defaultPingInterval + defaultPingTimeout
	for {
		if err := conn.SetReadDeadline(time.Now().Add(window)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		_, raw, err := conn.ReadMessage()
		if isTimeout(err) {
			return fmt.Errorf("%w: nothing received for %s", ErrPushTimeout, window)
		}
		if err != nil {
			return fmt.Errorf("push channel read failed: %w", err)
		}

		f, err := decodeFrame(raw)
		if err != nil {
			p.logger.Warnw("Dropping undecodable frame", "error", err)
			continue
		}

		switch f.engine {
		case engineOpen:
			var hs handshake
			if err := json.Unmarshal(f.data, &hs); err != nil {
				return fmt.Errorf("invalid handshake: %w", err)
			}
			p.logger.Debugw("Engine.IO handshake", "sid", hs.SID, "ping_interval", hs.PingInterval)
			if hs.PingInterval > 0 && hs.PingTimeout > 0 {
				window = time.Duration(hs.PingInterval+hs.PingTimeout) * time.Millisecond
			}
			if err := conn.WriteMessage(websocket.TextMessage, connectFrame); err != nil {
				return fmt.Errorf("failed to send connect packet: %w", err)
			}

		case enginePing:
			if err := conn.WriteMessage(websocket.TextMessage, pongFrame); err != nil {
				return fmt.Errorf("failed to answer ping: %w", err)
			}

		case engineClose:
			return fmt.Errorf("server closed the push channel")

		case engineMessage:
			if done, err := p.handleSocketPacket(f, emit); done {
				return err
			}
		}
	}
}

// handleSocketPacket returns done=true when the socket session has ended
func (p *PushClient) handleSocketPacket(f frame, emit func(any)) (bool, error) {
	switch f.socket {
	case socketConnect:
		p.logger.Infow("Push channel connected", "client_id", p.clientID)
		emit(ConnectionEvent{State: Connected})

	case socketConnectError:
		return true, fmt.Errorf("server refused connection: %s", string(f.data))

	case socketDisconnect:
		return true, fmt.Errorf("server disconnected the socket")

	case socketEvent:
		name, arg, err := decodeEvent(f.data)
		if err != nil {
			p.logger.Warnw("Dropping malformed event", "error", err)
			return false, nil
		}
		if v, ok := p.decodeNamed(name, arg); ok {
			emit(v)
		}
	}
	return false, nil
}

func (p *PushClient) decodeNamed(name string, arg json.RawMessage) (any, bool) {
	switch name {
	case EventStatusUpdate:
		var ev StatusEvent
		if err := json.Unmarshal(arg, &ev); err != nil {
			p.logger.Warnw("Malformed status_update", "error", err)
			return nil, false
		}
		p.logger.Debugw("status_update", "tool", ev.Tool, "status", ev.Status, "progress", ev.Progress)
		return ev, true
	case EventEmailStatus:
		var ev EmailStatus
		if err := json.Unmarshal(arg, &ev); err != nil {
			p.logger.Warnw("Malformed email_status", "error", err)
			return nil, false
		}
		return ev, true
	default:
		p.logger.Debugw("Ignoring event", "name", name)
		return nil, false
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
