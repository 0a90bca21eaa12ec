package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Engine.IO v4 packet types
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineUpgrade = '5'
	engineNoop    = '6'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message
const (
	socketConnect      = '0'
	socketDisconnect   = '1'
	socketEvent        = '2'
	socketAck          = '3'
	socketConnectError = '4'
)

var errEmptyFrame = errors.New("empty frame")

// handshake is the payload of the Engine.IO open packet
type handshake struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// frame is one decoded websocket text frame
type frame struct {
	engine byte
	socket byte   // set when engine == engineMessage
	data   []byte // remaining payload after the type bytes and namespace
}

func decodeFrame(raw []byte) (frame, error) {
	if len(raw) == 0 {
		return frame{}, errEmptyFrame
	}
	f := frame{engine: raw[0], data: raw[1:]}
	if f.engine != engineMessage {
		return f, nil
	}
	if len(f.data) == 0 {
		return frame{}, fmt.Errorf("message frame without socket packet type")
	}
	f.socket = f.data[0]
	f.data = stripNamespace(f.data[1:])
	return f, nil
}

// stripNamespace drops a leading "/ns," and any numeric ack id
func stripNamespace(b []byte) []byte {
	if len(b) > 0 && b[0] == '/' {
		if i := strings.IndexByte(string(b), ','); i >= 0 {
			b = b[i+1:]
		} else {
			return nil
		}
	}
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	return b[i:]
}

// decodeEvent splits an event payload `["name", arg...]` into name and first argument
func decodeEvent(data []byte) (string, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return "", nil, fmt.Errorf("failed to decode event payload: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("event payload has no name")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, fmt.Errorf("event name is not a string: %w", err)
	}
	if len(parts) < 2 {
		return name, nil, nil
	}
	return name, parts[1], nil
}

// EncodeEvent builds the websocket frame for a Socket.IO event on the default namespace
func EncodeEvent(name string, arg any) ([]byte, error) {
	payload, err := json.Marshal([]any{name, arg})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", name, err)
	}
	return append([]byte{engineMessage, socketEvent}, payload...), nil
}

// EncodeOpen builds the Engine.IO open frame a server sends first
func EncodeOpen(sid string, pingInterval, pingTimeout int) []byte {
	payload, _ := json.Marshal(handshake{
		SID:          sid,
		Upgrades:     []string{},
		PingInterval: pingInterval,
		PingTimeout:  pingTimeout,
		MaxPayload:   1000000,
	})
	return append([]byte{engineOpen}, payload...)
}

// EncodeConnectAck builds the Socket.IO connect acknowledgement a server sends
func EncodeConnectAck(sid string) []byte {
	payload, _ := json.Marshal(map[string]string{"sid": sid})
	return append([]byte{engineMessage, socketConnect}, payload...)
}

var (
	connectFrame = []byte{engineMessage, socketConnect}
	pongFrame    = []byte{enginePong}
)
