package feed

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Inbound message types
const (
	MsgInput  = "input"
	MsgStatus = "status"
)

// Outbound JSON message types
const (
	MsgStatusReply = "status"
	MsgError       = "error"
)

// Envelope wraps every inbound JSON message
type Envelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// Reply wraps every outbound JSON message
type Reply struct {
	T    string      `json:"t"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorMsg is the payload of an error reply
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// InputMessage is a pointer event sent by a feed client
type InputMessage struct {
	Button string  `json:"button"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Ctrl   bool    `json:"ctrl"`
	Shift  bool    `json:"shift"`
}

// Frame is the binary msgpack message broadcast once per published tick
type Frame struct {
	Tick     uint64             `msgpack:"tick"`
	Time     float64            `msgpack:"time"`
	Snapshot msgpack.RawMessage `msgpack:"snap"`
}

// DecodeSnapshot unpacks the frame's snapshot into v
func (f Frame) DecodeSnapshot(v interface{}) error {
	return msgpack.Unmarshal(f.Snapshot, v)
}
