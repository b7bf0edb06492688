package ws

import "encoding/json"

type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type GuessPayload struct {
	Choice string `json:"choice"`
}

type PickPayload struct {
	Side string `json:"side"`
}

type clientMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
