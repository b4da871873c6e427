package model

// Answer is a raw chatbot answer delivered for display.
type Answer struct {
	ResultId string // Empty means a new result view
	Payload  []byte
}
