package amqp

import (
	"encoding/json"
	"time"
)

// UsageMessage tells the worker that a collection was saved successfully,
// so the product's usage counter must be incremented. It carries only the
// product name and the date key; the ledger itself stays in the store.
type UsageMessage struct {
	Product   string    `json:"product"`
	Date      string    `json:"date"`
	Samples   int       `json:"samples"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUsageMessage(product, date string, samples int) *UsageMessage {
	return &UsageMessage{
		Product:   product,
		Date:      date,
		Samples:   samples,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *UsageMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// UsageMessageFromJSON creates a message from JSON bytes.
func UsageMessageFromJSON(data []byte) (*UsageMessage, error) {
	var msg UsageMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
