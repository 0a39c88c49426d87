package amqp

import (
	"encoding/json"
	"time"
)

// MonthClosedMessage notifies the report worker that a month was closed.
// It carries only the balance ID, the worker fetches the full record from
// the database before writing the report row.
type MonthClosedMessage struct {
	BalanceID string    `json:"balance_id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthClosedMessage(balanceID string, month, year int) *MonthClosedMessage {
	return &MonthClosedMessage{
		BalanceID: balanceID,
		Month:     month,
		Year:      year,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MonthClosedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func MonthClosedMessageFromJSON(data []byte) (*MonthClosedMessage, error) {
	var msg MonthClosedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
