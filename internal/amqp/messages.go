package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProjectionComputedMessage announces one finished savings projection. It
// carries aggregates only; transaction details never leave the request.
type ProjectionComputedMessage struct {
	ID               string    `json:"id"`
	ComputedAt       time.Time `json:"computed_at"`
	InvestmentType   string    `json:"investment_type"`
	TransactionCount int       `json:"transaction_count"`
	WindowCount      int       `json:"window_count"`
	InvestedTotal    string    `json:"invested_total"`
}

// NewProjectionComputedMessage stamps a fresh event with a unique ID for
// consumer-side deduplication. The invested total travels as a string so the
// wire format keeps decimal precision.
func NewProjectionComputedMessage(investmentType string, transactionCount, windowCount int, investedTotal string) *ProjectionComputedMessage {
	return &ProjectionComputedMessage{
		ID:               uuid.NewString(),
		ComputedAt:       time.Now(),
		InvestmentType:   investmentType,
		TransactionCount: transactionCount,
		WindowCount:      windowCount,
		InvestedTotal:    investedTotal,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ProjectionComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ProjectionComputedMessageFromJSON creates a message from JSON bytes
func ProjectionComputedMessageFromJSON(data []byte) (*ProjectionComputedMessage, error) {
	var msg ProjectionComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
