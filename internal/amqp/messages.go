package amqp

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExportRequestMessage asks the worker to write the full expense workbook
// to Google Sheets. The worker reads the expenses itself.
type ExportRequestMessage struct {
	RequestID     string    `json:"request_id"`
	SpreadsheetID string    `json:"spreadsheet_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewExportRequestMessage creates a request with a fresh id. An empty
// spreadsheetID means the worker's configured spreadsheet.
func NewExportRequestMessage(spreadsheetID string) *ExportRequestMessage {
	return &ExportRequestMessage{
		RequestID:     newRequestID(),
		SpreadsheetID: spreadsheetID,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON decodes and checks a message body.
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode export request: %w", err)
	}
	if msg.RequestID == "" {
		return nil, errors.New("export request without request_id")
	}
	return &msg, nil
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("exp-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
