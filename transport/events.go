package transport

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Status is the status discriminator shared by push events and HTTP responses
type Status string

const (
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
	StatusWarning    Status = "warning"
	StatusInfo       Status = "info"
)

// Terminal reports whether the status ends a session
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Push channel event names
const (
	EventStatusUpdate = "status_update"
	EventEmailStatus  = "email_status"
)

// Text holds a display value the server may send as a string or a number.
// Strings are kept verbatim; numbers keep their JSON spelling. Falsy JSON
// values (null, false, 0) decode to the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		if f, err := strconv.ParseFloat(string(b), 64); err == nil && f == 0 {
			*t = ""
			return nil
		}
		*t = Text(b)
	}
	return nil
}

// Download describes one result file offered by a success event
type Download struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Label    string `json:"label,omitempty"`
}

// DisplayLabel returns the link label shown for the download
func (d Download) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return "Download Your PDF"
}

// StatusEvent is a status_update pushed by the server for one tool
type StatusEvent struct {
	Tool             string     `json:"tool"`
	Status           Status     `json:"status"`
	Message          string     `json:"message"`
	Progress         *float64   `json:"progress,omitempty"`
	Downloads        []Download `json:"downloads,omitempty"`
	PreviewText      string     `json:"preview_text,omitempty"`
	OriginalSize     Text       `json:"original_size,omitempty"`
	CompressedSize   Text       `json:"compressed_size,omitempty"`
	ReductionPercent Text       `json:"reduction_percent,omitempty"`
	LogEntry         string     `json:"log_entry,omitempty"`
	Filename         string     `json:"filename,omitempty"`
}

// HasSizes reports whether all three size comparison values are present
func (e StatusEvent) HasSizes() bool {
	return e.OriginalSize != "" && e.CompressedSize != "" && e.ReductionPercent != ""
}

// EmailStatus is an email_status pushed after a send request
type EmailStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// ConnState is the state of the push channel
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

func (s ConnState) String() string {
	if s == Connected {
		return "Connected"
	}
	return "Disconnected"
}

// ConnectionEvent reports a push channel state transition
type ConnectionEvent struct {
	State ConnState
	Err   error
}

// Response is the JSON body returned by submission and email endpoints
type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// EmailJob is the body of a send_email request
type EmailJob struct {
	Filename string `json:"filename"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// Float returns a pointer to v, for building events with a progress value
func Float(v float64) *float64 {
	return &v
}
