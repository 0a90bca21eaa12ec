package ui

import (
	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/transport"
)

// Push channel values (transport.StatusEvent, transport.EmailStatus,
// transport.ConnectionEvent) are delivered to the program as messages unchanged.

// SubmitResultMsg carries the admission response of a form submission
type SubmitResultMsg struct {
	Tool       string
	Generation uint64
	Response   *transport.Response
	Err        error
}

// EmailResultMsg carries the immediate response of a send_email request
type EmailResultMsg struct {
	Token    uint64
	Response *transport.Response
	Err      error
}

// DownloadDoneMsg reports a finished result download
type DownloadDoneMsg struct {
	Path string
	Err  error
}

// PrefsChangedMsg reports preferences reloaded from disk
type PrefsChangedMsg struct {
	Prefs prefs.Preferences
}

type hideProgressMsg struct {
	Tool       string
	Generation uint64
}

type timerTickMsg struct {
	Tool       string
	Generation uint64
}

type notificationFadeMsg struct {
	ID string
}

type notificationRemoveMsg struct {
	ID string
}

type closeModalMsg struct {
	Token uint64
}
