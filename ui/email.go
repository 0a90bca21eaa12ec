package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/pdfkit/transport"
)

const (
	DefaultEmailSubject = "Your PDF file from PDF Toolkit"
	DefaultEmailMessage = "Here is the PDF file you requested."

	// EmailCloseDelay is how long a successful send stays on screen
	EmailCloseDelay = 2000 * time.Millisecond

	emailRequiredMessage = "Email address is required"
)

const (
	fieldEmail = iota
	fieldSubject
	fieldMessage
	fieldCount
)

// EmailModal is the send-by-email dialog for one result file. It is the only
// owner of the job's form state and is discarded on cancel, close or send.
type EmailModal struct {
	Filename string

	email   textinput.Model
	subject textinput.Model
	message textarea.Model
	focus   int

	Status     string
	StatusKind transport.Status
	Sending    bool

	token uint64
}

func newEmailModal(filename string, token uint64) *EmailModal {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email:   "
	email.Focus()

	subject := textinput.New()
	subject.Prompt = "Subject: "
	subject.SetValue(DefaultEmailSubject)

	message := textarea.New()
	message.SetValue(DefaultEmailMessage)
	message.SetHeight(4)
	message.ShowLineNumbers = false

	return &EmailModal{
		Filename: filename,
		email:    email,
		subject:  subject,
		message:  message,
		token:    token,
	}
}

// Job returns the form contents as a send request
func (m *EmailModal) Job() transport.EmailJob {
	return transport.EmailJob{
		Filename: m.Filename,
		Email:    strings.TrimSpace(m.email.Value()),
		Subject:  m.subject.Value(),
		Message:  m.message.Value(),
	}
}

// SetEmail fills the address field
func (m *EmailModal) SetEmail(addr string) { m.email.SetValue(addr) }

// SetSubject fills the subject field
func (m *EmailModal) SetSubject(s string) { m.subject.SetValue(s) }

// SetMessage fills the message field
func (m *EmailModal) SetMessage(s string) { m.message.SetValue(s) }

// FocusNext moves input focus to the next field
func (m *EmailModal) FocusNext() {
	m.focus = (m.focus + 1) % fieldCount
	m.email.Blur()
	m.subject.Blur()
	m.message.Blur()
	switch m.focus {
	case fieldEmail:
		m.email.Focus()
	case fieldSubject:
		m.subject.Focus()
	case fieldMessage:
		m.message.Focus()
	}
}

// updateInput forwards a key press to the focused field
func (m *EmailModal) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldSubject:
		m.subject, cmd = m.subject.Update(msg)
	case fieldMessage:
		m.message, cmd = m.message.Update(msg)
	}
	return cmd
}

// OpenEmail opens the email dialog for a result file, replacing any open one
func (c *Controller) OpenEmail(filename string) *EmailModal {
	c.modalSeq++
	c.modal = newEmailModal(filename, c.modalSeq)
	return c.modal
}

// Modal returns the open email dialog, or nil
func (c *Controller) Modal() *EmailModal { return c.modal }

// CloseEmail discards the dialog and its form state
func (c *Controller) CloseEmail() { c.modal = nil }

// SendEmail validates the dialog and dispatches the request
func (c *Controller) SendEmail() tea.Cmd {
	m := c.modal
	if m == nil || m.Sending {
		return nil
	}

	job := m.Job()
	if job.Email == "" {
		return c.notifier.Show(emailRequiredMessage, transport.StatusError)
	}

	m.Status = "Sending email..."
	m.StatusKind = transport.StatusProcessing
	m.Sending = true

	client, ctx, token := c.client, c.ctx, m.token
	return func() tea.Msg {
		resp, err := client.SendEmail(ctx, job)
		return EmailResultMsg{Token: token, Response: resp, Err: err}
	}
}

// OnEmailResult shows immediate failures inline and re-enables sending
func (c *Controller) OnEmailResult(msg EmailResultMsg) tea.Cmd {
	m := c.modal
	if m == nil || m.token != msg.Token {
		return nil
	}

	switch {
	case msg.Err != nil:
		c.logger.Errorw("Email request failed", "filename", m.Filename, "error", msg.Err)
		m.Status = "Error sending email: " + msg.Err.Error()
	case msg.Response != nil && msg.Response.Status == transport.StatusError:
		m.Status = msg.Response.Message
	default:
		return nil
	}
	m.StatusKind = transport.StatusError
	m.Sending = false
	return nil
}

// OnEmailStatus applies an email_status push event to the open dialog
func (c *Controller) OnEmailStatus(ev transport.EmailStatus) tea.Cmd {
	cmds := []tea.Cmd{c.notifier.Show(ev.Message, ev.Status)}

	m := c.modal
	if m == nil {
		return tea.Batch(cmds...)
	}
	m.Status = ev.Message
	m.StatusKind = ev.Status

	switch ev.Status {
	case transport.StatusSuccess:
		token := m.token
		cmds = append(cmds, tea.Tick(EmailCloseDelay, func(time.Time) tea.Msg {
			return closeModalMsg{Token: token}
		}))
	case transport.StatusError:
		m.Sending = false
	}
	return tea.Batch(cmds...)
}
