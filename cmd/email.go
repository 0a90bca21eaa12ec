package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lepinkainen/pdfkit/transport"
	"github.com/lepinkainen/pdfkit/types"
	"github.com/lepinkainen/pdfkit/ui"
)

// EmailCmd asks the server to email a result file
type EmailCmd struct {
	Filename string `arg:"" name:"filename" help:"Result filename as shown in the download list"`
	To       string `required:"" help:"Recipient address"`
	Subject  string `help:"Subject line" default:"Your PDF file from PDF Toolkit"`
	Message  string `help:"Message body" default:"Here is the PDF file you requested."`
}

// Job builds the request, rejecting an empty recipient
func (cmd *EmailCmd) Job() (transport.EmailJob, error) {
	to := strings.TrimSpace(cmd.To)
	if to == "" {
		return transport.EmailJob{}, errors.New("email address is required")
	}
	return transport.EmailJob{
		Filename: cmd.Filename,
		Email:    to,
		Subject:  cmd.Subject,
		Message:  cmd.Message,
	}, nil
}

// Run sends the request and waits for the server's email_status event
func (cmd *EmailCmd) Run(appCtx *types.AppContext) error {
	job, err := cmd.Job()
	if err != nil {
		return err
	}

	client, push, err := connect(appCtx)
	if err != nil {
		return err
	}

	parent, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithTimeout(parent, appCtx.Timeout)
	defer cancel()

	stream := startEventStream(ctx, push)
	if err := stream.waitConnected(ctx); err != nil {
		return err
	}

	fmt.Println(ui.ProcessingStyle.Render("Sending email..."))
	resp, err := client.SendEmail(ctx, job)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	if resp.Status == transport.StatusError {
		return errors.New(resp.Message)
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("no email status received: %w", ctx.Err())
		case v, ok := <-stream.events:
			if !ok {
				return ErrDisconnected
			}
			switch ev := v.(type) {
			case transport.ConnectionEvent:
				if ev.State == transport.Disconnected {
					return ErrDisconnected
				}
			case transport.EmailStatus:
				switch ev.Status {
				case transport.StatusSuccess:
					fmt.Println(ui.SuccessStyle.Render("✅ " + ev.Message))
					return nil
				case transport.StatusError:
					return errors.New(ev.Message)
				default:
					fmt.Println(ui.InfoStyle.Render(ev.Message))
				}
			}
		}
	}
}
