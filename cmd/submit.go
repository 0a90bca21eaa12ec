package cmd

import (
	"fmt"

	"github.com/lepinkainen/pdfkit/pdf"
	"github.com/lepinkainen/pdfkit/tools"
	"github.com/lepinkainen/pdfkit/transport"
	"github.com/lepinkainen/pdfkit/types"
	"github.com/lepinkainen/pdfkit/ui"
)

// SubmitCmd uploads files to one tool and follows the job until it finishes
type SubmitCmd struct {
	Tool  string            `arg:"" name:"tool" help:"Tool to run (see 'pdfkit tools')"`
	Files []string          `arg:"" name:"files" help:"Input files or directories" type:"path"`
	Opt   map[string]string `short:"o" help:"Tool option as key=value (repeatable)"`
	Order string            `help:"Upload order for multi-file tools as comma-separated input indexes, e.g. 2,0,1. Without it the interactive view asks."`
	NoTUI bool              `name:"no-tui" help:"Print progress lines instead of the interactive view"`
	Out   string            `help:"Download result files into this directory" type:"path"`
}

// prepare resolves the tool, expands and validates inputs and parses --order
func (cmd *SubmitCmd) prepare() (tools.Tool, []string, pdf.Order, error) {
	tool, err := tools.Lookup(cmd.Tool)
	if err != nil {
		return tools.Tool{}, nil, nil, err
	}

	files, err := pdf.ExpandPaths(cmd.Files, tool.Accepts)
	if err != nil {
		return tools.Tool{}, nil, nil, err
	}
	if err := pdf.ValidateInputs(files, tool.Accepts); err != nil {
		return tools.Tool{}, nil, nil, err
	}

	var order pdf.Order
	if cmd.Order != "" {
		if !tool.Multi {
			return tools.Tool{}, nil, nil, fmt.Errorf("%s takes a single file, --order does not apply", tool.Key)
		}
		order, err = pdf.ParseOrder(cmd.Order, len(files))
		if err != nil {
			return tools.Tool{}, nil, nil, err
		}
	}
	return tool, files, order, nil
}

// Form resolves the tool, expands inputs and builds the submission
func (cmd *SubmitCmd) Form() (transport.Form, error) {
	tool, files, order, err := cmd.prepare()
	if err != nil {
		return transport.Form{}, err
	}
	return tool.Form(files, cmd.Opt, order)
}

// Arrangement returns the interactive ordering step, or nil when the upload
// order is already settled
func (cmd *SubmitCmd) Arrangement() (*ui.Arrangement, error) {
	tool, files, order, err := cmd.prepare()
	if err != nil {
		return nil, err
	}
	if !tool.Multi || len(files) < 2 || cmd.Order != "" {
		return nil, nil
	}
	// Fail early on bad options before the user arranges anything
	if _, err := tool.Form(files, cmd.Opt, order); err != nil {
		return nil, err
	}
	return ui.NewArrangement(tool.Key, files, order, func(o pdf.Order) (transport.Form, error) {
		return tool.Form(files, cmd.Opt, o)
	}), nil
}

// Run submits the job and renders its progress
func (cmd *SubmitCmd) Run(appCtx *types.AppContext) error {
	form, err := cmd.Form()
	if err != nil {
		return err
	}
	appCtx.Log().Infow("Prepared submission", "tool", form.Tool, "files", len(form.Files), "endpoint", form.Endpoint)

	if cmd.NoTUI {
		client, push, err := connect(appCtx)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return runPlain(ctx, client, push, form, cmd.Out, appCtx.Log())
	}

	arrange, err := cmd.Arrangement()
	if err != nil {
		return err
	}
	opts := tuiOptions{
		Tools:   tools.Keys(),
		Arrange: arrange,
		OutDir:  outDirOrCwd(cmd.Out),
	}
	if arrange == nil {
		opts.Pending = &form
	}
	return runTUI(appCtx, opts)
}

func outDirOrCwd(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
