package cmd

import (
	"github.com/lepinkainen/pdfkit/tools"
	"github.com/lepinkainen/pdfkit/types"
)

// WatchCmd attaches to the push channel and shows every tool's progress
type WatchCmd struct {
	Out string `help:"Directory for downloaded results" type:"path" default:"."`
}

func (cmd *WatchCmd) Run(appCtx *types.AppContext) error {
	return runTUI(appCtx, tuiOptions{
		Tools:  tools.Keys(),
		Follow: true,
		OutDir: cmd.Out,
	})
}
