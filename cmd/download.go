package cmd

import (
	"github.com/lepinkainen/pdfkit/transport"
	"github.com/lepinkainen/pdfkit/types"
)

// DownloadCmd fetches a result file by its link
type DownloadCmd struct {
	URL string `arg:"" name:"url" help:"Download link, absolute or relative to the server"`
	Out string `help:"Output directory" type:"path" default:"."`
}

func (cmd *DownloadCmd) Run(appCtx *types.AppContext) error {
	client, err := transport.NewClient(appCtx.Server, appCtx.Timeout, appCtx.Log())
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	return downloadAll(ctx, client, []transport.Download{{URL: cmd.URL}}, cmd.Out)
}
