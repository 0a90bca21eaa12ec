package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/pdfkit/cmd"
	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/types"
	"github.com/lepinkainen/pdfkit/utils"
)

var Version = "dev"

// Globals are shared by every command and may come from the environment
type Globals struct {
	Server    string           `help:"Toolkit server base URL" env:"PDFKIT_SERVER" default:"http://localhost:5000"`
	LogLevel  string           `help:"Log level" env:"PDFKIT_LOG_LEVEL" enum:"debug,info,warn,error" default:"info"`
	LogFile   string           `help:"Log file, '-' for stderr (default: user cache dir)" env:"PDFKIT_LOG_FILE"`
	PrefsFile string           `name:"prefs" help:"Preferences file (default: user config dir)" env:"PDFKIT_PREFS" type:"path"`
	Timeout   time.Duration    `help:"HTTP request timeout" default:"5m"`
	Timeline  string           `help:"Timeline marker policy" enum:"last-value,monotonic" default:"last-value"`
	Version   kong.VersionFlag `help:"Print version and exit"`
}

type CLI struct {
	Globals

	Submit   cmd.SubmitCmd   `cmd:"" help:"Upload files to a tool and follow the job"`
	Watch    cmd.WatchCmd    `cmd:"" help:"Show live progress for every tool"`
	Email    cmd.EmailCmd    `cmd:"" help:"Email a result file"`
	Tools    cmd.ToolsCmd    `cmd:"" help:"List available tools"`
	Prefs    cmd.PrefsCmd    `cmd:"" help:"Show or change preferences"`
	Download cmd.DownloadCmd `cmd:"" help:"Download a result file"`
}

// newAppContext turns parsed globals into the context handed to commands
func newAppContext(g Globals) (*types.AppContext, error) {
	logger, err := utils.NewLogger(g.LogLevel, g.LogFile)
	if err != nil {
		return nil, err
	}

	path := g.PrefsFile
	if path == "" {
		path, err = prefs.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate preferences: %w", err)
		}
	}
	store, err := prefs.Open(path)
	if err != nil {
		return nil, err
	}

	return &types.AppContext{
		Version:  Version,
		Server:   g.Server,
		Timeout:  g.Timeout,
		Timeline: g.Timeline,
		Logger:   logger,
		Prefs:    store,
	}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pdfkit"),
		kong.Description("Terminal client for the PDF Toolkit server"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	appCtx, err := newAppContext(cli.Globals)
	ctx.FatalIfErrorf(err)
	defer func() { _ = appCtx.Logger.Sync() }()

	appCtx.Logger.Debugw("Starting", "command", ctx.Command(), "server", appCtx.Server)
	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
