package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lepinkainen/pdfkit/tools"
	"github.com/lepinkainen/pdfkit/ui"
)

// ToolsCmd lists the server's tools
type ToolsCmd struct {
	Search   string `arg:"" optional:"" help:"Filter by name or description"`
	Category string `short:"c" help:"Filter by category" enum:"all,organize,optimize,convert,security,edit" default:"all"`
	Verbose  bool   `short:"v" help:"Show options and defaults"`
}

func (cmd *ToolsCmd) Run() error {
	return cmd.print(os.Stdout)
}

func (cmd *ToolsCmd) print(w io.Writer) error {
	found := tools.Search(cmd.Search, tools.Category(cmd.Category))
	if len(found) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No tools match"))
		return nil
	}

	// Grouped by category, in category order
	for _, cat := range tools.Categories() {
		first := true
		for _, t := range found {
			if t.Category != cat {
				continue
			}
			if first {
				fmt.Fprintln(w, ui.InfoStyle.Render(strings.ToUpper(string(cat))))
				first = false
			}
			cmd.printTool(w, t)
		}
	}
	return nil
}

func (cmd *ToolsCmd) printTool(w io.Writer, t tools.Tool) {
	fmt.Fprintf(w, "  %s  %s\n", ui.ProcessingStyle.Render(fmt.Sprintf("%-13s", t.Key)), t.Name)
	fmt.Fprintf(w, "      %s\n", ui.MutedStyle.Render(t.Description))
	if !cmd.Verbose {
		return
	}
	for _, o := range t.Options {
		def := ""
		if o.Default != "" {
			def = fmt.Sprintf(" (default %s)", o.Default)
		}
		fmt.Fprintf(w, "      -o %s=…  %s%s\n", o.Name, o.Help, def)
	}
	if len(t.Flags) > 0 {
		fmt.Fprintf(w, "      flags: %s\n", strings.Join(t.Flags, ", "))
	}
}
