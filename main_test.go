package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func newTestParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("pdfkit"), kong.Vars{"version": "test"}, kong.Exit(func(int) {
		t.Fatal("Unexpected exit")
	}))
	if err != nil {
		t.Fatalf("Failed to build parser: %v", err)
	}
	return parser
}

func TestCLI_Structure(t *testing.T) {
	var cli CLI

	// compile-time check that every command exists
	_ = cli.Submit
	_ = cli.Watch
	_ = cli.Email
	_ = cli.Tools
	_ = cli.Prefs
	_ = cli.Download
}

func TestGlobalDefaults(t *testing.T) {
	var cli CLI
	parser := newTestParser(t, &cli)

	if _, err := parser.Parse([]string{"tools"}); err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if cli.Server != "http://localhost:5000" {
		t.Errorf("Expected default server, got %s", cli.Server)
	}
	if cli.Timeout != 5*time.Minute {
		t.Errorf("Expected 5m timeout, got %v", cli.Timeout)
	}
	if cli.Timeline != "last-value" {
		t.Errorf("Expected last-value timeline, got %s", cli.Timeline)
	}
	if cli.LogLevel != "info" {
		t.Errorf("Expected info log level, got %s", cli.LogLevel)
	}
}

func TestServerFromEnvironment(t *testing.T) {
	t.Setenv("PDFKIT_SERVER", "https://pdf.example.com")

	var cli CLI
	parser := newTestParser(t, &cli)
	if _, err := parser.Parse([]string{"tools"}); err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if cli.Server != "https://pdf.example.com" {
		t.Errorf("Expected server from environment, got %s", cli.Server)
	}
}

func TestSubmitParsing(t *testing.T) {
	dir := t.TempDir()

	var cli CLI
	parser := newTestParser(t, &cli)
	ctx, err := parser.Parse([]string{
		"submit", "merge", filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.pdf"),
		"--order", "1,0", "-o", "compression_level=high", "--no-tui",
	})
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if ctx.Command() != "submit <tool> <files>" {
		t.Errorf("Unexpected command %q", ctx.Command())
	}
	if cli.Submit.Tool != "merge" {
		t.Errorf("Expected tool merge, got %s", cli.Submit.Tool)
	}
	if len(cli.Submit.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(cli.Submit.Files))
	}
	if cli.Submit.Order != "1,0" {
		t.Errorf("Expected order 1,0, got %s", cli.Submit.Order)
	}
	if cli.Submit.Opt["compression_level"] != "high" {
		t.Errorf("Expected option to parse, got %v", cli.Submit.Opt)
	}
	if !cli.Submit.NoTUI {
		t.Error("Expected --no-tui to be set")
	}
}

func TestEmailRequiresRecipient(t *testing.T) {
	var cli CLI
	parser := newTestParser(t, &cli)
	if _, err := parser.Parse([]string{"email", "merged.pdf"}); err == nil {
		t.Error("Expected an error without --to")
	}
}

func TestEmailDefaults(t *testing.T) {
	var cli CLI
	parser := newTestParser(t, &cli)
	if _, err := parser.Parse([]string{"email", "merged.pdf", "--to", "a@b.c"}); err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if cli.Email.Subject != "Your PDF file from PDF Toolkit" {
		t.Errorf("Unexpected default subject %q", cli.Email.Subject)
	}
	if cli.Email.Message != "Here is the PDF file you requested." {
		t.Errorf("Unexpected default message %q", cli.Email.Message)
	}
}

func TestInvalidTimeline(t *testing.T) {
	var cli CLI
	parser := newTestParser(t, &cli)
	if _, err := parser.Parse([]string{"--timeline", "sideways", "tools"}); err == nil {
		t.Error("Expected an error for an unknown timeline policy")
	}
}

func TestNewAppContext(t *testing.T) {
	dir := t.TempDir()
	appCtx, err := newAppContext(Globals{
		Server:    "http://localhost:5000",
		LogLevel:  "debug",
		LogFile:   filepath.Join(dir, "pdfkit.log"),
		PrefsFile: filepath.Join(dir, "prefs.json"),
		Timeout:   time.Second,
		Timeline:  "monotonic",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if appCtx.Prefs == nil || appCtx.Logger == nil {
		t.Fatal("Expected logger and preference store")
	}
	if appCtx.Prefs.Path() != filepath.Join(dir, "prefs.json") {
		t.Errorf("Unexpected prefs path %s", appCtx.Prefs.Path())
	}
	if appCtx.Timeline != "monotonic" {
		t.Errorf("Expected monotonic, got %s", appCtx.Timeline)
	}
}
