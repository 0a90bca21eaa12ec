package ui

import "github.com/lepinkainen/pdfkit/transport"

var resultHeaders = []string{
	"Your PDF is Ready! 🎉",
	"Mission Accomplished! 🚀",
	"PDF Magic Complete! ✨",
	"Success! Your PDF is Ready! 🌟",
	"PDF Transformation Complete! 🔄",
}

var resultSubtitles = []string{
	"Tom & Jerry have finished processing your files!",
	"Your documents have been expertly processed!",
	"Your PDF has been transformed with care!",
	"All done! Your document is ready to download.",
	"Processing complete with flying colors!",
}

// buildResults renders the download panel for a success event.
// An empty download list still produces a header.
func buildResults(tool string, downloads []transport.Download) ResultPanel {
	seed := tool
	for _, d := range downloads {
		seed += "|" + d.URL
	}
	return ResultPanel{
		Visible:   true,
		Header:    pick(resultHeaders, seed),
		Subtitle:  pick(resultSubtitles, seed+"#"),
		Downloads: append([]transport.Download(nil), downloads...),
	}
}
