package ui

import "github.com/lepinkainen/pdfkit/transport"

// ResultPanel is the rendered download list of a successful session
type ResultPanel struct {
	Visible   bool
	Header    string
	Subtitle  string
	Downloads []transport.Download
}

// ToolView is the set of display regions belonging to one tool
type ToolView struct {
	Tool string

	ProgressVisible bool
	ProgressWidth   float64 // percent, passed through unclamped
	Status          string

	LogVisible    bool
	TimelineWidth float64
	Stages        StageSet
	Timer         string

	PreviewVisible bool
	Preview        string

	Results ResultPanel
}

// SizePanel is the single size comparison region shared by all tools.
// The last writer wins; Owner records which tool wrote it.
type SizePanel struct {
	Visible    bool
	Owner      string
	Original   string
	Compressed string
	Reduction  string
}

// Board owns every display region. Tools without a view are tolerated:
// updates aimed at them are dropped.
type Board struct {
	views      map[string]*ToolView
	order      []string
	Size       SizePanel
	Connection transport.ConnState
}

// NewBoard creates a board with a view for each tool key
func NewBoard(tools ...string) *Board {
	b := &Board{views: make(map[string]*ToolView)}
	for _, t := range tools {
		b.Add(t)
	}
	return b
}

// Add registers a view for tool, returning the existing one if present
func (b *Board) Add(tool string) *ToolView {
	if v, ok := b.views[tool]; ok {
		return v
	}
	v := &ToolView{Tool: tool, Timer: "00:00", Stages: NewStageSet(StageStart)}
	b.views[tool] = v
	b.order = append(b.order, tool)
	return v
}

// View returns the view for tool, or nil when the tool has no regions
func (b *Board) View(tool string) *ToolView {
	return b.views[tool]
}

// Tools lists tool keys in registration order
func (b *Board) Tools() []string {
	return append([]string(nil), b.order...)
}
