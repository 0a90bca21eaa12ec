package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lepinkainen/pdfkit/pdf"
	"github.com/lepinkainen/pdfkit/transport"
)

// Category groups tools the way the toolkit's navigation does
type Category string

const (
	CategoryAll      Category = "all"
	CategoryOrganize Category = "organize"
	CategoryOptimize Category = "optimize"
	CategoryConvert  Category = "convert"
	CategorySecurity Category = "security"
	CategoryEdit     Category = "edit"
)

var (
	// ErrUnknownTool is returned by Lookup for tool keys the server does not offer
	ErrUnknownTool = errors.New("unknown tool")
	// ErrNoFiles is returned when a form is built without input files
	ErrNoFiles = errors.New("no input files")
)

// Option is a text form field and its default value
type Option struct {
	Name    string
	Default string
	Help    string
}

// Tool describes one server operation
type Tool struct {
	Key         string
	Name        string
	Description string
	Category    Category
	Endpoint    string
	FileField   string
	Accepts     pdf.Kind
	Multi       bool
	MinFiles    int
	Options     []Option
	// Flags are checkbox fields: the server only tests for their presence
	Flags []string
}

var registry = []Tool{
	{
		Key: "merge", Name: "Merge PDF", Description: "Combine multiple PDFs into one document",
		Category: CategoryOrganize, Endpoint: "/merge", FileField: "files[]", Accepts: pdf.KindPDF,
		Multi: true, MinFiles: 2,
	},
	{
		Key: "split", Name: "Split PDF", Description: "Extract pages or split a PDF into several files",
		Category: CategoryOrganize, Endpoint: "/split", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{
			{Name: "split_method", Default: "all", Help: "all, range or odd_even"},
			{Name: "page_range", Help: "pages to extract, e.g. 1-3,5"},
			{Name: "odd_even", Default: "all", Help: "all, odd or even"},
		},
	},
	{
		Key: "compress", Name: "Compress PDF", Description: "Reduce file size while keeping quality",
		Category: CategoryOptimize, Endpoint: "/compress", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{{Name: "compression_level", Default: "medium", Help: "low, medium or high"}},
	},
	{
		Key: "pdf-to-img", Name: "PDF to Image", Description: "Convert PDF pages to images",
		Category: CategoryConvert, Endpoint: "/pdf_to_img", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{
			{Name: "format", Default: "jpg", Help: "jpg or png"},
			{Name: "dpi", Default: "200", Help: "output resolution"},
		},
	},
	{
		Key: "img-to-pdf", Name: "Image to PDF", Description: "Convert images into a PDF document",
		Category: CategoryConvert, Endpoint: "/img_to_pdf", FileField: "images[]", Accepts: pdf.KindImage,
		Multi: true, MinFiles: 1,
	},
	{
		Key: "pdf-to-word", Name: "PDF to Word", Description: "Convert a PDF to an editable Word document",
		Category: CategoryConvert, Endpoint: "/pdf_to_word", FileField: "pdf", Accepts: pdf.KindPDF,
	},
	{
		Key: "pdf-to-excel", Name: "PDF to Excel", Description: "Extract tables from a PDF into a spreadsheet",
		Category: CategoryConvert, Endpoint: "/pdf_to_excel", FileField: "pdf", Accepts: pdf.KindPDF,
	},
	{
		Key: "pdf-to-ppt", Name: "PDF to PowerPoint", Description: "Turn PDF pages into presentation slides",
		Category: CategoryConvert, Endpoint: "/pdf_to_ppt", FileField: "pdf", Accepts: pdf.KindPDF,
	},
	{
		Key: "word-to-pdf", Name: "Word to PDF", Description: "Convert Word documents to PDF",
		Category: CategoryConvert, Endpoint: "/word_to_pdf", FileField: "word", Accepts: pdf.KindWord,
	},
	{
		Key: "excel-to-pdf", Name: "Excel to PDF", Description: "Convert spreadsheets to PDF",
		Category: CategoryConvert, Endpoint: "/excel_to_pdf", FileField: "excel", Accepts: pdf.KindExcel,
	},
	{
		Key: "ppt-to-pdf", Name: "PowerPoint to PDF", Description: "Convert presentations to PDF",
		Category: CategoryConvert, Endpoint: "/ppt_to_pdf", FileField: "ppt", Accepts: pdf.KindPowerPoint,
	},
	{
		Key: "extract-text", Name: "Extract Text", Description: "Pull the text content out of a PDF",
		Category: CategoryConvert, Endpoint: "/extract_text", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{{Name: "output_format", Default: "txt", Help: "txt or docx"}},
	},
	{
		Key: "ocr", Name: "OCR", Description: "Recognize text in scanned PDFs and images",
		Category: CategoryConvert, Endpoint: "/ocr", FileField: "file", Accepts: pdf.KindAny,
		Options: []Option{
			{Name: "language", Default: "eng", Help: "tesseract language code"},
			{Name: "output_format", Default: "txt", Help: "txt or pdf"},
		},
	},
	{
		Key: "protect", Name: "Protect PDF", Description: "Add a password and permissions to a PDF",
		Category: CategorySecurity, Endpoint: "/protect", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{
			{Name: "password", Help: "password to set"},
			{Name: "confirm_password", Help: "defaults to password"},
		},
		Flags: []string{"allow_print", "allow_copy", "allow_modify"},
	},
	{
		Key: "unlock", Name: "Unlock PDF", Description: "Remove the password from a PDF",
		Category: CategorySecurity, Endpoint: "/unlock", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{{Name: "password", Help: "current password"}},
	},
	{
		Key: "rotate", Name: "Rotate PDF", Description: "Rotate all or some pages",
		Category: CategoryOrganize, Endpoint: "/rotate", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{
			{Name: "angle", Default: "90", Help: "90, 180 or 270"},
			{Name: "pages", Default: "all", Help: "all or range"},
			{Name: "rotate_range", Help: "pages to rotate when pages=range"},
		},
	},
	{
		Key: "watermark", Name: "Add Watermark", Description: "Stamp text over PDF pages",
		Category: CategoryEdit, Endpoint: "/watermark", FileField: "pdf", Accepts: pdf.KindPDF,
		Options: []Option{
			{Name: "watermark_type", Default: "text", Help: "text"},
			{Name: "watermark_text", Help: "text to stamp"},
			{Name: "opacity", Default: "30", Help: "percent"},
			{Name: "position", Default: "middle-center", Help: "e.g. top-left, middle-center"},
		},
	},
	{
		Key: "edit", Name: "Edit PDF", Description: "Add text, images and annotations",
		Category: CategoryEdit, Endpoint: "/edit", FileField: "pdf", Accepts: pdf.KindPDF,
	},
}

// All returns every tool in display order
func All() []Tool {
	return append([]Tool(nil), registry...)
}

// Keys returns every tool key in display order
func Keys() []string {
	keys := make([]string, len(registry))
	for i, t := range registry {
		keys[i] = t.Key
	}
	return keys
}

// Lookup finds a tool by key
func Lookup(key string) (Tool, error) {
	for _, t := range registry {
		if t.Key == key {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("%w: %s", ErrUnknownTool, key)
}

// Search filters tools by category and a case-insensitive substring of the
// name or description. An empty term matches everything.
func Search(term string, category Category) []Tool {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []Tool
	for _, t := range registry {
		if category != "" && category != CategoryAll && t.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories lists the categories in use, sorted
func Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, t := range registry {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Form builds the submission for files. opts override option defaults; keys
// naming a flag set it when the value is truthy. order rearranges multi-file
// uploads and is sent as the order field when it is not the identity.
func (t Tool) Form(files []string, opts map[string]string, order pdf.Order) (transport.Form, error) {
	if len(files) == 0 {
		return transport.Form{}, ErrNoFiles
	}
	if !t.Multi && len(files) > 1 {
		return transport.Form{}, fmt.Errorf("%s takes a single file, got %d", t.Key, len(files))
	}
	if len(files) < t.MinFiles {
		return transport.Form{}, fmt.Errorf("%s needs at least %d files, got %d", t.Key, t.MinFiles, len(files))
	}
	if order != nil && len(order) != len(files) {
		return transport.Form{}, fmt.Errorf("order has %d entries for %d files", len(order), len(files))
	}

	known := make(map[string]bool)
	form := transport.Form{Tool: t.Key, Endpoint: t.Endpoint}

	for _, o := range t.Options {
		known[o.Name] = true
		value, ok := opts[o.Name]
		if !ok {
			value = o.Default
		}
		if o.Name == "confirm_password" && !ok {
			value = opts["password"]
		}
		if value != "" {
			form.Fields = append(form.Fields, transport.Field{Name: o.Name, Value: value})
		}
	}

	for _, flag := range t.Flags {
		known[flag] = true
		if truthy(opts[flag]) {
			form.Fields = append(form.Fields, transport.Field{Name: flag, Value: "on"})
		}
	}

	for name := range opts {
		if !known[name] {
			return transport.Form{}, fmt.Errorf("%s has no option %q", t.Key, name)
		}
	}

	// The server reorders uploads itself, so files go out in the given order
	for _, f := range files {
		form.Files = append(form.Files, transport.FormFile{Field: t.FileField, Path: f})
	}
	if t.Multi && order != nil && !order.IsIdentity() {
		form.Fields = append(form.Fields, transport.Field{Name: "order", Value: order.String()})
	}

	return form, nil
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
