package tools

import (
	"errors"
	"testing"

	"github.com/lepinkainen/pdfkit/pdf"
	"github.com/lepinkainen/pdfkit/transport"
)

func fieldValue(form transport.Form, name string) (string, bool) {
	for _, f := range form.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func TestLookup(t *testing.T) {
	tool, err := Lookup("compress")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tool.Endpoint != "/compress" {
		t.Errorf("Expected endpoint /compress, got %s", tool.Endpoint)
	}

	_, err = Lookup("shred")
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
}

func TestKeysAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Keys() {
		if seen[k] {
			t.Errorf("Duplicate tool key %s", k)
		}
		seen[k] = true
	}
	if len(seen) != 18 {
		t.Errorf("Expected 18 tools, got %d", len(seen))
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		category Category
		minCount int
		maxCount int
		mustHave string
	}{
		{"everything", "", CategoryAll, 18, 18, "merge"},
		{"case insensitive name", "MERGE", CategoryAll, 1, 1, "merge"},
		{"description match", "password", CategoryAll, 2, 2, "unlock"},
		{"category filter", "", CategorySecurity, 2, 2, "protect"},
		{"category and term", "word", CategoryConvert, 2, 2, "word-to-pdf"},
		{"no match", "zzz", CategoryAll, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tt.term, tt.category)
			if len(got) < tt.minCount || len(got) > tt.maxCount {
				t.Errorf("Expected %d-%d results, got %d", tt.minCount, tt.maxCount, len(got))
			}
			if tt.mustHave == "" {
				return
			}
			for _, tool := range got {
				if tool.Key == tt.mustHave {
					return
				}
			}
			t.Errorf("Expected results to include %s", tt.mustHave)
		})
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 5 {
		t.Errorf("Expected 5 categories, got %v", cats)
	}
}

func TestFormDefaults(t *testing.T) {
	tool, _ := Lookup("compress")
	form, err := tool.Form([]string{"a.pdf"}, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if form.Tool != "compress" || form.Endpoint != "/compress" {
		t.Errorf("Unexpected form target: %+v", form)
	}
	if v, _ := fieldValue(form, "compression_level"); v != "medium" {
		t.Errorf("Expected default compression_level medium, got %q", v)
	}
	if len(form.Files) != 1 || form.Files[0].Field != "pdf" {
		t.Errorf("Expected one pdf file field, got %+v", form.Files)
	}
}

func TestFormOverridesAndFlags(t *testing.T) {
	tool, _ := Lookup("protect")
	form, err := tool.Form([]string{"a.pdf"}, map[string]string{
		"password":    "s3cret",
		"allow_print": "true",
		"allow_copy":  "false",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v, _ := fieldValue(form, "confirm_password"); v != "s3cret" {
		t.Errorf("Expected confirm_password to follow password, got %q", v)
	}
	if _, ok := fieldValue(form, "allow_print"); !ok {
		t.Error("Expected allow_print flag")
	}
	if _, ok := fieldValue(form, "allow_copy"); ok {
		t.Error("Expected allow_copy to be omitted")
	}
}

func TestFormErrors(t *testing.T) {
	merge, _ := Lookup("merge")
	split, _ := Lookup("split")

	tests := []struct {
		name  string
		tool  Tool
		files []string
		opts  map[string]string
		order pdf.Order
	}{
		{"no files", split, nil, nil, nil},
		{"too many files", split, []string{"a.pdf", "b.pdf"}, nil, nil},
		{"too few files", merge, []string{"a.pdf"}, nil, nil},
		{"unknown option", split, []string{"a.pdf"}, map[string]string{"color": "red"}, nil},
		{"order mismatch", merge, []string{"a.pdf", "b.pdf"}, nil, pdf.Order{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.tool.Form(tt.files, tt.opts, tt.order); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestFormOrder(t *testing.T) {
	merge, _ := Lookup("merge")

	form, err := merge.Form([]string{"a.pdf", "b.pdf", "c.pdf"}, nil, pdf.Order{2, 0, 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v, _ := fieldValue(form, "order"); v != "2,0,1" {
		t.Errorf("Expected order 2,0,1, got %q", v)
	}
	if len(form.Files) != 3 || form.Files[0].Path != "a.pdf" || form.Files[0].Field != "files[]" {
		t.Errorf("Expected files in given order, got %+v", form.Files)
	}

	form, _ = merge.Form([]string{"a.pdf", "b.pdf"}, nil, pdf.NewOrder(2))
	if _, ok := fieldValue(form, "order"); ok {
		t.Error("Expected identity order to be omitted")
	}
}
