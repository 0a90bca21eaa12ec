package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		kind     Kind
		expected bool
	}{
		{"PDF lowercase", "report.pdf", KindPDF, true},
		{"PDF uppercase", "REPORT.PDF", KindPDF, true},
		{"Full path PDF", "/path/to/report.pdf", KindPDF, true},
		{"Multiple dots", "report.final.pdf", KindPDF, true},
		{"Image as PDF", "scan.png", KindPDF, false},
		{"JPEG", "scan.jpeg", KindImage, true},
		{"TIFF", "scan.TIF", KindImage, true},
		{"Word docx", "letter.docx", KindWord, true},
		{"Word legacy", "letter.doc", KindWord, true},
		{"Excel", "sheet.xlsx", KindExcel, true},
		{"PowerPoint", "deck.pptx", KindPowerPoint, true},
		{"Any accepts PDF", "a.pdf", KindAny, true},
		{"Any accepts image", "a.png", KindAny, true},
		{"Any rejects word", "a.docx", KindAny, false},
		{"No extension", "report", KindPDF, false},
		{"Empty string", "", KindPDF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Matches(tt.path, tt.kind)
			if result != tt.expected {
				t.Errorf("Matches(%q, %s) = %v, expected %v", tt.path, tt.kind, result, tt.expected)
			}
		})
	}
}

func TestValidatePDF(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid header", write("ok.pdf", "%PDF-1.7\n%âãÏÓ\n"), false},
		{"junk before header", write("junk.pdf", "garbage\n%PDF-1.4\n"), false},
		{"empty file", write("empty.pdf", ""), true},
		{"not a pdf", write("fake.pdf", "<html></html>"), true},
		{"missing file", filepath.Join(dir, "missing.pdf"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePDF(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePDF(%s) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInputs(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "a.pdf")
	imgPath := filepath.Join(dir, "a.png")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.5"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(imgPath, []byte("\x89PNG"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateInputs([]string{pdfPath}, KindPDF); err != nil {
		t.Errorf("Expected valid PDF input, got %v", err)
	}
	if err := ValidateInputs([]string{imgPath}, KindPDF); err == nil {
		t.Error("Expected an error for an image given to a PDF tool")
	}
	if err := ValidateInputs([]string{pdfPath, imgPath}, KindAny); err != nil {
		t.Errorf("Expected mixed input to be accepted for any, got %v", err)
	}
	if err := ValidateInputs([]string{dir}, KindPDF); err == nil {
		t.Error("Expected an error for a directory")
	}
}
