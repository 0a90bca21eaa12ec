package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the class of input document a tool accepts
type Kind string

const (
	KindPDF        Kind = "pdf"
	KindImage      Kind = "image"
	KindWord       Kind = "word"
	KindExcel      Kind = "excel"
	KindPowerPoint Kind = "powerpoint"
	// KindAny accepts PDFs and images, as the OCR tool does
	KindAny Kind = "any"
)

var kindExtensions = map[Kind][]string{
	KindPDF:        {".pdf"},
	KindImage:      {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"},
	KindWord:       {".doc", ".docx"},
	KindExcel:      {".xls", ".xlsx"},
	KindPowerPoint: {".ppt", ".pptx"},
}

// pdfMagic is the header every PDF file starts with
var pdfMagic = []byte("%PDF-")

// Extensions returns the file extensions accepted for kind
func Extensions(kind Kind) []string {
	if kind == KindAny {
		return append(append([]string(nil), kindExtensions[KindPDF]...), kindExtensions[KindImage]...)
	}
	return kindExtensions[kind]
}

// Matches checks if the file extension is one accepted for kind
func Matches(path string, kind Kind) bool {
	ext := strings.ToLower(filepath.Ext(path)) // handle upper case extensions

	for _, v := range Extensions(kind) {
		if v == ext {
			return true
		}
	}
	return false
}

// IsPDFFile checks if the given file has a PDF extension
func IsPDFFile(path string) bool {
	return Matches(path, KindPDF)
}

// ValidatePDF checks that a file exists and starts with a PDF header.
// The server does the real parsing; this only catches obviously wrong inputs
// before uploading them.
func ValidatePDF(filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	defer f.Close()

	header := make([]byte, 1024)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	if n == 0 {
		return fmt.Errorf("pdf file is empty: %s", filePath)
	}

	// Readers tolerate up to 1024 bytes of junk before the header
	if !bytes.Contains(header[:n], pdfMagic) {
		return fmt.Errorf("not a pdf file (missing %%PDF- header): %s", filePath)
	}
	return nil
}

// ValidateInputs checks each file against kind, sniffing PDFs for their header
func ValidateInputs(paths []string, kind Kind) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", p)
		}
		if !Matches(p, kind) {
			return fmt.Errorf("%s is not a %s file (expected one of %s)", p, kind, strings.Join(Extensions(kind), ", "))
		}
		if IsPDFFile(p) {
			if err := ValidatePDF(p); err != nil {
				return err
			}
		}
	}
	return nil
}
