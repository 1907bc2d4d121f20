package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	body := "John Doe\njohn@example.com\n\nExperience\n• Built services that cut latency by 40%\n"
	text, err := Extract([]byte(body), "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "john@example.com") {
		t.Fatalf("expected email preserved, got %q", text)
	}
}

func TestExtractTooShort(t *testing.T) {
	_, err := Extract([]byte(strings.Repeat("a", 40)), "text/plain", "resume.txt")
	if !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent, got %v", err)
	}
}

func TestExtractEmptyPayload(t *testing.T) {
	_, err := Extract(nil, "text/plain", "resume.txt")
	ee, ok := AsExtractionError(err)
	if !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Suggestion == "" {
		t.Fatalf("expected remediation suggestion")
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	payload := append([]byte("%PDF-1.4"), []byte(strings.Repeat("garbage", 20))...)
	_, err := Extract(payload, "application/pdf", "resume.pdf")
	ee, ok := AsExtractionError(err)
	if !ok {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Format != "pdf" {
		t.Fatalf("expected pdf format, got %q", ee.Format)
	}
}

func TestExtractRTF(t *testing.T) {
	raw := `{\rtf1\ansi\deff0 {\fonttbl{\f0 Arial;}}\f0\fs24 Jane Smith\par Experience: led a team of 12 engineers across three products.\par}`
	text, err := Extract([]byte(raw), "application/rtf", "resume.rtf")
	if err != nil {
		t.Fatalf("extract rtf: %v", err)
	}
	if !strings.Contains(text, "Jane Smith") {
		t.Fatalf("expected name in output, got %q", text)
	}
	if strings.Contains(text, `\rtf1`) {
		t.Fatalf("control words should be stripped, got %q", text)
	}
}

func TestExtractUnknownTypeFallsBackToText(t *testing.T) {
	body := "Summary: senior engineer with ten years of experience shipping production systems."
	text, err := Extract([]byte(body), "application/octet-stream", "resume")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Summary") {
		t.Fatalf("expected fallback text decode, got %q", text)
	}
}

func TestNormalizeMimeTypeByExtension(t *testing.T) {
	cases := []struct {
		name     string
		mime     string
		fileName string
		want     string
	}{
		{"pdf extension", "application/octet-stream", "resume.pdf", mimePDF},
		{"docx extension", "", "resume.docx", mimeDOCX},
		{"doc extension", "", "resume.doc", mimeDOC},
		{"rtf alias", "text/rtf", "resume.rtf", mimeRTF},
		{"mime wins", "application/pdf; charset=binary", "whatever.bin", mimePDF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeMimeType(tc.mime, tc.fileName, nil)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	raw := "Line one\r\n\r\n\r\n\r\nLine   two\t\twith​ zero width\n* bullet one\n- bullet two\n"
	cleaned := CleanText(raw)
	if strings.Contains(cleaned, "\r") {
		t.Fatalf("carriage returns should be gone")
	}
	if strings.Contains(cleaned, "\n\n\n") {
		t.Fatalf("newline runs should collapse to two, got %q", cleaned)
	}
	if strings.Contains(cleaned, "  ") {
		t.Fatalf("space runs should collapse, got %q", cleaned)
	}
	if strings.Contains(cleaned, "​") {
		t.Fatalf("zero-width chars should be stripped")
	}
	if strings.Count(cleaned, "• ") != 2 {
		t.Fatalf("expected both bullets normalized, got %q", cleaned)
	}
}
