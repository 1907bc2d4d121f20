package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeTXT  = "text/plain"
	mimeRTF  = "application/rtf"
)

// Extract pulls text from an uploaded document and returns it cleaned.
// Dispatch is by MIME type with content sniffing for missing or generic types.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Extract(data []byte, mimeType string, fileName string) (string, error) {
	if len(data) == 0 {
		return "", extractionError("file", "The uploaded file is empty. Please upload a different file.", errors.New("empty payload"))
	}

	var text string
	var err error
	switch normalizeMimeType(mimeType, fileName, data) {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	case mimeRTF:
		text = stripRTF(string(data))
	case mimeDOC:
		// Legacy binary Word; salvage readable runs rather than reject outright.
		text = salvagePlainText(data)
		if strings.TrimSpace(text) == "" {
			return "", extractionError("doc", "Legacy .doc files are unreliable to parse. Please save the file as .docx or PDF and re-upload.", errors.New("no readable text"))
		}
	case mimeTXT:
		text = string(data)
	default:
		// Best-effort UTF-8 decode for unknown types.
		text = salvagePlainText(data)
		if strings.TrimSpace(text) == "" {
			return "", extractionError("file", "Unsupported file type. Please upload a PDF, DOCX, TXT, or RTF resume.", errors.New("no decodable text"))
		}
	}
	if err != nil {
		return "", err
	}

	cleaned := CleanText(text)
	if len(cleaned) < MinContentLength {
		return "", ErrInsufficientContent
	}
	return cleaned, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", extractionError("pdf", "The PDF could not be opened. It may be password-protected or corrupt; try exporting a fresh copy.", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", extractionError("pdf", "The PDF contains no extractable text. If it is a scanned image, upload a text-based PDF instead.", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", extractionError("pdf", "Reading the PDF text failed. Try re-saving the file and uploading again.", err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", extractionError("docx", "The DOCX file could not be opened. Re-save it from your word processor and upload again.", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml; strip the WordprocessingML markup.
	return stripDocxXML(doc.Editable().GetContent()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// stripRTF removes RTF groups and control words, leaving the plain text.
func stripRTF(raw string) string {
	var buf strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case '{', '}':
			i++
		case '\\':
			i++
			if i < len(raw) && (raw[i] == '\\' || raw[i] == '{' || raw[i] == '}') {
				buf.WriteByte(raw[i])
				i++
				continue
			}
			// Skip the control word and its optional numeric argument.
			for i < len(raw) && (isAlpha(raw[i])) {
				i++
			}
			if i < len(raw) && (raw[i] == '-' || isDigit(raw[i])) {
				if raw[i] == '-' {
					i++
				}
				for i < len(raw) && isDigit(raw[i]) {
					i++
				}
			}
			if i < len(raw) && raw[i] == ' ' {
				i++
			}
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return buf.String()
}

// salvagePlainText keeps printable UTF-8 runs from arbitrary bytes.
func salvagePlainText(data []byte) string {
	var buf strings.Builder
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			buf.WriteRune(r)
		} else if r == '\r' {
			buf.WriteRune('\n')
		}
		i += size
	}
	return buf.String()
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePDF, mimeDOC, mimeDOCX, mimeRTF:
		return clean
	case "text/rtf":
		return mimeRTF
	case "text/plain":
		return mimeTXT
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".doc":
		return mimeDOC
	case ".rtf":
		return mimeRTF
	case ".txt":
		return mimeTXT
	}

	// Sniff the content for generic or absent types (application/octet-stream,
	// application/zip from browsers that mislabel DOCX, etc.).
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(mimePDF):
		return mimePDF
	case detected.Is(mimeDOCX):
		return mimeDOCX
	case detected.Is(mimeDOC):
		return mimeDOC
	case detected.Is("text/rtf"):
		return mimeRTF
	case strings.HasPrefix(detected.String(), "text/"):
		return mimeTXT
	}
	return clean
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
