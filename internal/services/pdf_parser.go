package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/career-guide/internal/models"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(content []byte, format models.DocumentFormat) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// ParseFormat validates a client-supplied format tag.
func ParseFormat(tag string) (models.DocumentFormat, error) {
	switch models.DocumentFormat(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, ".")))) {
	case models.FormatPDF:
		return models.FormatPDF, nil
	case models.FormatDOCX:
		return models.FormatDOCX, nil
	}
	return "", &UnsupportedFormatError{Format: tag}
}

// Extract implements TextExtractor.
func (t *textExtractor) Extract(content []byte, format models.DocumentFormat) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case models.FormatPDF:
		text, err = extractPDF(content)
	case models.FormatDOCX:
		text, err = extractDOCX(content)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
	if err != nil {
		return "", &ExtractionError{Format: string(format), Err: err}
	}

	return text, nil
}

func extractPDF(content []byte) (text string, err error) {
	// The decoder panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	text = textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text content found in PDF")
	}

	return text, nil
}

// maxDocumentXMLSize bounds the decompressed size of word/document.xml.
var maxDocumentXMLSize int64 = 32 << 20

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			if body, err = f.Open(); err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			break
		}
	}
	if body == nil {
		return "", errors.New("no word/document.xml found in DOCX")
	}
	defer body.Close()

	var (
		textBuilder strings.Builder
		inText      bool
		runDepth    int
	)
	decoder := xml.NewDecoder(io.LimitReader(body, maxDocumentXMLSize))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 {
					textBuilder.WriteString("\t")
				}
			case "br", "cr":
				textBuilder.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "r":
				runDepth--
			case "t":
				inText = false
			case "p":
				textBuilder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				textBuilder.Write(el)
			}
		}
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text content found in DOCX")
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
