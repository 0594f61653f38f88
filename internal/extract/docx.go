package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// extractDOCX reads the paragraph text straight out of the word-processor
// document (a zip archive holding word/document.xml). No OCR involved.
func (e *Extractor) extractDOCX(data []byte) (entity.ExtractedText, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError("the document could not be opened", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return entity.ExtractedText{}, common.ExtractionFailureError("the document body could not be read", err)
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return entity.ExtractedText{}, common.ExtractionFailureError("the document body could not be read", err)
			}
			break
		}
	}
	if docXML == nil {
		return entity.ExtractedText{}, common.ExtractionFailureError(
			"the document is missing its body (word/document.xml)", nil)
	}

	text, err := docxParagraphText(docXML)
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError("the document body could not be parsed", err)
	}

	return entity.ExtractedText{Text: text, Method: "docx-text"}, nil
}

// docxParagraphText walks the WordprocessingML body collecting text runs,
// emitting one line per paragraph.
func docxParagraphText(docXML []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	var b strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
