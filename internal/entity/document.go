package entity

// RawDocument is the transient upload buffer handed to the extraction pipeline.
// It is owned by a single pipeline invocation and discarded afterwards.
type RawDocument struct {
	Data     []byte
	MIMEType string
	Filename string
}

// ExtractedText is the raw text pulled out of a document plus the method used.
type ExtractedText struct {
	Text   string
	Method string // "pdf-text" | "docx-text" | "vision"
}

// RankedLine is one selected unit of text with its relevance score and its
// position in the original document.
type RankedLine struct {
	Text     string
	Score    float64
	Position int
}

// RankedContent is the reduced, reordered set of lines handed to the
// structured extractor. Lines appear in original document order.
type RankedContent struct {
	Lines []RankedLine
}

// Text joins the selected lines with newlines.
func (rc RankedContent) Text() string {
	out := make([]byte, 0, 64*len(rc.Lines))
	for i, ln := range rc.Lines {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, ln.Text...)
	}
	return string(out)
}

// CandidateTask is an unvalidated extraction result. Description is the only
// field guaranteed non-empty after filtering.
type CandidateTask struct {
	Description       string `json:"taskDescription"`
	Frequency         string `json:"frequency,omitempty"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
	Area              string `json:"area,omitempty"`
	Notes             string `json:"notes,omitempty"`
}
