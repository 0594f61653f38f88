package constants

import "strings"

// Document formats the extraction pipeline understands.
const (
	PDF   = "PDF"
	DOCX  = "DOCX"
	IMAGE = "IMAGE"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AcceptedMIMETypes is the user-facing list of accepted upload formats.
var AcceptedMIMETypes = []string{MIMEPDF, MIMEDocx, "image/*"}

// MapMIMEToFormat maps a declared MIME type to a pipeline format.
// Returns "" for anything the pipeline does not accept.
func MapMIMEToFormat(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == MIMEPDF:
		return PDF
	case mt == MIMEDocx:
		return DOCX
	case strings.HasPrefix(mt, "image/"):
		return IMAGE
	default:
		return ""
	}
}
