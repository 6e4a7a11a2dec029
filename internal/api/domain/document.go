package domain

// Document is an uploaded file after it has been written to storage
type Document struct {
	Path         string
	OriginalName string
	MimeType     string
	Size         int64
}
