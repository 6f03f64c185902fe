package model

import (
	"fmt"
	"strings"
	"time"
)

// FileType is the declared type of an uploaded policy document.
type FileType string

// Supported document types.
const (
	FileTypePDF  FileType = "PDF"
	FileTypeDOCX FileType = "DOCX"
	FileTypeMD   FileType = "MD"
	FileTypeTXT  FileType = "TXT"
)

// PlainText reports whether the type carries text directly and needs no
// converter pass.
func (t FileType) PlainText() bool {
	return t == FileTypeMD || t == FileTypeTXT
}

// ParseFileType maps a file extension or type name to a FileType.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToUpper(strings.TrimPrefix(s, ".")) {
	case "PDF":
		return FileTypePDF, nil
	case "DOCX":
		return FileTypeDOCX, nil
	case "MD", "MARKDOWN":
		return FileTypeMD, nil
	case "TXT", "TEXT":
		return FileTypeTXT, nil
	default:
		return "", fmt.Errorf("unsupported file type: %q", s)
	}
}

// Extraction methods recorded on chunks.
const (
	ExtractionDocling = "docling"
	ExtractionMock    = "mock"
)

// Document is an uploaded compliance policy document.
type Document struct {
	UploadedAt time.Time `json:"uploaded_at"`
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   FileType  `json:"file_type"`
	FilePath   string    `json:"file_path,omitempty"`

	// ProcessingStatus records which extraction path produced the chunks.
	ProcessingStatus string `json:"processing_status"`
	SizeBytes        int64  `json:"size_bytes"`
	ChunkCount       int    `json:"chunk_count"`
	Processed        bool   `json:"processed"`
}

// Chunk is a bounded-size text segment extracted from a document; it is
// the unit of retrieval.
type Chunk struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`

	// ExtractionMethod is "docling" or "mock".
	ExtractionMethod string `json:"extraction_method"`

	// Source names the mock corpus entry a mock chunk came from.
	Source string `json:"source,omitempty"`

	// PageNumber is nil for chunks that span page boundaries.
	PageNumber *int `json:"page_number,omitempty"`
}
