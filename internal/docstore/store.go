// Package docstore holds uploaded policy documents and their text chunks,
// and serves lexical retrieval over them.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/riskline/internal/common"
	"github.com/ledgerline/riskline/internal/convert"
	"github.com/ledgerline/riskline/internal/model"
)

// DefaultChunkSize is the target chunk size in words.
const DefaultChunkSize = 500

// Processing status values recorded on documents.
const (
	statusProcessed   = "processed"
	statusMock        = "mock"
	statusNoConverter = "no-converter"
)

// Store is the in-memory document and chunk store. Safe for concurrent use.
type Store struct {
	conv      convert.Converter
	logger    *slog.Logger
	documents map[string]*model.Document
	chunks    map[string]model.Chunk
	docChunks map[string][]string
	docOrder  []string
	chunkSize int
	mu        sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithChunkSize overrides the target chunk size in words.
func WithChunkSize(words int) Option {
	return func(s *Store) {
		if words > 0 {
			s.chunkSize = words
		}
	}
}

// New creates a document store backed by the given converter.
func New(conv convert.Converter, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		conv:      conv,
		logger:    logger,
		chunkSize: DefaultChunkSize,
		documents: make(map[string]*model.Document),
		chunks:    make(map[string]model.Chunk),
		docChunks: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest registers a document and extracts its chunks. The document record
// is always created: if conversion fails or no converter is configured,
// deterministic mock chunks are synthesized so the document is never left
// unprocessed.
func (s *Store) Ingest(ctx context.Context, filePath, filename string, fileType model.FileType, sizeBytes int64) (model.Document, error) {
	doc := &model.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		FileType:   fileType,
		SizeBytes:  sizeBytes,
		FilePath:   filePath,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	s.documents[doc.ID] = doc
	s.docOrder = append(s.docOrder, doc.ID)
	s.mu.Unlock()

	// Plain-text types skip the converter entirely.
	if !fileType.PlainText() {
		converted, err := s.conv.Convert(ctx, filePath)
		if err == nil {
			chunks := s.chunkPages(doc.ID, converted.Pages)
			s.storeChunks(doc.ID, chunks, statusProcessed)
			s.logger.Info("document processed",
				"document_id", doc.ID,
				"filename", filename,
				"chunks", len(chunks))
			return s.snapshot(doc.ID), nil
		}
		if !convert.IsUnavailable(err) {
			s.logger.Warn("document conversion failed, falling back to mock chunks",
				"document_id", doc.ID,
				"filename", filename,
				"error", fmt.Errorf("%w: %v", common.ErrDocumentProcessing, err))
		}
	}

	status := statusMock
	if !s.conv.Available() {
		status = statusNoConverter
	}

	chunks := s.mockChunks(doc.ID, filename)
	s.storeChunks(doc.ID, chunks, status)
	s.logger.Info("document processed with mock chunks",
		"document_id", doc.ID,
		"filename", filename,
		"chunks", len(chunks),
		"status", status)
	return s.snapshot(doc.ID), nil
}

// chunkPages splits page text into chunks of roughly chunkSize words.
// The final partial chunk is always flushed; it carries no page number.
func (s *Store) chunkPages(documentID string, pages []convert.Page) []model.Chunk {
	var chunks []model.Chunk
	var current []string

	for _, page := range pages {
		pageNumber := page.Number
		for _, word := range strings.Fields(page.Text) {
			current = append(current, word)
			if len(current) >= s.chunkSize {
				n := pageNumber
				chunks = append(chunks, model.Chunk{
					ID:               uuid.New().String(),
					DocumentID:       documentID,
					Text:             strings.Join(current, " "),
					PageNumber:       &n,
					ExtractionMethod: model.ExtractionDocling,
					CreatedAt:        time.Now(),
				})
				current = current[:0]
			}
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, model.Chunk{
			ID:               uuid.New().String(),
			DocumentID:       documentID,
			Text:             strings.Join(current, " "),
			ExtractionMethod: model.ExtractionDocling,
			CreatedAt:        time.Now(),
		})
	}

	return chunks
}

// storeChunks attaches extracted chunks to their document and marks it
// processed, in one critical section so readers never see a half-updated
// document.
func (s *Store) storeChunks(documentID string, chunks []model.Chunk, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		s.chunks[c.ID] = c
		ids = append(ids, c.ID)
	}
	s.docChunks[documentID] = ids

	if doc, ok := s.documents[documentID]; ok {
		doc.Processed = true
		doc.ChunkCount = len(chunks)
		doc.ProcessingStatus = status
	}
}

func (s *Store) snapshot(documentID string) model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.documents[documentID]; ok {
		return *doc
	}
	return model.Document{}
}

// Get returns document metadata by ID.
func (s *Store) Get(documentID string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[documentID]
	if !ok {
		return model.Document{}, fmt.Errorf("document %s: %w", documentID, common.ErrNotFound)
	}
	return *doc, nil
}

// List returns all documents in upload order.
func (s *Store) List() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		out = append(out, *s.documents[id])
	}
	return out
}

// Chunks returns the chunks belonging to a document, in extraction order.
func (s *Store) Chunks(documentID string) []model.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.docChunks[documentID]
	out := make([]model.Chunk, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.chunks[id])
	}
	return out
}

// ChunkCount returns the total number of chunks across all documents.
func (s *Store) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Delete removes a document and all its chunks atomically. Returns false
// if the document does not exist.
func (s *Store) Delete(documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[documentID]; !ok {
		return false
	}

	for _, chunkID := range s.docChunks[documentID] {
		delete(s.chunks, chunkID)
	}
	delete(s.docChunks, documentID)
	delete(s.documents, documentID)

	for i, id := range s.docOrder {
		if id == documentID {
			s.docOrder = append(s.docOrder[:i], s.docOrder[i+1:]...)
			break
		}
	}
	return true
}
