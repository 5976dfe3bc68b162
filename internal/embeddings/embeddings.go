package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned for requests made after Close.
var ErrClosed = errors.New("embeddings: service closed")

// Backend turns texts into vectors. Implementations must return one vector
// per input, in order.
type Backend interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder is what pipelines depend on.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Result represents the result of embedding generation
type Result struct {
	Content   string
	Embedding []float32
	Error     error
}

// Work represents a unit of embedding work
type Work struct {
	ctx     context.Context
	Content string
	Result  chan<- Result
}

// Service manages embedding generation and caching
type Service struct {
	backend    Backend
	numWorkers int
	workQueue  chan Work
	cache      sync.Map // content -> []float32
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewService creates a new embedding service with the specified number of workers
func NewService(backend Backend, numWorkers int) *Service {
	if numWorkers <= 0 {
		numWorkers = 4
	}

	service := &Service{
		backend:    backend,
		numWorkers: numWorkers,
		workQueue:  make(chan Work, 100),
	}
	service.startWorkers()
	return service
}

// startWorkers starts a pool of goroutines for generating embeddings
func (s *Service) startWorkers() {
	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for work := range s.workQueue {
				if cached, ok := s.lookup(work.Content); ok {
					work.Result <- Result{Content: work.Content, Embedding: cached}
					continue
				}

				embedding, err := s.generateEmbedding(work.ctx, work.Content)
				if err == nil {
					s.cache.Store(work.Content, embedding)
				}
				work.Result <- Result{
					Content:   work.Content,
					Embedding: embedding,
					Error:     err,
				}
			}
		}()
	}
}

func (s *Service) lookup(content string) ([]float32, bool) {
	v, ok := s.cache.Load(content)
	if !ok {
		return nil, false
	}
	embedding, valid := v.([]float32)
	return embedding, valid
}

// GetEmbedding requests an embedding asynchronously. The returned channel
// receives exactly one Result.
func (s *Service) GetEmbedding(ctx context.Context, content string) <-chan Result {
	resultChan := make(chan Result, 1)

	if cached, ok := s.lookup(content); ok {
		resultChan <- Result{Content: content, Embedding: cached}
		return resultChan
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		resultChan <- Result{Content: content, Error: ErrClosed}
		return resultChan
	}

	select {
	case s.workQueue <- Work{ctx: ctx, Content: content, Result: resultChan}:
	case <-ctx.Done():
		resultChan <- Result{Content: content, Error: ctx.Err()}
	}
	return resultChan
}

// Embed returns embeddings for texts in order, stopping at the first error.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			select {
			case res := <-s.GetEmbedding(gctx, text):
				if res.Error != nil {
					return fmt.Errorf("embed %q: %w", truncate(text, 40), res.Error)
				}
				out[i] = res.Embedding
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// generateEmbedding creates a vector embedding for the content
func (s *Service) generateEmbedding(ctx context.Context, content string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors, err := s.backend.EmbedBatch(ctx, []string{content})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("backend returned %d vectors for 1 input", len(vectors))
	}
	return vectors[0], nil
}

// Close shuts down the embedding service and waits for all workers to finish
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.workQueue)
	s.mu.Unlock()
	s.wg.Wait()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
