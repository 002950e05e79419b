package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/cuesheet/internal/audio"
)

// holds the result of transcribing a chunk
type chunkResult struct {
	Index    int
	Segments []Segment
	Error    error
}

// TranscribeChunk transcribes one chunk and moves its segments onto the
// timeline of the whole file.
func TranscribeChunk(
	ctx context.Context,
	t Transcriber,
	chunk audio.ChunkInfo,
) ([]Segment, error) {
	result, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}
	return offsetSegments(result.Segments, chunk.StartTime), nil
}

// TranscribeChunks transcribes chunks in parallel. The first failure cancels
// the remaining work; segments come back in chunk order.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					segments, err := TranscribeChunk(ctx, t, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:    chunk.Index,
						Segments: segments,
						Error:    err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"chunk %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if len(results) < len(chunks) {
		// parent context was cancelled before every chunk ran
		return nil, ctx.Err()
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var allSegments []Segment
	for _, r := range results {
		allSegments = append(allSegments, r.Segments...)
	}

	return &Result{
		Segments: allSegments,
		Duration: chunks[len(chunks)-1].EndTime,
	}, nil
}
