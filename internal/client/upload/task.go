// Package upload moves user-picked files into blob storage. Each file gets a
// Task whose progress stream is independent of its final result, and
// UploadAll runs a batch concurrently with all-or-nothing semantics.
package upload

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Source is a file the user picked for upload.
type Source interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadSeekCloser, error)
}

// Uploader is the blob store consumed by the pipeline.
type Uploader interface {
	Put(ctx context.Context, name string, body io.ReadSeeker, size int64, contentType string) error
	URL(ctx context.Context, name string) (string, error)
}

type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Progress is one observation of a running upload.
type Progress struct {
	Name             string
	BytesTransferred int64
	TotalBytes       int64
	State            State
}

// Percent is BytesTransferred/TotalBytes scaled to 0..100. An empty file
// reports 100 once it has succeeded.
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		if p.State == StateSucceeded {
			return 100
		}
		return 0
	}
	return float64(p.BytesTransferred) / float64(p.TotalBytes) * 100
}

const progressBuffer = 32

// Task is a single in-flight upload.
type Task struct {
	name     string
	progress chan Progress
	done     chan struct{}
	url      string
	err      error

	mu     sync.Mutex
	closed bool
}

// Start begins uploading src under name in its own goroutine.
func Start(ctx context.Context, u Uploader, name string, src Source) *Task {
	t := &Task{
		name:     name,
		progress: make(chan Progress, progressBuffer),
		done:     make(chan struct{}),
	}
	go t.run(ctx, u, src)
	return t
}

func (t *Task) Name() string { return t.name }

// Progress streams observations and is closed when the upload finishes.
// Events are dropped rather than stalling the upload when nobody reads.
func (t *Task) Progress() <-chan Progress { return t.progress }

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the upload finishes and returns the object URL.
func (t *Task) Wait() (string, error) {
	<-t.done
	return t.url, t.err
}

func (t *Task) emit(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	select {
	case t.progress <- p:
	default:
	}
}

// emitFinal always delivers p, dropping the oldest buffered event when the
// buffer is full.
func (t *Task) emitFinal(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		select {
		case t.progress <- p:
			return
		default:
		}
		select {
		case <-t.progress:
		default:
		}
	}
}

func (t *Task) closeProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	close(t.progress)
}

func (t *Task) run(ctx context.Context, u Uploader, src Source) {
	defer close(t.done)
	defer t.closeProgress()

	total := src.Size()
	t.url, t.err = t.upload(ctx, u, src, total)

	last := Progress{Name: t.name, TotalBytes: total, BytesTransferred: total, State: StateSucceeded}
	if t.err != nil {
		last.State = StateFailed
		last.BytesTransferred = 0
	}
	t.emitFinal(last)
}

func (t *Task) upload(ctx context.Context, u Uploader, src Source, total int64) (string, error) {
	body, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer body.Close()

	pr := &progressReader{r: body, onRead: func(n int64) {
		t.emit(Progress{Name: t.name, BytesTransferred: n, TotalBytes: total, State: StateRunning})
	}}

	if err := u.Put(ctx, t.name, pr, total, src.ContentType()); err != nil {
		return "", fmt.Errorf("put %s: %w", t.name, err)
	}

	url, err := u.URL(ctx, t.name)
	if err != nil {
		return "", fmt.Errorf("url %s: %w", t.name, err)
	}
	return url, nil
}

// progressReader counts bytes read. Seeking back to the start resets the
// count, since signers may read the body once before sending it.
type progressReader struct {
	r      io.ReadSeeker
	mu     sync.Mutex
	n      int64
	onRead func(int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.n += int64(n)
		total := p.n
		p.mu.Unlock()
		p.onRead(total)
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.mu.Lock()
		p.n = pos
		p.mu.Unlock()
	}
	return pos, err
}
