package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/common"
)

type memFile struct {
	name string
	ct   string
	data []byte
}

type nopSeekCloser struct{ *bytes.Reader }

func (nopSeekCloser) Close() error { return nil }

func (m *memFile) Name() string        { return m.name }
func (m *memFile) Size() int64         { return int64(len(m.data)) }
func (m *memFile) ContentType() string { return m.ct }
func (m *memFile) Open() (io.ReadSeekCloser, error) {
	return nopSeekCloser{bytes.NewReader(m.data)}, nil
}

func png(name string) *memFile { return &memFile{name: name, ct: "image/png", data: []byte("png:" + name)} }

type fakeRepo struct {
	mu         sync.Mutex
	records    map[string]*models.Profile
	getErr     error
	replaceErr error
	replaces   int

	// getStarted and getGate, when set, hold Get until getGate is closed.
	getStarted chan struct{}
	getGate    chan struct{}
}

func newFakeRepo() *fakeRepo { return &fakeRepo{records: map[string]*models.Profile{}} }

func (r *fakeRepo) Get(ctx context.Context, key string) (*models.Profile, error) {
	if r.getStarted != nil {
		close(r.getStarted)
	}
	if r.getGate != nil {
		<-r.getGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.records[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (r *fakeRepo) Replace(ctx context.Context, key string, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	c := p.Clone()
	r.records[key] = &c
	return nil
}

func (r *fakeRepo) stored(key string) *models.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[key]
}

type fakeUploader struct {
	mu      sync.Mutex
	puts    []string
	failOn  string
	gate    chan struct{}
	started chan struct{}
}

func (u *fakeUploader) Put(ctx context.Context, name string, body io.ReadSeeker, size int64, contentType string) error {
	u.mu.Lock()
	u.puts = append(u.puts, name)
	gate, started := u.gate, u.started
	u.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if u.failOn != "" && strings.Contains(name, u.failOn) {
		return errors.New("upload rejected: " + name)
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

func (u *fakeUploader) URL(ctx context.Context, name string) (string, error) {
	return "https://cdn.test/" + name, nil
}

func (u *fakeUploader) putCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.puts)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strconv.Itoa(n)
	}
}
