package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrURLExpired is returned by Resolve for a presigned URL past its validity window.
var ErrURLExpired = errors.New("presigned url expired")

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStorage keeps objects in process memory. Used for local development and tests.
// The *Err fields inject failures into the matching operation.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
	now     func() time.Time

	PutErr     error
	PresignErr error
	DeleteErr  error
}

func NewMemoryStorage(bucket string) *MemoryStorage {
	if bucket == "" {
		bucket = "memory"
	}
	return &MemoryStorage{bucket: bucket, objects: make(map[string]memoryObject), now: time.Now}
}

// SetClock replaces the time source used for presign expiry.
func (m *MemoryStorage) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read payload for %q: %w", key, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("put object %q: size mismatch %d != %d", key, len(data), size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (m *MemoryStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	m.mu.RLock()
	exp := m.now().Add(expires).Unix()
	m.mu.RUnlock()
	u := url.URL{Scheme: "memory", Host: m.bucket, Path: "/" + key}
	u.RawQuery = url.Values{"expires": {strconv.FormatInt(exp, 10)}}.Encode()
	return u.String(), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Resolve dereferences a URL produced by PresignGet, honouring its expiry.
func (m *MemoryStorage) Resolve(raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "memory" || u.Host != m.bucket {
		return nil, fmt.Errorf("foreign url %q", raw)
	}
	exp, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad expires in %q", raw)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.now().Before(time.Unix(exp, 0)) {
		return nil, ErrURLExpired
	}
	obj, ok := m.objects[u.Path[1:]]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

// Object returns a copy of the stored bytes and content type for key.
func (m *MemoryStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

// Len reports the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
