package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/resume"
	"job-tracker/internal/infrastructure/blob"

	"github.com/google/uuid"
)

// callLog records store calls in order across fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

type fakeAppRepo struct {
	log   *callLog
	items map[uuid.UUID]application.Application
	err   error
}

func newFakeAppRepo(log *callLog) *fakeAppRepo {
	return &fakeAppRepo{log: log, items: map[uuid.UUID]application.Application{}}
}

func (r *fakeAppRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, f application.ListFilter) ([]application.Application, error) {
	r.log.add("app.list")
	if r.err != nil {
		return nil, r.err
	}
	out := make([]application.Application, 0)
	for _, a := range r.items {
		if a.UserID != ownerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Company+" "+a.JobTitle), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ApplicationDate.After(out[j].ApplicationDate) })
	return out, nil
}

func (r *fakeAppRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (application.Application, error) {
	r.log.add("app.get")
	a, ok := r.items[id]
	if !ok || a.UserID != ownerID {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (r *fakeAppRepo) Insert(_ context.Context, a application.Application) (application.Application, error) {
	r.log.add("app.insert")
	if r.err != nil {
		return application.Application{}, r.err
	}
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.items[a.ID] = a
	return a, nil
}

func (r *fakeAppRepo) Update(_ context.Context, a application.Application) (application.Application, error) {
	r.log.add("app.update")
	if r.err != nil {
		return application.Application{}, r.err
	}
	cur, ok := r.items[a.ID]
	if !ok || cur.UserID != a.UserID {
		return application.Application{}, application.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = a
	return a, nil
}

func (r *fakeAppRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.log.add("app.delete")
	if r.err != nil {
		return r.err
	}
	a, ok := r.items[id]
	if !ok || a.UserID != ownerID {
		return application.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeResumeRepo struct {
	log       *callLog
	items     map[uuid.UUID]resume.Resume
	upsertErr error
	deleteErr error
}

func newFakeResumeRepo(log *callLog) *fakeResumeRepo {
	return &fakeResumeRepo{log: log, items: map[uuid.UUID]resume.Resume{}}
}

func (r *fakeResumeRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, search string) ([]resume.Resume, error) {
	r.log.add("resume.list")
	out := make([]resume.Resume, 0)
	for _, rec := range r.items {
		if rec.UserID == ownerID && strings.Contains(strings.ToLower(rec.ProfileTitle), strings.ToLower(search)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	r.log.add("resume.get")
	rec, ok := r.items[id]
	if !ok || rec.UserID != ownerID {
		return resume.Resume{}, resume.ErrNotFound
	}
	return rec, nil
}

func (r *fakeResumeRepo) Upsert(_ context.Context, rec resume.Resume) (resume.Resume, error) {
	r.log.add("resume.upsert")
	if r.upsertErr != nil {
		return resume.Resume{}, r.upsertErr
	}
	if cur, ok := r.items[rec.ID]; ok {
		if cur.UserID != rec.UserID {
			return resume.Resume{}, resume.ErrNotFound
		}
		rec.CreatedAt = cur.CreatedAt
	} else {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = time.Now().UTC()
	r.items[rec.ID] = rec
	return rec, nil
}

func (r *fakeResumeRepo) ClearURL(_ context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	r.log.add("resume.clear_url")
	rec, ok := r.items[id]
	if !ok || rec.UserID != ownerID {
		return resume.Resume{}, resume.ErrNotFound
	}
	rec.ResumeURL = nil
	r.items[id] = rec
	return rec, nil
}

func (r *fakeResumeRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.log.add("resume.delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	rec, ok := r.items[id]
	if !ok || rec.UserID != ownerID {
		return resume.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

const fakeBlobBase = "https://blobs.test/"

type fakeBlobStore struct {
	log       *callLog
	objects   map[string][]byte
	uploadErr error
	removeErr error
}

func newFakeBlobStore(log *callLog) *fakeBlobStore {
	return &fakeBlobStore{log: log, objects: map[string][]byte{}}
}

func (s *fakeBlobStore) Upload(_ context.Context, p string, data []byte, _ string) error {
	s.log.add("blob.upload %s", p)
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, ok := s.objects[p]; ok {
		return blob.ErrExists
	}
	s.objects[p] = data
	return nil
}

func (s *fakeBlobStore) PublicURL(p string) string {
	return fakeBlobBase + p
}

func (s *fakeBlobStore) ObjectPath(u string) (string, error) {
	if !strings.HasPrefix(u, fakeBlobBase) || len(u) == len(fakeBlobBase) {
		return "", blob.ErrForeignURL
	}
	return strings.TrimPrefix(u, fakeBlobBase), nil
}

func (s *fakeBlobStore) Remove(_ context.Context, paths ...string) error {
	s.log.add("blob.remove %s", strings.Join(paths, ","))
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, p := range paths {
		delete(s.objects, p)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Invalidation
}

func (p *fakePublisher) PublishInvalidation(_ context.Context, evt Invalidation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fakeFetcher struct {
	obj blob.Object
	err error
	got string
}

func (f *fakeFetcher) Fetch(_ context.Context, u string) (blob.Object, error) {
	f.got = u
	return f.obj, f.err
}

type fakeCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	patterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeLocks struct {
	mu      sync.Mutex
	held    map[string]string
	down    bool
	failErr error
}

func newFakeLocks() *fakeLocks {
	return &fakeLocks{held: map[string]string{}}
}

func (l *fakeLocks) Available() bool { return !l.down }

func (l *fakeLocks) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if l.failErr != nil {
		return false, l.failErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocks) ReleaseIfOwner(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")

func strPtr(s string) *string { return &s }
