package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
)

type fakeVideoRepo struct {
	mu       sync.Mutex
	videos   map[string]*entity.VideoEntity
	replaces int
	failSave error
}

func newFakeVideoRepo(videos ...*entity.VideoEntity) *fakeVideoRepo {
	r := &fakeVideoRepo{videos: map[string]*entity.VideoEntity{}}
	for _, v := range videos {
		r.videos[v.ID()] = v
	}
	return r
}

func (r *fakeVideoRepo) Create(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.ID()] = v
	return nil
}

func (r *fakeVideoRepo) Get(_ context.Context, id string) (*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, repo.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVideoRepo) Replace(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	if r.failSave != nil {
		return r.failSave
	}
	r.videos[v.ID()] = v
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) ListByOwner(_ context.Context, userID string) ([]*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.videos {
		if v.UserID() == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeMedia writes a small file for every output and records the inputs it saw.
type fakeMedia struct {
	mu      sync.Mutex
	calls   []string
	inputs  map[string]string
	offsets []float64
	fail    map[string]error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{inputs: map[string]string{}, fail: map[string]error{}}
}

func (m *fakeMedia) record(name, input, output string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	m.inputs[name] = input
	if err := m.fail[name]; err != nil {
		return err
	}
	return os.WriteFile(output, []byte(name), 0o644)
}

func (m *fakeMedia) CutSilence(_ context.Context, input, output string, _ float64, _ time.Duration) error {
	return m.record("cut_silence", input, output)
}

func (m *fakeMedia) EnhanceAudio(_ context.Context, input, output, _ string) error {
	return m.record("enhance_audio", input, output)
}

func (m *fakeMedia) SampleFrame(_ context.Context, input, output string, offset float64) error {
	m.mu.Lock()
	m.offsets = append(m.offsets, offset)
	m.mu.Unlock()
	return m.record("sample_frame", input, output)
}

func (m *fakeMedia) ExtractAudio(_ context.Context, input, output string) error {
	return m.record("extract_audio", input, output)
}

func (m *fakeMedia) EnhanceVideo(_ context.Context, input, output string, _ port.VideoEnhanceParams) error {
	return m.record("enhance_video", input, output)
}

func (m *fakeMedia) Probe(_ context.Context, _ string) (vo.VideoMetadata, error) {
	return vo.VideoMetadata{}, nil
}

type fakeTranscriber struct {
	segments []vo.TranscriptSegment
	err      error
	calls    int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, _ string) ([]vo.TranscriptSegment, error) {
	f.calls++
	return f.segments, f.err
}

type fakeSummarizer struct {
	text string
	err  error
	got  string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	f.got = text
	return f.text, f.err
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) TryLock(_ context.Context, id string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[id] {
		return nil, port.ErrLockHeld
	}
	l.held[id] = true
	return func() {
		l.mu.Lock()
		delete(l.held, id)
		l.mu.Unlock()
	}, nil
}

type fakePublisher struct {
	events []gateway.VideoEvent
	err    error
}

func (p *fakePublisher) PublishVideoEvent(_ context.Context, e gateway.VideoEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fakeMirror struct {
	mirrored []string
}

func (m *fakeMirror) Mirror(_ context.Context, _ string, paths []string) ([]string, error) {
	m.mirrored = append(m.mirrored, paths...)
	return paths, nil
}

func (m *fakeMirror) Remove(_ context.Context, _ string, _ []string) error {
	return nil
}

var errBoom = errors.New("boom")
