package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
)

type memVideoRepo struct {
	mu     sync.Mutex
	seq    int
	videos map[string]*entity.VideoEntity
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: map[string]*entity.VideoEntity{}}
}

func (r *memVideoRepo) Create(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	v.SetID(fmt.Sprintf("v%d", r.seq))
	r.videos[v.ID()] = v
	return nil
}

func (r *memVideoRepo) Get(_ context.Context, id string) (*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, repo.ErrRecordNotFound
	}
	return v, nil
}

func (r *memVideoRepo) Replace(_ context.Context, v *entity.VideoEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.ID()] = v
	return nil
}

func (r *memVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return repo.ErrRecordNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *memVideoRepo) ListByOwner(_ context.Context, userID string) ([]*entity.VideoEntity, error) {
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

type stubProber struct {
	meta vo.VideoMetadata
	err  error
}

func (p stubProber) Probe(context.Context, string) (vo.VideoMetadata, error) {
	return p.meta, p.err
}

type stubPipeline struct {
	err   error
	calls int
}

func (p *stubPipeline) Run(_ context.Context, video *entity.VideoEntity, _ vo.ProcessingOptions) (*entity.VideoEntity, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return video, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []gateway.VideoEvent
}

func (p *recordingPublisher) PublishVideoEvent(_ context.Context, e gateway.VideoEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.UserEntity
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.UserEntity{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.UserEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.SetID(fmt.Sprintf("u%d", r.seq))
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Get(_ context.Context, id string) (*entity.UserEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repo.ErrRecordNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.UserEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, repo.ErrRecordNotFound
}

func (r *memUserRepo) GetByProvider(_ context.Context, provider vo.AuthProvider, providerID string) (*entity.UserEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Provider() == provider && u.ProviderID() == providerID {
			return u, nil
		}
	}
	return nil, repo.ErrRecordNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.UserEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID, email, role string) (string, time.Time, error) {
	return "tok-" + userID + "-" + role, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type stubIdentityProvider struct {
	identity *gateway.ExternalIdentity
	err      error
}

func (p stubIdentityProvider) Name() string { return "google" }

func (p stubIdentityProvider) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + state
}

func (p stubIdentityProvider) Exchange(context.Context, string) (*gateway.ExternalIdentity, error) {
	return p.identity, p.err
}

type memTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*entity.TicketEntity
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: map[string]*entity.TicketEntity{}}
}

func (r *memTicketRepo) Create(_ context.Context, t *entity.TicketEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.SetID(fmt.Sprintf("t%d", r.seq))
	r.tickets[t.ID()] = t
	return nil
}

func (r *memTicketRepo) Get(_ context.Context, id string) (*entity.TicketEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tickets[id]; ok {
		return t, nil
	}
	return nil, repo.ErrRecordNotFound
}

func (r *memTicketRepo) Update(_ context.Context, t *entity.TicketEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID()] = t
	return nil
}

func (r *memTicketRepo) ListByUser(_ context.Context, userID string) ([]*entity.TicketEntity, error) {
	return r.filter(repo.TicketFilter{}, userID), nil
}

func (r *memTicketRepo) List(_ context.Context, f repo.TicketFilter) ([]*entity.TicketEntity, error) {
	return r.filter(f, ""), nil
}

func (r *memTicketRepo) filter(f repo.TicketFilter, owner string) []*entity.TicketEntity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TicketEntity
	for _, t := range r.tickets {
		if owner != "" && t.UserID() != owner {
			continue
		}
		if f.Status != "" && t.Status() != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority() != f.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r *memTicketRepo) CountByStatus(context.Context) (map[vo.TicketStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[vo.TicketStatus]int64{}
	for _, t := range r.tickets {
		out[t.Status()]++
	}
	return out, nil
}
