package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fakeRepo mirrors the store's transition semantics in memory, including
// the conditional-update CAS on chain status.
type fakeRepo struct {
	mu     sync.Mutex
	assets map[uuid.UUID]Asset
	users  map[uuid.UUID]User
	auth   map[string]AuthUser
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assets: make(map[uuid.UUID]Asset),
		users:  make(map[uuid.UUID]User),
		auth:   make(map[string]AuthUser),
	}
}

func (r *fakeRepo) Health() map[string]string { return map[string]string{"status": "up"} }
func (r *fakeRepo) Close() error              { return nil }

func (r *fakeRepo) CreateAsset(_ context.Context, a Asset) (Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, ok := r.assets[a.ID]; ok {
		return Asset{}, ErrConflict
	}
	if a.RegisteredAt.IsZero() {
		a.RegisteredAt = time.Now()
	}
	a.ChainStatus = ChainStatusUnanchored
	r.assets[a.ID] = a
	return a, nil
}

func (r *fakeRepo) GetAssetByID(_ context.Context, id uuid.UUID) (Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}

func (r *fakeRepo) ListAssets(_ context.Context, opt ListAssetsOption) ([]Asset, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []Asset
	for _, a := range r.assets {
		if opt.OwnerID != uuid.Nil && a.OwnerID != opt.OwnerID {
			continue
		}
		if opt.ContentHash != "" && a.ContentHash != opt.ContentHash {
			continue
		}
		list = append(list, a)
	}

	asc := opt.SortIn == "asc"
	sort.Slice(list, func(i, j int) bool {
		if asc {
			return list[i].RegisteredAt.Before(list[j].RegisteredAt)
		}
		return list[j].RegisteredAt.Before(list[i].RegisteredAt)
	})

	total := len(list)
	if opt.Skip > 0 {
		if opt.Skip >= len(list) {
			list = nil
		} else {
			list = list[opt.Skip:]
		}
	}
	if opt.Limit > 0 && len(list) > opt.Limit {
		list = list[:opt.Limit]
	}

	return list, total, nil
}

func (r *fakeRepo) UpdateAssetChainStatus(_ context.Context, id uuid.UUID, tr ChainTransition) (Asset, error) {
	if !tr.From.CanTransition(tr.To) {
		return Asset{}, ErrInvalidTransition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	if a.ChainStatus != tr.From {
		if a.ChainStatus == ChainStatusPending && tr.To == ChainStatusPending {
			return Asset{}, ErrAlreadyPending
		}
		return Asset{}, ErrInvalidTransition
	}

	a.ChainStatus = tr.To
	switch tr.To {
	case ChainStatusPending:
		a.ChainTxRef = tr.TxRef
		a.ChainError = ""
	case ChainStatusConfirmed:
		a.ChainBlockRef = tr.BlockRef
		a.ChainError = ""
		if tr.Receipt != nil {
			a.ChainReceipt = tr.Receipt
		}
	case ChainStatusFailed:
		a.ChainError = tr.Reason
	}
	a.UpdatedAt = time.Now()
	r.assets[id] = a

	return a, nil
}

func (r *fakeRepo) CreateUser(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.users {
		if e.Name == u.Name || e.Email == u.Email {
			return User{}, ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetUserByName(_ context.Context, name string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Name == name {
			if au, ok := r.auth[u.ID.String()]; ok {
				u.AuthUser = &au
			}
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) CreateAuthUser(_ context.Context, au AuthUser) (AuthUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auth[au.UID]; ok {
		return AuthUser{}, ErrConflict
	}
	r.auth[au.UID] = au
	return au, nil
}

func (r *fakeRepo) GetAuthUserByUID(_ context.Context, uid string) (AuthUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	au, ok := r.auth[uid]
	if !ok {
		return AuthUser{}, ErrNotFound
	}
	return au, nil
}

// fakeChain scripts the gateway's behavior per test.
type fakeChain struct {
	mu          sync.Mutex
	degraded    bool
	submitRef   ChainPendingRef
	submitErr   error
	outcome     ChainOutcome
	awaitErr    error
	ledgerAsset ChainAsset
	ledgerErr   error
	submissions []ChainSubmission
}

func (c *fakeChain) SubmitRegistration(_ context.Context, sub ChainSubmission) (ChainPendingRef, error) {
	c.mu.Lock()
	c.submissions = append(c.submissions, sub)
	c.mu.Unlock()
	if c.submitErr != nil {
		return ChainPendingRef{}, c.submitErr
	}
	return c.submitRef, nil
}

func (c *fakeChain) AwaitOutcome(context.Context, ChainPendingRef) (ChainOutcome, error) {
	if c.awaitErr != nil {
		return ChainOutcome{}, c.awaitErr
	}
	return c.outcome, nil
}

func (c *fakeChain) GetAssetByHash(context.Context, string) (ChainAsset, error) {
	if c.ledgerErr != nil {
		return ChainAsset{}, c.ledgerErr
	}
	return c.ledgerAsset, nil
}

func (c *fakeChain) Degraded() bool { return c.degraded }

// fakeQueue records enqueued watcher ids.
type fakeQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *fakeQueue) EnqueueConfirmAnchor(_ context.Context, assetID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, assetID)
	return nil
}

// fakeStorage captures the stored bytes so tests can assert the hashed
// stream and the persisted stream are the same pass.
type fakeStorage struct {
	path string
	size int64
	data bytes.Buffer
}

func (s *fakeStorage) Put(_ context.Context, path string, r io.Reader, size int64) error {
	s.path = path
	s.size = size
	_, err := s.data.ReadFrom(r)
	return err
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, path string) (string, error) {
	return "https://files.test/" + path, nil
}

type fakeMail struct {
	mu   sync.Mutex
	sent []Email
}

func (m *fakeMail) SendEmail(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

type fakeIdentity struct{}

func (fakeIdentity) IssueToken(_ context.Context, uid string) (string, error) {
	return "token-" + uid, nil
}

func (fakeIdentity) VerifyIDToken(_ context.Context, token string) (string, error) {
	return token[len("token-"):], nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
