package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches a subject's question bank from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, subjectID string) (domain.Bank, error)
}

// BankRepository caches banks with TTL to avoid repeated store hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, subjectID string) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[subjectID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(subjectID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[subjectID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx, subjectID)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[subjectID] = cachedBank{
			bank:      bank,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// StaticBankLoader is a loader backed by an in-memory map (tests/demos).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, subjectID string) (domain.Bank, error) {
	if bank, ok := l.banks[subjectID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrSubjectNotFound
}

// Subjects derives a catalog from the static map, sorted by ID since there is
// no curated ordering to honor.
func (l *StaticBankLoader) Subjects(_ context.Context) ([]domain.Subject, error) {
	subjects := make([]domain.Subject, 0, len(l.banks))
	for id, bank := range l.banks {
		subjects = append(subjects, domain.Subject{
			ID:            id,
			Name:          id,
			QuestionCount: len(bank.Questions),
		})
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
