package redis

import (
	"context"
	"testing"
	"time"

	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{
			"math": sampleBank(),
		}),
	}
	repo := NewBankRepository(client, loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "math")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("bank:math") {
		t.Fatalf("expected bank cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.GetBank(context.Background(), "math")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached.Questions) != len(bank.Questions) {
		t.Fatalf("cache returned a different bank: %d vs %d questions", len(cached.Questions), len(bank.Questions))
	}
	if cached.Questions[0].Options[cached.Questions[0].CorrectIndex] != "12" {
		t.Fatalf("cache lost the answer key: %+v", cached.Questions[0])
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, subjectID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, subjectID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		SubjectID: "math",
		Questions: []domain.Question{
			{
				ID:           "m1",
				Text:         "ما ناتج: 5 + 7 ؟",
				Options:      []string{"10", "12", "13", "11"},
				CorrectIndex: 1,
				Points:       5,
				Difficulty:   domain.DifficultyEasy,
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
