package memory

import (
	"context"
	"testing"
	"time"

	"tahadi-quiz-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{
			"math": sampleBank(),
		}),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "math"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background(), "math"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryUnknownSubject(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), time.Minute)
	if _, err := repo.GetBank(context.Background(), "geology"); err != domain.ErrSubjectNotFound {
		t.Fatalf("expected subject not found, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
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
