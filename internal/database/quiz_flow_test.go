package database

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/internal/vocabulary"
)

type fixedCompleter struct {
	content string
}

func (f *fixedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.content, nil
}

// runQuiz plays a full quiz for the topic "Числа" against a mocked
// generator, answering correctCount questions right, and applies the
// outcome to the store the way the bot does on finalization.
func runQuiz(t *testing.T, dict *DictionaryRepository, users *UserRepository, userID int64, correctCount int) quiz.Result {
	t.Helper()

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("número%d - число%d", i, i)
	}
	generator := vocabulary.NewGenerator(&fixedCompleter{content: strings.Join(lines, "\n")})

	existing, err := dict.GetSourceWords(userID)
	if err != nil {
		t.Fatalf("GetSourceWords: %v", err)
	}
	words, err := generator.Generate(context.Background(), "Числа", existing)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	session := quiz.NewSession("Числа")
	if err := session.SetWords(words); err != nil {
		t.Fatalf("SetWords: %v", err)
	}

	if _, ok := session.NextQuestion(); !ok {
		t.Fatal("expected the first question")
	}

	var result quiz.Result
	for i := 0; i < 10; i++ {
		answer := "мимо"
		if i < correctCount {
			answer = words[i].Translation
		}
		outcome, err := session.Answer(answer)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if outcome.Result != nil {
			result = *outcome.Result
		}
	}
	if result.Total == 0 {
		t.Fatal("quiz did not finalize")
	}
	if result.Passed {
		if err := dict.AddWords(userID, result.Words); err != nil {
			t.Fatalf("AddWords: %v", err)
		}
	} else {
		if err := dict.RecomputeVocabProgress(userID); err != nil {
			t.Fatalf("RecomputeVocabProgress: %v", err)
		}
	}
	if err := users.SetGrammarProgress(userID, 50); err != nil {
		t.Fatalf("SetGrammarProgress: %v", err)
	}
	return result
}

func TestQuizFlow_PassPersistsWords(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	dict := NewDictionaryRepository(db)
	if _, err := users.EnsureUser(100, "anna"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	result := runQuiz(t, dict, users, 100, 8)
	if !result.Passed || result.Percentage != 80 {
		t.Fatalf("expected a pass at 80%%, got %+v", result)
	}

	count, err := dict.Count(100)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 10 {
		t.Fatalf("expected all 10 pairs stored, got %d", count)
	}
	for i := 0; i < 10; i++ {
		has, err := dict.HasWord(100, fmt.Sprintf("número%d", i))
		if err != nil {
			t.Fatalf("HasWord: %v", err)
		}
		if !has {
			t.Errorf("número%d missing from the store", i)
		}
	}

	user, err := users.GetByID(100)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.VocabProgress != 1 {
		t.Errorf("expected 1%% vocab progress, got %d%%", user.VocabProgress)
	}
	if user.GrammarProgress != 50 {
		t.Errorf("expected grammar progress stub, got %d", user.GrammarProgress)
	}
}

func TestQuizFlow_FailPersistsNothing(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	dict := NewDictionaryRepository(db)
	if _, err := users.EnsureUser(200, "boris"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	result := runQuiz(t, dict, users, 200, 7)
	if result.Passed || result.Percentage != 70 {
		t.Fatalf("expected a fail at 70%%, got %+v", result)
	}

	count, err := dict.Count(200)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no stored words on a fail, got %d", count)
	}
}
