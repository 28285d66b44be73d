package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeCompleter struct {
	content string
	err     error
	prompt  string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.content, f.err
}

func wellFormedResponse(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("palabra%d - слово%d", i, i)
	}
	return strings.Join(lines, "\n")
}

func TestParsePairs(t *testing.T) {
	pairs, err := ParsePairs("hola - привет\n\n  adiós - пока  \n")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Word != "hola" || pairs[0].Translation != "привет" {
		t.Errorf("unexpected first pair: %+v", pairs[0])
	}
	if pairs[1].Word != "adiós" || pairs[1].Translation != "пока" {
		t.Errorf("unexpected second pair: %+v", pairs[1])
	}
}

func TestParsePairs_MissingSeparator(t *testing.T) {
	_, err := ParsePairs("hola - привет\nHere are your words:")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerate_ReturnsExactlyTenInModelOrder(t *testing.T) {
	chat := &fakeCompleter{content: wellFormedResponse(12)}
	g := NewGenerator(chat)

	pairs, err := g.Generate(context.Background(), "Числа", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pairs) != WordsPerList {
		t.Fatalf("expected %d pairs, got %d", WordsPerList, len(pairs))
	}
	for i, pair := range pairs {
		if want := fmt.Sprintf("palabra%d", i); pair.Word != want {
			t.Errorf("pair %d out of order: got %q, want %q", i, pair.Word, want)
		}
	}
	if !strings.Contains(chat.prompt, "Числа") {
		t.Errorf("prompt does not mention the topic: %q", chat.prompt)
	}
}

func TestGenerate_FiltersOwnedWords(t *testing.T) {
	chat := &fakeCompleter{content: wellFormedResponse(12)}
	g := NewGenerator(chat)

	existing := map[string]bool{"palabra0": true, "palabra5": true}
	pairs, err := g.Generate(context.Background(), "Еда", existing)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pairs) != WordsPerList {
		t.Fatalf("expected %d pairs, got %d", WordsPerList, len(pairs))
	}
	for _, pair := range pairs {
		if existing[pair.Word] {
			t.Errorf("owned word %q was not filtered out", pair.Word)
		}
	}
}

func TestGenerate_InsufficientUniqueWords(t *testing.T) {
	chat := &fakeCompleter{content: wellFormedResponse(10)}
	g := NewGenerator(chat)

	_, err := g.Generate(context.Background(), "Цвета", map[string]bool{"palabra3": true})
	if !errors.Is(err, ErrInsufficientWords) {
		t.Fatalf("expected ErrInsufficientWords, got %v", err)
	}
}

func TestGenerate_DeduplicatesWithinResponse(t *testing.T) {
	content := wellFormedResponse(10) + "\npalabra0 - дубль"
	chat := &fakeCompleter{content: content}
	g := NewGenerator(chat)

	pairs, err := g.Generate(context.Background(), "Семья", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	seen := make(map[string]bool)
	for _, pair := range pairs {
		if seen[pair.Word] {
			t.Errorf("duplicate word %q in result", pair.Word)
		}
		seen[pair.Word] = true
	}
}

func TestGenerate_CompleterFailure(t *testing.T) {
	chat := &fakeCompleter{err: errors.New("api down")}
	g := NewGenerator(chat)

	if _, err := g.Generate(context.Background(), "Погода", nil); err == nil {
		t.Fatal("expected error when completion fails")
	}
}

func TestTopicByIndex(t *testing.T) {
	topic, err := TopicByIndex(4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if topic != "Числа" {
		t.Errorf("expected Числа, got %q", topic)
	}

	if _, err := TopicByIndex(len(Topics)); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := TopicByIndex(-1); err == nil {
		t.Error("expected error for negative index")
	}
}
