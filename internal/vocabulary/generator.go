package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/vocabbot/pkg/models"
)

// WordsPerList is the number of word pairs every generated list must
// contain. The quiz distractor sampling assumes a pool of this size.
const WordsPerList = 10

// pairSeparator splits a response line into source word and translation
const pairSeparator = " - "

// Topics are the fixed categories available for word generation
var Topics = []string{
	"Приветствия",
	"Семья",
	"Еда",
	"Цвета",
	"Числа",
	"Дни недели",
	"Месяцы",
	"Погода",
	"Животные",
	"Одежда",
}

var (
	// ErrMalformedResponse means the model returned a line without the
	// "word - translation" separator
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrInsufficientWords means fewer than WordsPerList unique pairs
	// remained after filtering out words the user already owns
	ErrInsufficientWords = errors.New("not enough unique words")
)

// completer produces raw text for a prompt
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces topic word lists via an external language model
type Generator struct {
	chat completer
}

// NewGenerator creates a new generator backed by the given completer
func NewGenerator(chat completer) *Generator {
	return &Generator{chat: chat}
}

// Generate requests WordsPerList word pairs for the topic and filters out
// any pair whose Spanish word is already in existing. It fails if the
// response is malformed or fewer than WordsPerList unique pairs remain.
// Pairs are returned in the order the model produced them.
func (g *Generator) Generate(ctx context.Context, topic string, existing map[string]bool) ([]models.WordPair, error) {
	prompt := fmt.Sprintf(
		"Generate a list of %d random Spanish words related to the topic '%s', with their Russian translations formatted as 'Spanish - Russian'",
		WordsPerList, topic,
	)

	content, err := g.chat.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("word generation failed: %w", err)
	}

	pairs, err := ParsePairs(content)
	if err != nil {
		return nil, err
	}

	unique := make([]models.WordPair, 0, WordsPerList)
	seen := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		if existing[pair.Word] || seen[pair.Word] {
			continue
		}
		seen[pair.Word] = true
		unique = append(unique, pair)
	}

	if len(unique) < WordsPerList {
		return nil, fmt.Errorf("%w: got %d for topic '%s'", ErrInsufficientWords, len(unique), topic)
	}

	return unique[:WordsPerList], nil
}

// ParsePairs parses the line-oriented "Spanish - Russian" response format.
// A non-empty line without the separator fails the whole response.
func ParsePairs(content string) ([]models.WordPair, error) {
	var pairs []models.WordPair
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, pairSeparator, 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %q has no separator", ErrMalformedResponse, line)
		}
		pairs = append(pairs, models.WordPair{
			Word:        strings.TrimSpace(parts[0]),
			Translation: strings.TrimSpace(parts[1]),
		})
	}
	return pairs, nil
}

// TopicByIndex returns the topic name for a menu index
func TopicByIndex(index int) (string, error) {
	if index < 0 || index >= len(Topics) {
		return "", fmt.Errorf("invalid topic index %d", index)
	}
	return Topics[index], nil
}
