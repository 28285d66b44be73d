package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/vocabbot/pkg/models"
)

const (
	// QuestionsPerQuiz is the fixed word pool size of every quiz.
	// Generation enforces it before a session can start; distractor
	// sampling assumes the other nine entries are available.
	QuestionsPerQuiz = 10
	// OptionsPerQuestion is the number of answer buttons per question:
	// one correct translation plus three distractors
	OptionsPerQuestion = 4
	// PassThresholdPercent is the minimum score that adds the quiz words
	// to the user's dictionary
	PassThresholdPercent = 80
)

var (
	// ErrNoWords means the session has a topic but no word pool, which
	// happens when word generation failed and the topic was kept for a
	// retry
	ErrNoWords = errors.New("quiz has no words")
	// ErrFinished means the final question was already answered and the
	// quiz finalized
	ErrFinished = errors.New("quiz already finished")
)

// Question is a single multiple-choice translation question
type Question struct {
	Word    string   // the Spanish word being asked
	Options []string // shuffled answer options, exactly one correct
	Number  int      // 1-based position within the quiz
	Total   int      // total questions in the quiz
}

// Result is the outcome of a finished quiz
type Result struct {
	Topic      string
	Correct    int
	Incorrect  int
	Total      int
	Percentage int
	Passed     bool
	Words      []models.WordPair // the full quiz pool, persisted on pass
}

// AnswerOutcome is what one submitted answer produced: feedback for the
// user plus either the next question or, after the last answer, the quiz
// result.
type AnswerOutcome struct {
	Correct       bool
	CorrectAnswer string
	Next          *Question // nil when the quiz just finished
	Result        *Result   // non-nil exactly once, on the final answer
}

// Session tracks one user's quiz in progress. A session is created when
// the user picks a topic, receives its word pool when generation
// succeeds, and is destroyed when the last question is answered.
// Updates are dispatched on separate goroutines, so every state
// transition locks the session.
type Session struct {
	Topic string

	mu             sync.Mutex
	words          []models.WordPair
	currentIndex   int
	correctCount   int
	incorrectCount int
	correctAnswer  string
	finished       bool
	rnd            *rand.Rand
}

// NewSession creates a session for the selected topic
func NewSession(topic string) *Session {
	return &Session{
		Topic: topic,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetWords installs the generated word pool. The pool size is fixed:
// the question loop and the distractor sampling assume exactly
// QuestionsPerQuiz entries.
func (s *Session) SetWords(words []models.WordPair) error {
	if len(words) != QuestionsPerQuiz {
		return fmt.Errorf("quiz needs exactly %d words, got %d", QuestionsPerQuiz, len(words))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = words
	s.currentIndex = 0
	s.correctCount = 0
	s.incorrectCount = 0
	s.finished = false
	return nil
}

// Started reports whether the session has a word pool
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words) > 0
}

// Finished reports whether every question has been answered
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// NextQuestion builds the question for the current index and caches its
// correct answer. It returns false when the session has no words or all
// questions are answered.
func (s *Session) NextQuestion() (*Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.words) == 0 || s.finished || s.currentIndex >= len(s.words) {
		return nil, false
	}
	return s.buildQuestion(), true
}

// buildQuestion assembles the current question. Callers hold the lock.
func (s *Session) buildQuestion() *Question {
	current := s.words[s.currentIndex]
	s.correctAnswer = current.Translation

	// Sample three distractors without replacement from the other
	// entries' translations.
	others := make([]string, 0, len(s.words)-1)
	for i, pair := range s.words {
		if i != s.currentIndex {
			others = append(others, pair.Translation)
		}
	}
	s.rnd.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	options := append([]string{current.Translation}, others[:OptionsPerQuestion-1]...)
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		Word:    current.Word,
		Options: options,
		Number:  s.currentIndex + 1,
		Total:   len(s.words),
	}
}

// Answer scores one submitted answer against the cached correct
// translation by exact string equality and advances the quiz. The whole
// transition is atomic: the outcome carries either the next question or,
// after the final answer, the result — which is produced exactly once,
// no matter how fast answer events arrive. A session without words
// (generation failed, topic kept for retry) returns ErrNoWords.
func (s *Session) Answer(answer string) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.words) == 0 {
		return AnswerOutcome{}, ErrNoWords
	}
	if s.finished {
		return AnswerOutcome{}, ErrFinished
	}

	outcome := AnswerOutcome{
		Correct:       answer == s.correctAnswer,
		CorrectAnswer: s.correctAnswer,
	}
	if outcome.Correct {
		s.correctCount++
	} else {
		s.incorrectCount++
	}
	s.currentIndex++

	if s.currentIndex >= len(s.words) {
		s.finished = true
		result := s.result()
		outcome.Result = &result
	} else {
		outcome.Next = s.buildQuestion()
	}
	return outcome, nil
}

// result computes the quiz outcome. Callers hold the lock. A session
// without a word pool cannot get here: generation guarantees the pool
// before any answer is accepted.
func (s *Session) result() Result {
	if len(s.words) == 0 {
		panic("quiz: result requested for session without words")
	}
	percentage := s.correctCount * 100 / len(s.words)
	return Result{
		Topic:      s.Topic,
		Correct:    s.correctCount,
		Incorrect:  s.incorrectCount,
		Total:      len(s.words),
		Percentage: percentage,
		Passed:     percentage >= PassThresholdPercent,
		Words:      s.words,
	}
}

// Manager keys active sessions by Telegram user ID. The mutex guards the
// map; the sessions lock their own state.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// SelectTopic creates a fresh session for the topic, replacing any
// session the user had
func (m *Manager) SelectTopic(userID int64, topic string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := NewSession(topic)
	m.sessions[userID] = session
	return session
}

// Get returns the user's active session, if any
func (m *Manager) Get(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	return session, ok
}

// Clear destroys the user's session
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
