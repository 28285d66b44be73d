package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/vocabbot/internal/excel"
	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/internal/vocabulary"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Callback tokens carried by inline keyboard buttons
const (
	callbackMenu       = "menu"
	callbackDictionary = "dictionary"
	callbackVocabulary = "vocabulary"
	callbackGrammar    = "grammar"
	callbackProfile    = "profile"
	callbackHelp       = "help"
	callbackCheckSelf  = "check_self"
	topicPrefix        = "vocab_"
	answerPrefix       = "answer_"
)

// grammarProgressStub is written on every quiz finalization. The grammar
// module has no exercises yet, so there is nothing real to compute from.
const grammarProgressStub = 50

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func baseKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{{Text: "Меню", CallbackData: callbackMenu}},
	})
}

func backToTopicsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{{Text: "🔙 Назад к темам", CallbackData: callbackVocabulary}},
	})
}

// handleMessage handles commands and plain text
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			return b.handleStart(message)
		case "export":
			return b.handleExport(message)
		}
	}

	// Any other input gets the entry-point button
	msg := tgbotapi.NewMessage(message.Chat.ID, `Нажмите на кнопку "Меню", чтобы продолжить:`)
	msg.ReplyMarkup = baseKeyboard()
	return b.send(msg)
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, `Нажмите на кнопку "Меню", чтобы продолжить:`)
	msg.ReplyMarkup = baseKeyboard()
	return b.send(msg)
}

// handleExport sends the user's dictionary as an .xlsx document
func (b *Bot) handleExport(message *tgbotapi.Message) error {
	pairs, err := b.dictRepo.GetByUser(message.From.ID)
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Ваш словарь пуст. Пройдите тест, чтобы добавить слова.")
		msg.ReplyMarkup = baseKeyboard()
		return b.send(msg)
	}

	buf, err := excel.ExportDictionary(pairs)
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  "dictionary.xlsx",
		Bytes: buf.Bytes(),
	})
	return b.send(doc)
}

// handleCallbackQuery dispatches inline keyboard button presses
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Acknowledge the button press so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logrus.WithError(err).Warn("failed to answer callback query")
	}

	data := query.Data
	switch {
	case data == callbackMenu:
		return b.showMenu(query)
	case data == callbackDictionary:
		return b.showDictionary(query)
	case data == callbackVocabulary:
		return b.showVocabularyMenu(query)
	case data == callbackGrammar:
		return b.showGrammar(query)
	case data == callbackProfile:
		return b.showProfile(query)
	case data == callbackHelp:
		return b.showHelp(query)
	case data == callbackCheckSelf:
		return b.startQuiz(query)
	case strings.HasPrefix(data, topicPrefix):
		return b.handleTopicSelection(ctx, query)
	case strings.HasPrefix(data, answerPrefix):
		return b.handleAnswer(query)
	}

	return b.showMenu(query)
}

// edit replaces the message the pressed button belongs to
func (b *Bot) edit(query *tgbotapi.CallbackQuery, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, keyboard)
	return b.send(msg)
}

func (b *Bot) showMenu(query *tgbotapi.CallbackQuery) error {
	keyboard := createKeyboard([][]MenuButton{
		{{Text: "📘 Словарь", CallbackData: callbackDictionary}},
		{{Text: "📝 Словарный запас", CallbackData: callbackVocabulary}},
		{{Text: "📚 Грамматика", CallbackData: callbackGrammar}},
		{{Text: "👥 Профиль", CallbackData: callbackProfile}},
		{{Text: "🆘 Хелп", CallbackData: callbackHelp}},
	})
	return b.edit(query, "Выберите опцию:", keyboard)
}

func (b *Bot) showProfile(query *tgbotapi.CallbackQuery) error {
	username := query.From.UserName
	if username == "" {
		username = "unknown"
	}

	user, err := b.userRepo.EnsureUser(query.From.ID, username)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"👤 Ник: @%s\n🔖 Тип профиля: %s\n📚 Прогресс грамматики: %d%%\n📘 Прогресс слов: %d%%",
		user.Username, capitalize(user.ProfileType), user.GrammarProgress, user.VocabProgress,
	)
	return b.edit(query, text, baseKeyboard())
}

func (b *Bot) showDictionary(query *tgbotapi.CallbackQuery) error {
	pairs, err := b.dictRepo.GetByUser(query.From.ID)
	if err != nil {
		return err
	}

	text := "Ваш словарь пуст. Пройдите тест, чтобы добавить слова."
	if len(pairs) > 0 {
		lines := make([]string, len(pairs))
		for i, pair := range pairs {
			lines[i] = pair.String()
		}
		text = "📘 Ваш словарь:\n\n" + strings.Join(lines, "\n")
	}

	return b.edit(query, text, createKeyboard([][]MenuButton{
		{{Text: "🔙 Назад в меню", CallbackData: callbackMenu}},
	}))
}

func (b *Bot) showVocabularyMenu(query *tgbotapi.CallbackQuery) error {
	var rows [][]MenuButton
	for i, topic := range vocabulary.Topics {
		rows = append(rows, []MenuButton{{Text: topic, CallbackData: fmt.Sprintf("%s%d", topicPrefix, i)}})
	}
	rows = append(rows, []MenuButton{{Text: "🔙 Назад в меню", CallbackData: callbackMenu}})

	return b.edit(query, "Выберите тему для изучения:", createKeyboard(rows))
}

func (b *Bot) showGrammar(query *tgbotapi.CallbackQuery) error {
	text := "📚 Раздел грамматики находится в разработке. Загляните позже!"
	return b.edit(query, text, baseKeyboard())
}

func (b *Bot) showHelp(query *tgbotapi.CallbackQuery) error {
	text := "🆘 Справка\n\n" +
		"📝 Словарный запас — выберите тему, изучите 10 новых слов и пройдите тест.\n" +
		"Ответьте правильно минимум на 8 вопросов из 10, и слова попадут в ваш словарь.\n\n" +
		"📘 Словарь — все выученные слова.\n" +
		"/export — выгрузить словарь в Excel."
	return b.edit(query, text, baseKeyboard())
}

// handleTopicSelection records the chosen topic and generates its word
// list. Both the topic buttons and a retry land here: the transport maps
// every selection token onto the same transition.
func (b *Bot) handleTopicSelection(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	index, err := strconv.Atoi(strings.TrimPrefix(query.Data, topicPrefix))
	if err != nil {
		return fmt.Errorf("bad topic callback %q: %v", query.Data, err)
	}

	topic, err := vocabulary.TopicByIndex(index)
	if err != nil {
		return err
	}

	userID := query.From.ID
	session := b.sessions.SelectTopic(userID, topic)

	existing, err := b.dictRepo.GetSourceWords(userID)
	if err != nil {
		return err
	}

	words, err := b.generator.Generate(ctx, topic, existing)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"topic":   topic,
		}).Warn("word generation failed")

		text := "Ошибка: не удалось сгенерировать слова. Попробуйте еще раз."
		if errors.Is(err, vocabulary.ErrInsufficientWords) {
			text = "Ошибка: недостаточно уникальных слов для этой темы. Попробуйте выбрать другую тему."
		}
		return b.edit(query, text, backToTopicsKeyboard())
	}

	if err := session.SetWords(words); err != nil {
		return err
	}

	lines := make([]string, len(words))
	for i, pair := range words {
		lines[i] = pair.String()
	}
	text := fmt.Sprintf("Вот %d случайных слов по теме '%s':\n\n%s", len(words), topic, strings.Join(lines, "\n"))

	return b.edit(query, text, createKeyboard([][]MenuButton{
		{{Text: "Проверь себя", CallbackData: callbackCheckSelf}},
		{{Text: "🔙 Назад к темам", CallbackData: callbackVocabulary}},
	}))
}

// startQuiz begins questioning over the generated word list
func (b *Bot) startQuiz(query *tgbotapi.CallbackQuery) error {
	session, ok := b.sessions.Get(query.From.ID)
	if !ok {
		return b.edit(query, "Ошибка: тема не выбрана.", backToTopicsKeyboard())
	}

	question, ok := session.NextQuestion()
	if !ok {
		// Topic kept after a failed generation, or a stale button
		return b.edit(query, "Ошибка: нет слов для теста.", backToTopicsKeyboard())
	}
	return b.renderQuestion(query, question, "")
}

// renderQuestion shows a question with its four answer buttons
func (b *Bot) renderQuestion(query *tgbotapi.CallbackQuery, question *quiz.Question, feedback string) error {
	var rows [][]MenuButton
	for _, option := range question.Options {
		rows = append(rows, []MenuButton{{Text: option, CallbackData: answerPrefix + option}})
	}

	text := fmt.Sprintf("Какой перевод слова '%s'?", question.Word)
	if feedback != "" {
		text = feedback + "\n\n" + text
	}
	return b.edit(query, text, createKeyboard(rows))
}

// handleAnswer scores the submitted option and moves the session forward
func (b *Bot) handleAnswer(query *tgbotapi.CallbackQuery) error {
	session, ok := b.sessions.Get(query.From.ID)
	if !ok {
		return b.edit(query, "Ошибка: тема не выбрана.", backToTopicsKeyboard())
	}

	answer := strings.TrimPrefix(query.Data, answerPrefix)
	outcome, err := session.Answer(answer)
	if errors.Is(err, quiz.ErrNoWords) {
		// Answer button pressed against a session whose generation
		// failed; only the topic was kept.
		return b.edit(query, "Ошибка: нет слов для теста.", backToTopicsKeyboard())
	}
	if err != nil {
		// Quiz already finalized by an earlier tap
		return b.edit(query, "Ошибка: тема не выбрана.", backToTopicsKeyboard())
	}

	feedback := "✅ Правильно!"
	if !outcome.Correct {
		feedback = fmt.Sprintf("❌ Неправильно. Правильный ответ: %s", outcome.CorrectAnswer)
	}

	if outcome.Result != nil {
		return b.finishQuiz(query, *outcome.Result, feedback)
	}
	return b.renderQuestion(query, outcome.Next, feedback)
}

// finishQuiz persists the quiz outcome and destroys the session. The
// session is cleared even when persistence fails, so the user can always
// start over.
func (b *Bot) finishQuiz(query *tgbotapi.CallbackQuery, result quiz.Result, feedback string) error {
	userID := query.From.ID
	b.sessions.Clear(userID)

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"topic":   result.Topic,
		"correct": result.Correct,
		"percent": result.Percentage,
	}).Info("quiz finished")

	var text string
	if result.Passed {
		if err := b.dictRepo.AddWords(userID, result.Words); err != nil {
			return err
		}
		text = fmt.Sprintf("🎉 Поздравляем! Вы правильно ответили на %d из %d вопросов. Слова добавлены в ваш словарь.", result.Correct, result.Total)
	} else {
		if err := b.dictRepo.RecomputeVocabProgress(userID); err != nil {
			return err
		}
		text = fmt.Sprintf("😞 Вы правильно ответили на %d из %d вопросов. Попробуйте еще раз, чтобы улучшить результат.", result.Correct, result.Total)
	}

	if err := b.userRepo.SetGrammarProgress(userID, grammarProgressStub); err != nil {
		return err
	}

	if feedback != "" {
		text = feedback + "\n\n" + text
	}
	return b.edit(query, text, backToTopicsKeyboard())
}
