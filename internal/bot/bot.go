package bot

import (
	"context"
	"fmt"

	"github.com/example/vocabbot/internal/ai"
	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/internal/scheduler"
	"github.com/example/vocabbot/internal/vocabulary"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api       *tgbotapi.BotAPI
	config    *Config
	userRepo  *database.UserRepository
	dictRepo  *database.DictionaryRepository
	generator *vocabulary.Generator
	sessions  *quiz.Manager
	scheduler *scheduler.Scheduler
}

// New creates a new bot instance wired to the given database handle
func New(cfg *Config, db *sqlx.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}

	chatGPT, err := ai.New(cfg.OpenAIKey)
	if err != nil {
		return nil, err
	}

	userRepo := database.NewUserRepository(db)
	dictRepo := database.NewDictionaryRepository(db)

	b := &Bot{
		api:       api,
		config:    cfg,
		userRepo:  userRepo,
		dictRepo:  dictRepo,
		generator: vocabulary.NewGenerator(chatGPT),
		sessions:  quiz.NewManager(),
	}
	b.scheduler = scheduler.New(b, userRepo, dictRepo, cfg.ReminderHour)

	return b, nil
}

// Start begins polling for updates and blocks until the context is
// cancelled. Each update is handled in its own goroutine; session state
// is keyed per user, so cross-user updates never share state.
func (b *Bot) Start(ctx context.Context) error {
	logrus.Infof("Authorized on account %s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.scheduler.Start()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.scheduler.Stop()
	b.api.StopReceivingUpdates()
	logrus.Info("Bot stopped")
}

// handleUpdate dispatches one incoming update. Every failure is turned
// into a user-visible reply; nothing is left to hang silently.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	if err != nil {
		logrus.WithError(err).Error("failed to handle update")
		if chatID := chatIDOf(update); chatID != 0 {
			msg := tgbotapi.NewMessage(chatID, "Произошла ошибка. Попробуйте еще раз.")
			msg.ReplyMarkup = baseKeyboard()
			b.send(msg)
		}
	}
}

func chatIDOf(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

// send delivers a message, logging delivery failures
func (b *Bot) send(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	return nil
}

// SendPracticeReminder implements the scheduler.Notifier interface
func (b *Bot) SendPracticeReminder(userID int64, wordCount int) error {
	text := fmt.Sprintf("📘 В вашем словаре %d слов. Пройдите тест, чтобы выучить новые!", wordCount)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = baseKeyboard()
	return b.send(msg)
}
