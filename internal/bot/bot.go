package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mehmonov/friends-check-bot/internal/certificate"
	"github.com/mehmonov/friends-check-bot/internal/database"
	"github.com/mehmonov/friends-check-bot/internal/quiz"
	"github.com/mehmonov/friends-check-bot/internal/session"
)

type Bot struct {
	API      *tgbotapi.BotAPI
	DB       *database.DB
	Sessions *session.Manager
	Renderer *certificate.Renderer
	AdminID  int64
}

func New(token string, db *database.DB, sessions *session.Manager, renderer *certificate.Renderer, adminID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	zap.L().Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		API:      api,
		DB:       db,
		Sessions: sessions,
		Renderer: renderer,
		AdminID:  adminID,
	}, nil
}

// TestLink builds the shareable deep link for a finished test.
func (b *Bot) TestLink(testID string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", b.API.Self.UserName, testID)
}

func (b *Bot) IsAdmin(userID int64) bool {
	return userID == b.AdminID
}

func (b *Bot) SendMessage(chatID int64, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if replyMarkup != nil {
		if markup, ok := replyMarkup.(*tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = markup
		}
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) SendPhoto(chatID int64, image []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "certificate.png", Bytes: image})
	photo.Caption = caption

	_, err := b.API.Send(photo)
	return err
}

func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.API.Request(callback)
	return err
}

// Keyboard builders

// QuestionKeyboard offers one button per option of question index. The
// callback data carries only the option index; the session tracks which
// question is current.
func (b *Bot) QuestionKeyboard(index int, role session.Role) tgbotapi.InlineKeyboardMarkup {
	prefix := "answer"
	if role == session.RoleFriend {
		prefix = "friend_answer"
	}

	question := quiz.Get(index)
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range question.Options {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(option, fmt.Sprintf("%s:%d", prefix, i)),
		})
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ShareKeyboard offers the "send to friends" switch-inline button next to
// the raw deep link.
func (b *Bot) ShareKeyboard(testID string) tgbotapi.InlineKeyboardMarkup {
	shareText := fmt.Sprintf(
		"🤝 Friendship test!\n\nLet's see how well you know me!\n\n%s",
		b.TestLink(testID),
	)

	button := tgbotapi.InlineKeyboardButton{
		Text:              "📤 Send to friends",
		SwitchInlineQuery: &shareText,
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button),
	)
}
