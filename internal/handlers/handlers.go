package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mehmonov/friends-check-bot/internal/bot"
	"github.com/mehmonov/friends-check-bot/internal/database"
	"github.com/mehmonov/friends-check-bot/internal/models"
	"github.com/mehmonov/friends-check-bot/internal/quiz"
	"github.com/mehmonov/friends-check-bot/internal/session"
)

const (
	msgGenericFailure = "❌ Something went wrong. Please try again with /start."
	msgTestNotFound   = "😔 Sorry, this test was not found or is no longer valid!"
	msgAlreadyDone    = "✅ You have already completed this test!"
	msgUseButtons     = "Please answer using the buttons above."
	msgEnterValidName = "Please enter a valid name:"
)

const testIDMaxAttempts = 5

func HandleStart(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	logAction(b, userID, models.ActionStartBot)

	token := strings.TrimSpace(message.CommandArguments())
	if token != "" {
		startFriendFlow(b, chatID, userID, token)
		return
	}

	startCreatorFlow(b, chatID, userID)
}

func startCreatorFlow(b *bot.Bot, chatID, userID int64) {
	s := b.Sessions.Start(userID, session.RoleCreator, "")

	text := "👋 Hi! Let's create a test for your friends.\n" +
		"First you answer the questions, then your friends try to guess your answers.\n\n" +
		questionText(0)
	keyboard := b.QuestionKeyboard(0, s.Role)

	b.SendMessage(chatID, text, keyboard)
}

func startFriendFlow(b *bot.Bot, chatID, userID int64, testID string) {
	_, err := b.DB.GetTest(testID)
	if errors.Is(err, database.ErrTestNotFound) {
		b.SendMessage(chatID, msgTestNotFound, nil)
		return
	}
	if err != nil {
		zap.L().Error("Failed to look up test", zap.String("test_id", testID), zap.Error(err))
		b.SendMessage(chatID, msgGenericFailure, nil)
		return
	}

	completed, err := b.DB.HasCompleted(testID, userID)
	if err != nil {
		zap.L().Error("Failed to check completion", zap.String("test_id", testID), zap.Error(err))
		b.SendMessage(chatID, msgGenericFailure, nil)
		return
	}
	if completed {
		b.SendMessage(chatID, msgAlreadyDone, nil)
		return
	}

	s := b.Sessions.Start(userID, session.RoleFriend, testID)

	text := "🤝 Hi! Your friend created a friendship test.\n" +
		"Answer the questions and let's see how well you know them!\n\n" +
		questionText(0)
	keyboard := b.QuestionKeyboard(0, s.Role)

	b.SendMessage(chatID, text, keyboard)
}

func HandleMessage(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	s := b.Sessions.Get(userID)
	if s == nil {
		// No live session: any input starts a fresh quiz.
		startCreatorFlow(b, chatID, userID)
		return
	}

	if s.IsFriend() && s.CurrentIndex >= quiz.Count() {
		handleNameInput(b, message, s)
		return
	}

	b.SendMessage(chatID, msgUseButtons, nil)
}

func handleNameInput(b *bot.Bot, message *tgbotapi.Message, s *session.Session) {
	chatID := message.Chat.ID

	name := strings.TrimSpace(message.Text)
	if name == "" {
		b.SendMessage(chatID, msgEnterValidName, nil)
		return
	}

	image, err := b.Renderer.Render(name, s.CorrectCount, quiz.Count(), s.Percentage)
	if err != nil {
		zap.L().Error("Failed to render certificate", zap.Int64("user_id", s.UserID), zap.Error(err))
		b.SendMessage(chatID,
			"❌ Could not generate your certificate.\n🔄 Press /start to try again.", nil)
		b.Sessions.Clear(s.UserID)
		return
	}

	caption := "🎉 Congratulations! Your friendship certificate is ready!\n" +
		"🔄 Press /start to try again."
	if err := b.SendPhoto(chatID, image, caption); err != nil {
		zap.L().Error("Failed to send certificate", zap.Int64("user_id", s.UserID), zap.Error(err))
		b.SendMessage(chatID, msgGenericFailure, nil)
	}

	b.Sessions.Clear(s.UserID)
}

func HandleCallbackQuery(b *bot.Bot, callback *tgbotapi.CallbackQuery) {
	b.AnswerCallbackQuery(callback.ID, "")

	parts := strings.Split(callback.Data, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case "answer", "friend_answer":
		handleAnswerCallback(b, callback, parts)
	}
}

func handleAnswerCallback(b *bot.Bot, callback *tgbotapi.CallbackQuery, parts []string) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	s := b.Sessions.Get(userID)
	if s == nil {
		// Stale keyboard from a dead session: restart the flow.
		startCreatorFlow(b, chatID, userID)
		return
	}

	optionIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	// Out-of-range selections come from replayed keyboards; drop them
	// without touching the session.
	if !quiz.ValidOption(s.CurrentIndex, optionIndex) {
		return
	}

	s.RecordAnswer(quiz.Get(s.CurrentIndex).Options[optionIndex])
	b.Sessions.Touch(userID)

	if s.CurrentIndex < quiz.Count() {
		keyboard := b.QuestionKeyboard(s.CurrentIndex, s.Role)
		b.EditMessage(chatID, callback.Message.MessageID, questionText(s.CurrentIndex), &keyboard)
		return
	}

	if s.IsFriend() {
		finishFriendTest(b, callback, s)
	} else {
		finishCreatorTest(b, callback, s)
	}
}

func finishCreatorTest(b *bot.Bot, callback *tgbotapi.CallbackQuery, s *session.Session) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	testID, err := createTestWithRetry(b, userID, s.Answers)
	if err != nil {
		zap.L().Error("Failed to create test", zap.Int64("user_id", userID), zap.Error(err))
		b.EditMessage(chatID, callback.Message.MessageID, msgGenericFailure, nil)
		b.Sessions.Clear(userID)
		return
	}

	logAction(b, userID, models.ActionCreateTest)
	b.Sessions.Clear(userID)

	text := fmt.Sprintf(
		"🎉 Your test is ready! Now share it with your friends.\n\n"+
			"📬 I will send you the results when a friend completes it.\n\n"+
			"🔗 Test link: %s",
		b.TestLink(testID),
	)
	keyboard := b.ShareKeyboard(testID)
	b.EditMessage(chatID, callback.Message.MessageID, text, &keyboard)
}

// createTestWithRetry regenerates the random suffix on an id collision
// instead of surfacing the conflict to the user.
func createTestWithRetry(b *bot.Bot, creatorID int64, answers map[int]string) (string, error) {
	var err error
	for attempt := 0; attempt < testIDMaxAttempts; attempt++ {
		testID := fmt.Sprintf("test_%d_%d", creatorID, 1000+rand.Intn(9000))
		err = b.DB.CreateTest(testID, creatorID, answers)
		if err == nil {
			return testID, nil
		}
		if !errors.Is(err, database.ErrTestExists) {
			return "", err
		}
	}
	return "", err
}

func finishFriendTest(b *bot.Bot, callback *tgbotapi.CallbackQuery, s *session.Session) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	test, err := b.DB.GetTest(s.LinkedTestID)
	if err != nil {
		zap.L().Error("Failed to load test for scoring",
			zap.String("test_id", s.LinkedTestID), zap.Error(err))
		b.EditMessage(chatID, callback.Message.MessageID, msgGenericFailure, nil)
		b.Sessions.Clear(userID)
		return
	}

	correct, percentage := quiz.Score(test.CreatorAnswers, s.Answers, quiz.Count())

	err = b.DB.RecordParticipant(test.TestID, userID, s.Answers, correct)
	if errors.Is(err, database.ErrAlreadyCompleted) {
		// Lost the race against a concurrent attempt by the same user.
		b.EditMessage(chatID, callback.Message.MessageID, msgAlreadyDone, nil)
		b.Sessions.Clear(userID)
		return
	}
	if err != nil {
		zap.L().Error("Failed to record participant",
			zap.String("test_id", test.TestID), zap.Int64("user_id", userID), zap.Error(err))
		b.EditMessage(chatID, callback.Message.MessageID, msgGenericFailure, nil)
		b.Sessions.Clear(userID)
		return
	}

	logAction(b, userID, models.ActionCompleteTest)

	s.CorrectCount = correct
	s.Percentage = percentage
	b.Sessions.Touch(userID)

	b.EditMessage(chatID, callback.Message.MessageID, fmt.Sprintf(
		"🎉 Test completed!\n\n"+
			"📊 Result: %d/%d (%.1f%%)\n\n"+
			"🎨 Enter your name to receive a certificate:",
		correct, quiz.Count(), percentage,
	), nil)

	notifyCreator(b, test, callback.From, s.Answers, correct, percentage)
}

func questionText(index int) string {
	return fmt.Sprintf("%s %s", quiz.NumberPrefix(index), quiz.Get(index).Prompt)
}

// logAction records analytics best-effort; a failed insert never blocks the
// main flow.
func logAction(b *bot.Bot, userID int64, action models.ActionType) {
	if err := b.DB.LogAction(userID, action); err != nil {
		zap.L().Warn("Failed to log action",
			zap.Int64("user_id", userID), zap.String("action", string(action)), zap.Error(err))
	}
}
