package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mehmonov/friends-check-bot/internal/bot"
	"github.com/mehmonov/friends-check-bot/internal/models"
	"github.com/mehmonov/friends-check-bot/internal/quiz"
)

// notifyCreator sends the scored breakdown to the test creator. Delivery is
// best-effort: the participant row is already persisted, so a failed send is
// logged and forgotten.
func notifyCreator(b *bot.Bot, test *models.Test, friend *tgbotapi.User, answers map[int]string, correct int, percentage float64) {
	username := friend.UserName
	if username == "" {
		username = "no_username"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"🎯 Someone completed your friendship test!\n\n"+
			"📊 Result: %d/%d (%.1f%%)\n"+
			"👤 User: @%s\n"+
			"👋 Name: %s\n\n"+
			"Answers:\n",
		correct, quiz.Count(), percentage, username, friendFullName(friend),
	)

	for i := 0; i < quiz.Count(); i++ {
		mark := "❌"
		if answers[i] == test.CreatorAnswers[i] {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "\n%s %s\nAnswer: %s\n", mark, quiz.Get(i).Prompt, answers[i])
	}

	if err := b.SendMessage(test.CreatorID, sb.String(), nil); err != nil {
		zap.L().Warn("Failed to notify test creator",
			zap.String("test_id", test.TestID),
			zap.Int64("creator_id", test.CreatorID),
			zap.Error(err))
	}
}

func friendFullName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
