package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mehmonov/friends-check-bot/internal/bot"
	"github.com/mehmonov/friends-check-bot/internal/models"
)

// HandleStats reports daily and monthly usage counters. Admin only.
func HandleStats(b *bot.Bot, message *tgbotapi.Message) {
	if !b.IsAdmin(message.From.ID) {
		b.SendMessage(message.Chat.ID, "This command is only available to the admin.", nil)
		return
	}

	daily, err := b.DB.DailyStats()
	if err != nil {
		zap.L().Error("Failed to load daily stats", zap.Error(err))
		b.SendMessage(message.Chat.ID, msgGenericFailure, nil)
		return
	}

	monthly, err := b.DB.MonthlyStats()
	if err != nil {
		zap.L().Error("Failed to load monthly stats", zap.Error(err))
		b.SendMessage(message.Chat.ID, msgGenericFailure, nil)
		return
	}

	text := fmt.Sprintf(
		"📈 Bot statistics\n\n"+
			"Today (UTC):\n%s\n"+
			"This month (UTC):\n%s",
		formatStats(daily), formatStats(monthly),
	)

	b.SendMessage(message.Chat.ID, text, nil)
}

func formatStats(stats map[models.ActionType]int) string {
	return fmt.Sprintf(
		"  ▫️ Starts: %d\n  ▫️ Tests created: %d\n  ▫️ Tests completed: %d\n",
		stats[models.ActionStartBot],
		stats[models.ActionCreateTest],
		stats[models.ActionCompleteTest],
	)
}
