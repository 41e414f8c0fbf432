package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dropmarket.backend/internal/domain/entities"
)

// Top-level menu button labels.
const (
	buttonProfile     = "Profile"
	buttonNewOrder    = "New order"
	buttonMyOrders    = "My orders"
	buttonBecomeAgent = "Become an agent"
	buttonOrders      = "Orders"
	buttonActiveOrder = "Active order"
	buttonAdmin       = "Admin"
)

// Catalog categories offered on the item step. "Other" switches to free
// text.
var itemCategories = []string{
	"Electronics", "Clothing", "Household", "Sports", "Other",
}

// Activity categories offered on the verification form.
var activityCategories = []string{
	"Courier", "Driver", "Student", "Freelancer", "Other",
}

func mainMenuKeyboard(user *entities.User, isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(buttonProfile),
			tgbotapi.NewKeyboardButton(buttonNewOrder),
		},
		{
			tgbotapi.NewKeyboardButton(buttonMyOrders),
		},
	}

	if user.IsVerified() {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(buttonOrders),
			tgbotapi.NewKeyboardButton(buttonActiveOrder),
		})
	} else if user.CanApply() {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(buttonBecomeAgent),
		})
	}

	if isAdmin {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(buttonAdmin),
		})
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func categoryKeyboard(prefix string, categories []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c, prefix+c),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func skipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Skip", "skip"),
		),
	)
}

func takeKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Take", callbackTake+formatID(orderID)),
		),
	)
}

func completeKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Mark completed", callbackComplete+formatID(orderID)),
		),
	)
}

func decisionKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Approve", callbackApprove+formatID(userID)),
			tgbotapi.NewInlineKeyboardButtonData("Reject", callbackReject+formatID(userID)),
		),
	)
}

func adminOrderKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Complete", callbackComplete+formatID(orderID)),
			tgbotapi.NewInlineKeyboardButtonData("Restore", callbackRestore+formatID(orderID)),
		),
	)
}

func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Pending verifications", callbackPanel+"verifications"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Active orders", callbackPanel+"active"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Completed orders", callbackPanel+"completed"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Broadcast", callbackPanel+"broadcast"),
		),
	)
}
