package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dropmarket.backend/internal/domain/entities"
)

func TestMainMenuKeyboard(t *testing.T) {
	t.Run("guest sees apply button", func(t *testing.T) {
		kb := mainMenuKeyboard(&entities.User{Status: entities.UserStatusGuest}, false)
		require.Len(t, kb.Keyboard, 3)
		require.Equal(t, buttonBecomeAgent, kb.Keyboard[2][0].Text)
	})

	t.Run("pending applicant has no apply or agent buttons", func(t *testing.T) {
		kb := mainMenuKeyboard(&entities.User{Status: entities.UserStatusPending}, false)
		require.Len(t, kb.Keyboard, 2)
	})

	t.Run("verified agent sees order pool", func(t *testing.T) {
		kb := mainMenuKeyboard(&entities.User{Status: entities.UserStatusVerified}, false)
		require.Len(t, kb.Keyboard, 3)
		require.Equal(t, buttonOrders, kb.Keyboard[2][0].Text)
		require.Equal(t, buttonActiveOrder, kb.Keyboard[2][1].Text)
	})

	t.Run("admin row is appended", func(t *testing.T) {
		kb := mainMenuKeyboard(&entities.User{Status: entities.UserStatusGuest}, true)
		last := kb.Keyboard[len(kb.Keyboard)-1]
		require.Equal(t, buttonAdmin, last[0].Text)
	})
}

func TestCategoryKeyboardCallbacks(t *testing.T) {
	kb := categoryKeyboard(callbackItem, itemCategories)
	require.Len(t, kb.InlineKeyboard, len(itemCategories))
	require.Equal(t, callbackItem+"Electronics", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestOrderKeyboards(t *testing.T) {
	take := takeKeyboard(42)
	require.Equal(t, "take_42", *take.InlineKeyboard[0][0].CallbackData)

	complete := completeKeyboard(42)
	require.Equal(t, "complete_42", *complete.InlineKeyboard[0][0].CallbackData)

	decision := decisionKeyboard(100)
	require.Equal(t, "approve_100", *decision.InlineKeyboard[0][0].CallbackData)
	require.Equal(t, "reject_100", *decision.InlineKeyboard[0][1].CallbackData)
}
