package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/session"
	"dropmarket.backend/internal/usecases"
	"dropmarket.backend/pkg/logger"
)

// Inline callback prefixes. The suffix is the numeric entity id.
const (
	callbackTake     = "take_"
	callbackComplete = "complete_"
	callbackRestore  = "restore_"
	callbackApprove  = "approve_"
	callbackReject   = "reject_"
	callbackActivity = "activity_"
	callbackItem     = "item_"
	callbackPanel    = "panel_"
	callbackSkip     = "skip"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Bot is the chat transport adapter. It routes inbound updates to the
// session manager and the lifecycle usecases and renders their results;
// it holds no business rules of its own.
type Bot struct {
	api     *tgbotapi.BotAPI
	adminID int64

	sessions      *session.Manager
	users         *usecases.UserUsecase
	orders        *usecases.OrderUsecase
	verifications *usecases.VerificationUsecase
}

// NewBot creates a bot over an authorized API client.
func NewBot(
	api *tgbotapi.BotAPI,
	adminID int64,
	sessions *session.Manager,
	users *usecases.UserUsecase,
	orders *usecases.OrderUsecase,
	verifications *usecases.VerificationUsecase,
) *Bot {
	return &Bot{
		api:           api,
		adminID:       adminID,
		sessions:      sessions,
		users:         users,
		orders:        orders,
		verifications: verifications,
	}
}

// APISender delivers notifier messages over the bot API. It is separate
// from Bot so the notifier can be wired before the update loop exists.
type APISender struct {
	api *tgbotapi.BotAPI
}

// NewAPISender creates a sender over an authorized API client.
func NewAPISender(api *tgbotapi.BotAPI) *APISender {
	return &APISender{api: api}
}

// SendMessage delivers a plain text message to the recipient.
func (s *APISender) SendMessage(_ context.Context, recipientID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(recipientID, text))
	return err
}

// SendPhoto delivers a stored photo by file id with a caption.
func (s *APISender) SendPhoto(_ context.Context, recipientID int64, photoID, caption string) error {
	photo := tgbotapi.NewPhoto(recipientID, tgbotapi.FileID(photoID))
	photo.Caption = caption
	_, err := s.api.Send(photo)
	return err
}

// Run consumes updates with long polling until the context is canceled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "panic while handling update", zap.Any("panic", r))
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		logger.Warn(context.Background(), "send failed", zap.Error(err))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	user, err := b.users.Register(ctx, userID, msg.From.UserName)
	if err != nil {
		logger.Error(ctx, "register user", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.sessions.Cancel(userID)
			reply := tgbotapi.NewMessage(userID, "Welcome to the marketplace. Place orders or apply to become a fulfillment agent.")
			reply.ReplyMarkup = mainMenuKeyboard(user, userID == b.adminID)
			b.send(reply)
		}
		return
	}

	switch msg.Text {
	case buttonProfile:
		b.showProfile(ctx, userID)
		return

	case buttonNewOrder:
		prompt, err := b.sessions.Start(ctx, session.KindOrder, userID)
		if err != nil {
			b.replyError(ctx, userID, err)
			return
		}
		reply := tgbotapi.NewMessage(userID, prompt)
		reply.ReplyMarkup = categoryKeyboard(callbackItem, itemCategories)
		b.send(reply)
		return

	case buttonBecomeAgent:
		prompt, err := b.sessions.Start(ctx, session.KindVerification, userID)
		if err != nil {
			b.replyError(ctx, userID, err)
			return
		}
		reply := tgbotapi.NewMessage(userID, prompt)
		reply.ReplyMarkup = categoryKeyboard(callbackActivity, activityCategories)
		b.send(reply)
		return

	case buttonMyOrders:
		b.showClientOrders(ctx, userID)
		return

	case buttonOrders:
		b.showPendingOrders(ctx, userID)
		return

	case buttonActiveOrder:
		b.showActiveOrder(ctx, userID)
		return

	case buttonAdmin:
		if userID != b.adminID {
			return
		}
		reply := tgbotapi.NewMessage(userID, "Admin panel")
		reply.ReplyMarkup = adminPanelKeyboard()
		b.send(reply)
		return
	}

	if !b.sessions.Active(userID) {
		b.reply(userID, "Use the menu below, or /start to show it again.")
		return
	}

	input := session.Input{Text: msg.Text}
	if len(msg.Photo) > 0 {
		input.PhotoID = msg.Photo[len(msg.Photo)-1].FileID
	}
	b.feedSession(ctx, userID, input)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	data := cb.Data

	// acknowledge so the client stops the spinner
	b.api.Request(tgbotapi.NewCallback(cb.ID, ""))

	switch {
	case data == callbackSkip:
		b.feedSession(ctx, userID, session.Input{Skip: true})

	case strings.HasPrefix(data, callbackActivity):
		b.feedCategory(ctx, userID, strings.TrimPrefix(data, callbackActivity), "Describe your field of work.")

	case strings.HasPrefix(data, callbackItem):
		b.feedCategory(ctx, userID, strings.TrimPrefix(data, callbackItem), "Describe the item you need.")

	case strings.HasPrefix(data, callbackTake):
		b.takeOrder(ctx, userID, strings.TrimPrefix(data, callbackTake))

	case strings.HasPrefix(data, callbackComplete):
		b.completeOrder(ctx, userID, strings.TrimPrefix(data, callbackComplete))

	case strings.HasPrefix(data, callbackRestore):
		if userID != b.adminID {
			return
		}
		b.restoreOrder(ctx, userID, strings.TrimPrefix(data, callbackRestore))

	case strings.HasPrefix(data, callbackApprove):
		if userID != b.adminID {
			return
		}
		b.decideVerification(ctx, userID, strings.TrimPrefix(data, callbackApprove), true)

	case strings.HasPrefix(data, callbackReject):
		if userID != b.adminID {
			return
		}
		b.decideVerification(ctx, userID, strings.TrimPrefix(data, callbackReject), false)

	case strings.HasPrefix(data, callbackPanel):
		if userID != b.adminID {
			return
		}
		b.handlePanel(ctx, userID, strings.TrimPrefix(data, callbackPanel))
	}
}

// feedCategory routes a category button press into the active form. "Other"
// keeps the step open and asks for free text instead.
func (b *Bot) feedCategory(ctx context.Context, userID int64, category, otherPrompt string) {
	if category == "Other" {
		b.reply(userID, otherPrompt)
		return
	}
	b.feedSession(ctx, userID, session.Input{Text: category})
}

func (b *Bot) feedSession(ctx context.Context, userID int64, input session.Input) {
	res, err := b.sessions.Submit(ctx, userID, input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoSession) {
			b.reply(userID, "Use the menu below, or /start to show it again.")
			return
		}
		b.replyError(ctx, userID, err)
		return
	}

	reply := tgbotapi.NewMessage(userID, res.Prompt)
	if res.Outcome == session.OutcomeAdvanced && res.Step == session.StepDocument {
		reply.ReplyMarkup = skipKeyboard()
	}
	b.send(reply)
}

func (b *Bot) showProfile(ctx context.Context, userID int64) {
	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		b.replyError(ctx, userID, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d\nStatus: %s", user.ID, user.Status)
	if user.Name.Valid {
		fmt.Fprintf(&sb, "\nName: %s", user.Name.String)
	}
	if user.Age.Valid {
		fmt.Fprintf(&sb, "\nAge: %d", user.Age.Int)
	}
	b.reply(userID, sb.String())
}

func (b *Bot) showClientOrders(ctx context.Context, userID int64) {
	orders, err := b.orders.ListByClient(ctx, userID, 0)
	if err != nil {
		b.replyError(ctx, userID, err)
		return
	}
	if len(orders) == 0 {
		b.reply(userID, "You have no orders yet.")
		return
	}
	for _, o := range orders {
		b.reply(userID, o.Summary()+"\nStatus: "+o.StatusLabel())
	}
}

func (b *Bot) showPendingOrders(ctx context.Context, userID int64) {
	orders, err := b.orders.ListPendingForDrop(ctx, userID, 0)
	if err != nil {
		b.replyError(ctx, userID, err)
		return
	}
	if len(orders) == 0 {
		b.reply(userID, "No open orders right now.")
		return
	}
	for _, o := range orders {
		msg := tgbotapi.NewMessage(userID, o.Summary())
		msg.ReplyMarkup = takeKeyboard(o.ID)
		b.send(msg)
	}
}

func (b *Bot) showActiveOrder(ctx context.Context, userID int64) {
	order, err := b.orders.ActiveOrderForDrop(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			b.reply(userID, "You have no active order.")
			return
		}
		b.replyError(ctx, userID, err)
		return
	}
	msg := tgbotapi.NewMessage(userID, order.Summary())
	msg.ReplyMarkup = completeKeyboard(order.ID)
	b.send(msg)
}

func (b *Bot) takeOrder(ctx context.Context, userID int64, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}

	if _, err := b.orders.Take(ctx, orderID, userID); err != nil {
		b.replyError(ctx, userID, err)
		return
	}
}

func (b *Bot) completeOrder(ctx context.Context, userID int64, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}

	if userID == b.adminID {
		if _, err := b.orders.CompleteByAdmin(ctx, orderID); err != nil {
			b.replyError(ctx, userID, err)
		}
		return
	}
	if _, err := b.orders.CompleteByDrop(ctx, orderID, userID); err != nil {
		b.replyError(ctx, userID, err)
	}
}

func (b *Bot) restoreOrder(ctx context.Context, userID int64, rawID string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	if _, err := b.orders.Restore(ctx, orderID); err != nil {
		b.replyError(ctx, userID, err)
	}
}

func (b *Bot) decideVerification(ctx context.Context, adminID int64, rawID string, approve bool) {
	subjectID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}

	if approve {
		err = b.verifications.Approve(ctx, subjectID)
	} else {
		err = b.verifications.Reject(ctx, subjectID)
	}
	if err != nil {
		b.replyError(ctx, adminID, err)
	}
}

func (b *Bot) handlePanel(ctx context.Context, adminID int64, section string) {
	switch section {
	case "verifications":
		pending, err := b.verifications.ListPending(ctx, 0)
		if err != nil {
			b.replyError(ctx, adminID, err)
			return
		}
		if len(pending) == 0 {
			b.reply(adminID, "No pending applications.")
			return
		}
		for _, v := range pending {
			text := fmt.Sprintf("User %d\nName: %s\nAge: %d\nActivity: %s", v.UserID, v.Name, v.Age, v.Activity)
			// attach the document photo when the applicant provided one
			if v.DocumentPhoto.Valid {
				photo := tgbotapi.NewPhoto(adminID, tgbotapi.FileID(v.DocumentPhoto.String))
				photo.Caption = text
				photo.ReplyMarkup = decisionKeyboard(v.UserID)
				b.send(photo)
				continue
			}
			msg := tgbotapi.NewMessage(adminID, text)
			msg.ReplyMarkup = decisionKeyboard(v.UserID)
			b.send(msg)
		}

	case "active":
		b.showAdminOrders(ctx, adminID, true)

	case "completed":
		b.showAdminOrders(ctx, adminID, false)

	case "broadcast":
		prompt, err := b.sessions.Start(ctx, session.KindBroadcast, adminID)
		if err != nil {
			b.replyError(ctx, adminID, err)
			return
		}
		b.reply(adminID, prompt)
	}
}

func (b *Bot) showAdminOrders(ctx context.Context, adminID int64, active bool) {
	var (
		orders []*entities.Order
		err    error
	)
	if active {
		orders, err = b.orders.ListActive(ctx, 0)
	} else {
		orders, err = b.orders.ListCompleted(ctx, 0)
	}
	if err != nil {
		b.replyError(ctx, adminID, err)
		return
	}
	if len(orders) == 0 {
		b.reply(adminID, "Nothing here yet.")
		return
	}
	for _, o := range orders {
		text := o.Summary() + "\nStatus: " + o.StatusLabel()
		if o.DropID.Valid {
			text += fmt.Sprintf("\nAgent: %d", o.DropID.Int64)
		}
		msg := tgbotapi.NewMessage(adminID, text)
		msg.ReplyMarkup = adminOrderKeyboard(o.ID)
		b.send(msg)
	}
}

// replyError maps domain errors to user-facing text.
func (b *Bot) replyError(ctx context.Context, userID int64, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrAlreadyApplied):
		b.reply(userID, "You have already applied. Wait for the decision.")
	case errors.Is(err, domainerrors.ErrNotVerified):
		b.reply(userID, "Only verified agents can take orders. Apply via Become an agent.")
	case errors.Is(err, domainerrors.ErrActiveOrderExists):
		b.reply(userID, "Finish your current order before taking a new one.")
	case errors.Is(err, domainerrors.ErrOrderUnavailable):
		b.reply(userID, "This order is no longer available.")
	case errors.Is(err, domainerrors.ErrNotAssigned):
		b.reply(userID, "This order is assigned to another agent.")
	case errors.Is(err, domainerrors.ErrNotPending):
		b.reply(userID, "This application has already been decided.")
	case errors.Is(err, domainerrors.ErrNotFound):
		b.reply(userID, "Not found.")
	case errors.Is(err, domainerrors.ErrInvalidInput):
		b.reply(userID, "That input is not valid, please try again.")
	default:
		logger.Error(ctx, "bot operation failed", zap.Int64("user_id", userID), zap.Error(err))
		b.reply(userID, "Something went wrong, please try again later.")
	}
}
