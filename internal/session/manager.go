package session

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/usecases"
)

// Kind identifies which form a session is collecting.
type Kind string

const (
	KindVerification Kind = "verification"
	KindOrder        Kind = "order"
	KindBroadcast    Kind = "broadcast"
)

// Steps of the verification and order forms, in order.
const (
	StepActivity = "activity"
	StepName     = "name"
	StepAge      = "age"
	StepDocument = "document"

	StepItem  = "item"
	StepPrice = "price"

	StepMessage = "message"
)

// Outcome classifies the result of submitting one form step.
type Outcome int

const (
	// OutcomeReprompt means validation failed and the step did not advance.
	OutcomeReprompt Outcome = iota
	// OutcomeAdvanced means the value was stored and the form moved on.
	OutcomeAdvanced
	// OutcomeCommitted means the terminal step succeeded and the session
	// was cleared.
	OutcomeCommitted
)

// Input is one user input event for the active form step. Text carries the
// typed or keyboard-selected value, PhotoID carries an uploaded document
// reference, Skip marks an explicitly skipped optional step.
type Input struct {
	Text    string
	PhotoID string
	Skip    bool
}

// Result reports what a form step produced. Prompt is the next message to
// show the user, Step names the step that prompt belongs to; on commit the
// created record is attached.
type Result struct {
	Outcome        Outcome
	Prompt         string
	Step           string
	Verification   *entities.Verification
	Order          *entities.Order
	BroadcastCount int
}

// session is the per-user accumulating form state.
type session struct {
	kind Kind
	step string

	activity string
	name     string
	age      int
	document string

	item string
}

// Manager holds in-progress conversational forms keyed by user id. State
// lives in process memory only; a restart drops unfinished forms, which is
// fine because nothing has been committed yet. Starting a new form while one
// is open overwrites it.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session

	users         *usecases.UserUsecase
	verifications *usecases.VerificationUsecase
	orders        *usecases.OrderUsecase
	notifier      *usecases.Notifier
}

// NewManager creates a new session manager
func NewManager(
	users *usecases.UserUsecase,
	verifications *usecases.VerificationUsecase,
	orders *usecases.OrderUsecase,
	notifier *usecases.Notifier,
) *Manager {
	return &Manager{
		sessions:      make(map[int64]*session),
		users:         users,
		verifications: verifications,
		orders:        orders,
		notifier:      notifier,
	}
}

// Start opens a fresh form for the user, replacing any session already in
// progress, and returns the first prompt. Starting a verification form is
// refused with ErrAlreadyApplied when the user is pending or verified.
func (m *Manager) Start(ctx context.Context, kind Kind, userID int64) (string, error) {
	if kind == KindVerification {
		user, err := m.users.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if !user.CanApply() {
			return "", domainerrors.ErrAlreadyApplied
		}
	}

	s := &session{kind: kind}
	switch kind {
	case KindVerification:
		s.step = StepActivity
	case KindOrder:
		s.step = StepItem
	case KindBroadcast:
		s.step = StepMessage
	default:
		return "", domainerrors.ErrInvalidInput
	}

	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()

	return promptFor(s.kind, s.step), nil
}

// Active reports whether the user has a form in progress.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// Cancel discards the user's form, if any.
func (m *Manager) Cancel(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// Submit feeds one input event into the user's active form. Validation
// failures re-prompt the same step; the terminal step commits through the
// lifecycle engine and clears the session.
func (m *Manager) Submit(ctx context.Context, userID int64, input Input) (*Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil, domainerrors.ErrNoSession
	}

	switch s.kind {
	case KindVerification:
		return m.submitVerificationStep(ctx, userID, s, input)
	case KindOrder:
		return m.submitOrderStep(ctx, userID, s, input)
	case KindBroadcast:
		return m.submitBroadcastStep(ctx, userID, input)
	default:
		return nil, domainerrors.ErrNoSession
	}
}

func (m *Manager) submitVerificationStep(ctx context.Context, userID int64, s *session, input Input) (*Result, error) {
	switch s.step {
	case StepActivity:
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return reprompt("Please describe your field of work."), nil
		}
		s.activity = text
		s.step = StepName
		return advanced(s), nil

	case StepName:
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return reprompt("Please enter your full name."), nil
		}
		s.name = text
		s.step = StepAge
		return advanced(s), nil

	case StepAge:
		age, err := strconv.Atoi(strings.TrimSpace(input.Text))
		if err != nil || age < entities.MinimumAge {
			return reprompt("Please enter your age as a number (14 or older)."), nil
		}
		s.age = age
		s.step = StepDocument
		return advanced(s), nil

	case StepDocument:
		if input.PhotoID == "" && !input.Skip {
			return reprompt("Please send a photo of your document, or tap Skip."), nil
		}
		s.document = input.PhotoID

		v, err := m.verifications.Submit(ctx, userID, entities.SubmitVerificationInput{
			Name:          s.name,
			Age:           s.age,
			Activity:      s.activity,
			DocumentPhoto: s.document,
		})
		if err != nil {
			// the form stays open so a transient failure can be retried
			return nil, err
		}
		m.Cancel(userID)
		return &Result{
			Outcome:      OutcomeCommitted,
			Prompt:       "Your application has been submitted. You will be notified once it is reviewed.",
			Verification: v,
		}, nil
	}
	return nil, domainerrors.ErrNoSession
}

func (m *Manager) submitOrderStep(ctx context.Context, userID int64, s *session, input Input) (*Result, error) {
	switch s.step {
	case StepItem:
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return reprompt("Please describe the item you need."), nil
		}
		s.item = text
		s.step = StepPrice
		return advanced(s), nil

	case StepPrice:
		price, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(input.Text, "$")), 64)
		if err != nil || price <= 0 {
			return reprompt("Please enter your budget as a positive number."), nil
		}

		order, err := m.orders.Create(ctx, userID, entities.CreateOrderInput{
			Item:  s.item,
			Price: price,
		})
		if err != nil {
			return nil, err
		}
		m.Cancel(userID)
		return &Result{
			Outcome: OutcomeCommitted,
			Prompt:  "Your order has been placed. An agent will take it shortly.",
			Order:   order,
		}, nil
	}
	return nil, domainerrors.ErrNoSession
}

func (m *Manager) submitBroadcastStep(ctx context.Context, userID int64, input Input) (*Result, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return reprompt("Please enter the message to broadcast."), nil
	}

	count, err := m.notifier.Broadcast(ctx, text)
	if err != nil {
		return nil, err
	}
	m.Cancel(userID)
	return &Result{
		Outcome:        OutcomeCommitted,
		Prompt:         "Broadcast delivered to " + strconv.Itoa(count) + " agents.",
		BroadcastCount: count,
	}, nil
}

func reprompt(msg string) *Result {
	return &Result{Outcome: OutcomeReprompt, Prompt: msg}
}

func advanced(s *session) *Result {
	return &Result{Outcome: OutcomeAdvanced, Prompt: promptFor(s.kind, s.step), Step: s.step}
}

func promptFor(kind Kind, step string) string {
	switch kind {
	case KindVerification:
		switch step {
		case StepActivity:
			return "What do you do? Pick a category or type your own."
		case StepName:
			return "What is your full name?"
		case StepAge:
			return "How old are you?"
		case StepDocument:
			return "Send a photo of an identity document, or tap Skip."
		}
	case KindOrder:
		switch step {
		case StepItem:
			return "What do you need? Pick a category or describe the item."
		case StepPrice:
			return "What is your budget in dollars?"
		}
	case KindBroadcast:
		return "Enter the message to send to all verified agents."
	}
	return ""
}
