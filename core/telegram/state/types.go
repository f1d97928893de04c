package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingCategory waits for a product category choice.
	StateAwaitingCategory State = "awaiting_category"
	// StateAwaitingPrice waits for the item price in yuan.
	StateAwaitingPrice State = "awaiting_price"
	// StateAwaitingDelivery waits for a delivery method choice.
	StateAwaitingDelivery State = "awaiting_delivery"
	// StateAwaitingTracking waits for an order code to look up.
	StateAwaitingTracking State = "awaiting_tracking"
)

// Session stores conversation state and the inputs captured so far for one
// user. Category and PriceCNY are consumed exactly once, in the terminal
// pricing step, after which the session is cleared.
type Session struct {
	State    State
	Category string
	PriceCNY float64
}

// Manager owns user sessions and FSM state transitions. Handlers are
// registered per state on the manager instance; there is no package-global
// registry, so managers can be constructed independently in tests.
type Manager interface {
	Get(userID int64) Session
	SetState(userID int64, st State)
	SetCategory(userID int64, category string)
	SetPrice(userID int64, price float64)
	Clear(userID int64)

	InProgress(userID int64) bool
	RegisterHandler(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
