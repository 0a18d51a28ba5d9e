package checkout

// State is a step of the checkout state machine
type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateComputing         State = "computing"
	StateAwaitingPayment   State = "awaiting_payment"
	StatePaymentConfirmed  State = "payment_confirmed"
	StatePersisting        State = "persisting"
	StateCompleted         State = "completed"
	StateValidationFailed  State = "validation_failed"
	StatePaymentFailed     State = "payment_failed"
	StatePersistenceFailed State = "persistence_failed"
)

var transitions = map[State][]State{
	StateIdle:             {StateValidating, StatePersisting, StateCompleted},
	StateValidating:       {StateComputing, StateValidationFailed},
	StateComputing:        {StateAwaitingPayment},
	StateAwaitingPayment:  {StatePaymentConfirmed, StatePaymentFailed},
	StatePaymentConfirmed: {StatePersisting},
	StatePersisting:       {StateCompleted, StatePersistenceFailed},
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Idle goes straight to Persisting when resuming a captured payment, and to
// Completed when the key already has an order.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends a checkout attempt
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateValidationFailed, StatePaymentFailed, StatePersistenceFailed:
		return true
	}
	return false
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
