package status

// Action is one legal next transition for a booking, annotated with the label
// a renderer shows for the acting role and the tuple the booking would hold
// after the transition.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Next  Tuple  `json:"next"`
}

const (
	ActionRequestConfirmation = "request_confirmation"
	ActionSendToFinance       = "send_to_finance"
	ActionVerdictFull         = "verdict_full"
	ActionVerdictDeposit      = "verdict_deposit"
	ActionVerdictDoNotBuy     = "verdict_do_not_purchase"
	ActionAmend               = "amend"
	ActionReject              = "reject"
)

// candidate is one row of the static transition table: an action available
// from a given lifecycle stage, with the roles allowed to trigger it and the
// effect on the full tuple.
type candidate struct {
	id    string
	label string
	roles []Role
	apply func(Tuple) Tuple
}

// transitions is the single source of truth for the lifecycle state machine.
// Keyed by the current booking status; unlisted stages (rejected) are
// terminal.
var transitions = map[BookingStatus][]candidate{
	Provisional: {
		{
			id:    ActionRequestConfirmation,
			label: "Request Confirmation",
			roles: []Role{RoleUser},
			apply: func(t Tuple) Tuple {
				t.Booking = Requested
				return t
			},
		},
		rejectCandidate,
	},
	Requested: {
		{
			id:    ActionSendToFinance,
			label: "Send to Finance",
			roles: []Role{RoleAdmin},
			apply: func(t Tuple) Tuple {
				t.Booking = ValidationRequest
				return t
			},
		},
		rejectCandidate,
	},
	ValidationRequest: {
		{
			id:    ActionVerdictFull,
			label: "OK to Purchase (Full)",
			roles: []Role{RoleFinanceAdmin},
			apply: verdict(OkToPurchaseFull),
		},
		{
			id:    ActionVerdictDeposit,
			label: "OK to Purchase (Deposit)",
			roles: []Role{RoleFinanceAdmin},
			apply: verdict(OkToPurchaseDeposit),
		},
		{
			// Do-not-purchase still lands in confirmed: the booking becomes a
			// terminal record of the verdict, not a purchased permit.
			id:    ActionVerdictDoNotBuy,
			label: "Do Not Purchase",
			roles: []Role{RoleFinanceAdmin},
			apply: verdict(DoNotPurchase),
		},
		rejectCandidate,
	},
	Confirmed: {
		{
			id:    ActionAmend,
			label: "Amend Details",
			roles: []Role{RoleAdmin, RoleUser},
			apply: func(t Tuple) Tuple {
				// Payment and verdict are retained until re-validated.
				t.Booking = Amended
				return t
			},
		},
		rejectCandidate,
	},
	Amended: {
		rejectCandidate,
	},
}

var rejectCandidate = candidate{
	id:    ActionReject,
	label: "Reject Booking",
	roles: []Role{RoleAdmin},
	apply: func(t Tuple) Tuple {
		t.Booking = Rejected
		if t.Payment != PaymentFullyPaid {
			t.Payment = PaymentCancelled
		}
		// A rejected booking carries no verdict; finance decisions only rest
		// on live stages.
		t.Validation = ValidationPending
		return t
	},
}

func verdict(v ValidationStatus) func(Tuple) Tuple {
	return func(t Tuple) Tuple {
		t.Booking = Confirmed
		t.Validation = v
		return t
	}
}

func (c candidate) allows(role Role) bool {
	for _, r := range c.roles {
		if r == role {
			return true
		}
	}
	return false
}

// ActionsFor resolves the set of legal next actions for a booking's current
// tuple and an acting role. A role with nothing to do (a viewer, or anyone on
// a rejected booking) gets an empty set, not an error.
func ActionsFor(t Tuple, role Role) []Action {
	var actions []Action
	for _, c := range transitions[t.Booking] {
		if !c.allows(role) {
			continue
		}
		actions = append(actions, Action{
			ID:    c.id,
			Label: c.label,
			Next:  c.apply(t),
		})
	}
	return actions
}

// Resolve returns the action with the given ID applied to the current tuple,
// or a decision-time error: ErrPermissionDenied when the action exists for
// this stage under another role, ErrInvalidTransition when it does not exist
// for this stage at all.
func Resolve(t Tuple, role Role, actionID string) (Action, error) {
	for _, c := range transitions[t.Booking] {
		if c.id != actionID {
			continue
		}
		if !c.allows(role) {
			return Action{}, ErrPermissionDenied
		}
		return Action{ID: c.id, Label: c.label, Next: c.apply(t)}, nil
	}
	return Action{}, ErrInvalidTransition
}
