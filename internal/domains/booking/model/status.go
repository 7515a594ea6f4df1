package model

type Status string

const (
	StatusCreated       Status = "Created"
	StatusAssigned      Status = "Assigned"
	StatusPickupStarted Status = "Pickup Started"
	StatusInTransit     Status = "In Transit"
	StatusDelivered     Status = "Delivered"
	StatusCancelled     Status = "Cancelled"
)

// Action is a lifecycle operation that moves a booking between statuses.
type Action string

const (
	ActionAccept       Action = "accept"
	ActionVerifyPickup Action = "verify_pickup"
	ActionStartTransit Action = "start_transit"
	ActionDeliver      Action = "deliver"
	ActionCancel       Action = "cancel"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Action]transition{
	ActionAccept:       {from: []Status{StatusCreated}, to: StatusAssigned},
	ActionVerifyPickup: {from: []Status{StatusAssigned}, to: StatusPickupStarted},
	ActionStartTransit: {from: []Status{StatusPickupStarted}, to: StatusInTransit},
	ActionDeliver:      {from: []Status{StatusInTransit}, to: StatusDelivered},
	ActionCancel: {
		from: []Status{StatusCreated, StatusAssigned, StatusPickupStarted, StatusInTransit},
		to:   StatusCancelled,
	},
}

// Apply returns the status reached by performing action from s.
func (s Status) Apply(action Action) (Status, bool) {
	t, ok := transitions[action]
	if !ok {
		return s, false
	}

	for _, from := range t.from {
		if from == s {
			return t.to, true
		}
	}

	return s, false
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActiveJob reports whether an agent still has work to do on the booking.
func (s Status) IsActiveJob() bool {
	switch s {
	case StatusAssigned, StatusPickupStarted, StatusInTransit:
		return true
	default:
		return false
	}
}

// Steps is the happy path in order, used to render progress.
var Steps = []Status{StatusCreated, StatusAssigned, StatusPickupStarted, StatusInTransit, StatusDelivered}
