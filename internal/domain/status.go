package domain

// Status of a placed order. Meaningful only once IsCart is false;
// a checked-out record starts at StatusPending.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// rank orders the fulfilment chain Pending -> Processing -> Shipped
// -> Delivered. Cancelled sits outside the chain.
var rank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := rank[s]
	return ok
}

// Cancellable reports whether the owner may still cancel an order in
// this state. Once shipping starts the order can only move forward.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Terminal reports whether no transition leaves this state.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo permits forward movement along the fulfilment
// chain, skipping steps included, and cancellation while the order is
// still Pending or Processing. Nothing leaves Delivered or Cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return false
	}
	if next == StatusCancelled {
		return s.Cancellable()
	}
	from, okFrom := rank[s]
	to, okTo := rank[next]
	return okFrom && okTo && to > from
}
