package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// delivered is terminal, shipped never moves backward, cancelled may be
// reactivated to any state.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusPending: true, StatusProcessing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusProcessing: {StatusPending: true, StatusProcessing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusShipped:    {StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {StatusPending: true, StatusProcessing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
}

func IsValidTransition(from, to Status) bool {
	return validNext[from][to]
}

// Payment status and mode labels as stored on order documents.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"

	PaymentModeCOD    = "cod"
	PaymentModeOnline = "online"
)
