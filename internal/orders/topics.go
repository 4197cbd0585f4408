package orders

const (
	TopicOrderCreated   = "order.created"
	TopicStatusChanged  = "order.status.changed"
	TopicPaymentChanged = "order.payment.changed"
)

// Partition key = order id so all events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
