package worksheet

// Topic names a value the worksheet publishes to its host.
type Topic string

// Topics published by a Worksheet.
const (
	TopicBuyer            Topic = "buyer"
	TopicTaxNumber        Topic = "tax_number"
	TopicAddress          Topic = "address"
	TopicContract         Topic = "contract"
	TopicEvaluationDate   Topic = "evaluation_date"    // time.Time
	TopicIncreaseSum      Topic = "increase_sum"       // bool
	TopicPenaltyRate      Topic = "penalty_rate"       // string selector
	TopicPaymentTerm      Topic = "payment_term"       // raw term text
	TopicTotalDebt        Topic = "total_debt"         // decimal.Decimal
	TopicTotalPenalty     Topic = "total_penalty"      // decimal.Decimal
	TopicTotalIncreaseSum Topic = "total_increase_sum" // decimal.Decimal
	TopicDocuments        Topic = "documents"          // []models.DocumentRef
)

// Event carries the new value of a topic.
type Event struct {
	Topic Topic
	Value any
}

// Notifier reacts to worksheet changes (e.g. re-rendering a form, writing a
// claim letter draft).
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(event Event)

// Notify calls f(event).
func (f NotifierFunc) Notify(event Event) {
	f(event)
}

// emit fans event out to every subscriber in registration order.
func (w *Worksheet) emit(topic Topic, value any) {
	event := Event{Topic: topic, Value: value}
	for _, n := range w.notifiers {
		if n == nil {
			continue
		}
		n.Notify(event)
	}
}
