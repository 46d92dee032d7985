// Package worksheet holds the state of one penalty calculation session: the
// shipment rows, the worksheet-wide terms and the buyer details.
//
// Every mutation is handled to completion before it returns: derived payment
// dates are re-derived, the aggregates are recomputed from scratch and all
// subscribed notifiers are called. A Worksheet is not safe for concurrent use.
package worksheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"penalty/internal/amount"
	"penalty/internal/datemath"
	"penalty/internal/penalty"
	"penalty/pkg/models"
)

// ErrRowNotFound is returned when an operation names a row that does not exist.
var ErrRowNotFound = errors.New("shipment row not found")

// Context is the worksheet-wide input of the calculation.
type Context struct {
	PaymentTermText string // As typed
	PaymentTerm     *int   // Parsed days, nil if the text is not a number
	PenaltyRate     string
	EvaluationDate  time.Time
	IncreaseSum     bool
}

// Option configures a Worksheet.
type Option func(*Worksheet)

// WithLogger makes the worksheet log degraded inputs.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Worksheet) {
		w.log = log
	}
}

// WithPenaltyRate sets the initial rate selector.
func WithPenaltyRate(selector string) Option {
	return func(w *Worksheet) {
		w.ctx.PenaltyRate = selector
	}
}

// WithPaymentTerm sets the initial payment term text.
func WithPaymentTerm(text string) Option {
	return func(w *Worksheet) {
		w.setTerm(text)
	}
}

// WithEvaluationDate overrides the session-start evaluation date.
func WithEvaluationDate(date time.Time) Option {
	return func(w *Worksheet) {
		w.ctx.EvaluationDate = datemath.Truncate(date)
	}
}

// Worksheet is one calculation session.
type Worksheet struct {
	engine    *penalty.Engine
	party     models.Party
	ctx       Context
	rows      []models.ShipmentRow
	notifiers []Notifier
	log       zerolog.Logger
}

// New creates a worksheet with a single empty row, evaluated as of today.
func New(engine *penalty.Engine, opts ...Option) *Worksheet {
	w := &Worksheet{
		engine: engine,
		ctx: Context{
			PenaltyRate:    penalty.RateFixed015,
			EvaluationDate: datemath.Today(),
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.rows = append(w.rows, models.NewShipmentRow())
	return w
}

// Subscribe registers n for every subsequent change.
func (w *Worksheet) Subscribe(n Notifier) {
	w.notifiers = append(w.notifiers, n)
}

// Context returns the current worksheet-wide inputs.
func (w *Worksheet) Context() Context {
	c := w.ctx
	if c.PaymentTerm != nil {
		term := *c.PaymentTerm
		c.PaymentTerm = &term
	}
	return c
}

// Party returns the buyer details.
func (w *Worksheet) Party() models.Party {
	return w.party
}

// Terms returns the inputs the engine needs for the current state.
func (w *Worksheet) Terms() penalty.Terms {
	return penalty.Terms{
		EvaluationDate: w.ctx.EvaluationDate,
		RateSelector:   w.ctx.PenaltyRate,
		IncreaseSum:    w.ctx.IncreaseSum,
	}
}

// Rows returns a copy of the rows in display order.
func (w *Worksheet) Rows() []models.ShipmentRow {
	out := make([]models.ShipmentRow, 0, len(w.rows))
	for _, row := range w.rows {
		out = append(out, row.Clone())
	}
	return out
}

// Row returns a copy of the row with id.
func (w *Worksheet) Row(id uuid.UUID) (models.ShipmentRow, error) {
	i, err := w.index(id)
	if err != nil {
		return models.ShipmentRow{}, err
	}
	return w.rows[i].Clone(), nil
}

// Lines derives overdue days, penalty and surcharge for every row.
func (w *Worksheet) Lines() []penalty.Line {
	return w.engine.Lines(w.rows, w.Terms())
}

// Totals recomputes the aggregates from the current rows.
func (w *Worksheet) Totals() penalty.Totals {
	return w.engine.Totals(w.rows, w.Terms())
}

// Documents lists the document/checked pair of every row.
func (w *Worksheet) Documents() []models.DocumentRef {
	docs := make([]models.DocumentRef, 0, len(w.rows))
	for _, row := range w.rows {
		docs = append(docs, models.DocumentRef{Document: row.Document, Checked: row.Checked})
	}
	return docs
}

// AddRow appends an empty row and returns it.
func (w *Worksheet) AddRow() models.ShipmentRow {
	row := models.NewShipmentRow()
	w.rows = append(w.rows, row)

	w.log.Debug().Str("row_id", row.ID.String()).Int("rows", len(w.rows)).Msg("Row added")

	w.publishDocuments()
	w.publishTotals()
	return row.Clone()
}

// RemoveRow deletes the row with id and everything it contributed.
func (w *Worksheet) RemoveRow(id uuid.UUID) error {
	const op = "RemoveRow"

	i, err := w.index(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.rows = append(w.rows[:i], w.rows[i+1:]...)

	w.log.Debug().Str("row_id", id.String()).Int("rows", len(w.rows)).Msg("Row removed")

	w.publishDocuments()
	w.publishTotals()
	return nil
}

// SetShipmentDate sets or clears (nil) the shipment date of a row and
// re-derives its payment date.
func (w *Worksheet) SetShipmentDate(id uuid.UUID, date *time.Time) error {
	const op = "SetShipmentDate"

	i, err := w.index(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if date == nil {
		w.rows[i].ShipmentDate = nil
	} else {
		d := datemath.Truncate(*date)
		w.rows[i].ShipmentDate = &d
	}
	w.derivePaymentDate(&w.rows[i])

	w.publishTotals()
	return nil
}

// SetPaymentTerm changes the payment term for the whole worksheet and
// re-derives the payment date of every row that has a shipment date.
func (w *Worksheet) SetPaymentTerm(text string) {
	w.setTerm(text)
	if w.ctx.PaymentTerm == nil && text != "" {
		w.log.Warn().Str("payment_term", text).Msg("Payment term is not a number, payment dates cleared")
	}

	for i := range w.rows {
		if w.rows[i].ShipmentDate != nil {
			w.derivePaymentDate(&w.rows[i])
		}
	}

	w.emit(TopicPaymentTerm, text)
	w.publishTotals()
}

// SetSum records what is being typed into a row's sum field. The committed
// sum and the aggregates are untouched until CommitSum.
func (w *Worksheet) SetSum(id uuid.UUID, raw string) error {
	const op = "SetSum"

	i, err := w.index(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.rows[i].SumInput = raw
	return nil
}

// CommitSum normalises raw into the row's sum. Input that is not a
// non-negative number is dropped: the row keeps its previous sum and its
// field shows that value again. committed reports which case happened.
func (w *Worksheet) CommitSum(id uuid.UUID, raw string) (committed bool, err error) {
	const op = "CommitSum"

	i, err := w.index(id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	row := &w.rows[i]

	value, ok := amount.Normalize(raw)
	if !ok {
		w.log.Warn().
			Str("row_id", id.String()).
			Str("input", raw).
			Str("kept", amount.Canonical(row.Sum)).
			Msg("Sum is not a number, keeping previous value")
		row.SumInput = sumText(*row)
		return false, nil
	}

	row.Sum = value
	row.SumSet = true
	row.SumInput = amount.Canonical(value)

	w.publishTotals()
	return true, nil
}

// SetDocument changes a row's document label.
func (w *Worksheet) SetDocument(id uuid.UUID, text string) error {
	const op = "SetDocument"

	i, err := w.index(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.rows[i].Document = text

	w.publishDocuments()
	w.publishTotals()
	return nil
}

// SetChecked changes a row's reporting flag.
func (w *Worksheet) SetChecked(id uuid.UUID, checked bool) error {
	const op = "SetChecked"

	i, err := w.index(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.rows[i].Checked = checked

	w.publishDocuments()
	w.publishTotals()
	return nil
}

// SetPenaltyRate changes the rate selector.
func (w *Worksheet) SetPenaltyRate(selector string) {
	w.ctx.PenaltyRate = selector
	if _, ok := w.engine.Policy().Resolve(selector); !ok {
		w.log.Warn().Str("penalty_rate", selector).Msg("Unknown penalty rate, penalties are zero")
	}

	w.emit(TopicPenaltyRate, selector)
	w.publishTotals()
}

// SetEvaluationDate changes the date penalties are computed as of.
func (w *Worksheet) SetEvaluationDate(date time.Time) {
	w.ctx.EvaluationDate = datemath.Truncate(date)

	w.emit(TopicEvaluationDate, w.ctx.EvaluationDate)
	w.publishTotals()
}

// SetIncreaseSum toggles the 10% surcharge line.
func (w *Worksheet) SetIncreaseSum(enabled bool) {
	w.ctx.IncreaseSum = enabled

	w.emit(TopicIncreaseSum, enabled)
	w.publishTotals()
}

// SetBuyer changes the buyer name.
func (w *Worksheet) SetBuyer(name string) {
	w.party.Buyer = name
	w.emit(TopicBuyer, name)
}

// SetTaxNumber changes the buyer's tax identifier.
func (w *Worksheet) SetTaxNumber(taxNumber string) {
	w.party.TaxNumber = taxNumber
	w.emit(TopicTaxNumber, taxNumber)
}

// SetAddress changes the buyer's address.
func (w *Worksheet) SetAddress(address string) {
	w.party.Address = address
	w.emit(TopicAddress, address)
}

// SetContract changes the contract reference.
func (w *Worksheet) SetContract(contract string) {
	w.party.Contract = contract
	w.emit(TopicContract, contract)
}

func (w *Worksheet) index(id uuid.UUID) (int, error) {
	for i := range w.rows {
		if w.rows[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrRowNotFound, id)
}

func (w *Worksheet) setTerm(text string) {
	w.ctx.PaymentTermText = text
	if days, ok := amount.ParseTerm(text); ok {
		w.ctx.PaymentTerm = &days
	} else {
		w.ctx.PaymentTerm = nil
	}
}

// derivePaymentDate keeps PaymentDate = ShipmentDate + term, or nil.
func (w *Worksheet) derivePaymentDate(row *models.ShipmentRow) {
	if row.ShipmentDate == nil || w.ctx.PaymentTerm == nil {
		row.PaymentDate = nil
		return
	}
	due := datemath.AddDays(*row.ShipmentDate, *w.ctx.PaymentTerm)
	row.PaymentDate = &due
}

func (w *Worksheet) publishTotals() {
	totals := w.Totals()
	w.emit(TopicTotalDebt, totals.Debt)
	w.emit(TopicTotalPenalty, totals.Penalty)
	w.emit(TopicTotalIncreaseSum, totals.IncreaseSum)
}

func (w *Worksheet) publishDocuments() {
	w.emit(TopicDocuments, w.Documents())
}

// sumText is what the sum field shows after a rejected commit; a row that
// never had a sum shows nothing.
func sumText(row models.ShipmentRow) string {
	if !row.SumSet {
		return ""
	}
	return amount.Canonical(row.Sum)
}
