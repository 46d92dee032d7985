package sheets

import (
	"fmt"

	"github.com/google/uuid"

	"penalty/internal/worksheet"
	"penalty/pkg/models"
)

// Populate enters shipments into w as a user would: one row per shipment,
// date first, then document, sum (committed) and checked flag.
//
// A worksheet that still holds only its initial blank row gets that row
// filled instead of keeping it empty at the top.
func Populate(w *worksheet.Worksheet, shipments []ShipmentInput) (rejected []ShipmentInput, err error) {
	const op = "Populate"

	rows := w.Rows()
	reuse := len(rows) == 1 && isUntouched(rows[0])

	for i, s := range shipments {
		var id uuid.UUID
		if reuse && i == 0 {
			id = rows[0].ID
		} else {
			id = w.AddRow().ID
		}

		if err := w.SetShipmentDate(id, s.ShipmentDate); err != nil {
			return rejected, fmt.Errorf("%s: row %d: %w", op, s.RowNum, err)
		}
		if err := w.SetDocument(id, s.Document); err != nil {
			return rejected, fmt.Errorf("%s: row %d: %w", op, s.RowNum, err)
		}
		if s.SumText != "" {
			if err := w.SetSum(id, s.SumText); err != nil {
				return rejected, fmt.Errorf("%s: row %d: %w", op, s.RowNum, err)
			}
			committed, err := w.CommitSum(id, s.SumText)
			if err != nil {
				return rejected, fmt.Errorf("%s: row %d: %w", op, s.RowNum, err)
			}
			if !committed {
				rejected = append(rejected, s)
			}
		}
		if err := w.SetChecked(id, s.Checked); err != nil {
			return rejected, fmt.Errorf("%s: row %d: %w", op, s.RowNum, err)
		}
	}

	return rejected, nil
}

func isUntouched(row models.ShipmentRow) bool {
	return row.ShipmentDate == nil && row.Document == "" && row.Sum.IsZero() && row.SumInput == "" && !row.SumSet && !row.Checked
}
