// internal/core/ports/codec.go
package ports

import (
	"strconv"

	"github.com/mcanales/floreria-be/internal/core/domain"
)

// Sheet is one tabular worksheet handed to the codec: an ordered header row
// plus data rows aligned to it.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Row is one decoded spreadsheet row keyed by header cell. Imports resolve
// values through ordered fallback chains over these keys because multiple
// export format versions coexist.
type Row map[string]string

// ReportCodec converts between in-memory sheets and a spreadsheet file.
// Implementations must preserve header strings byte-for-byte so previously
// exported files keep round-tripping.
type ReportCodec interface {
	Encode(sheets []Sheet) ([]byte, error)
	Decode(data []byte) (map[string][]Row, error)
}

// ReportSheets lays a report out as the two worksheets the workbook
// carries. Empty sheets are omitted, matching the original export.
func ReportSheets(r *domain.Report) []Sheet {
	var sheets []Sheet

	if len(r.Inventory) > 0 {
		inv := Sheet{
			Name: domain.SheetInventory,
			Header: []string{
				domain.ColProductName,
				domain.ColOpening,
				domain.ColRestocked,
				domain.ColSold,
				domain.ColBouquetUse,
				domain.ColLost,
				r.Kind.ClosingHeader(),
			},
		}
		for _, row := range r.Inventory {
			inv.Rows = append(inv.Rows, []string{
				row.ProductName,
				itoa(row.Opening),
				itoa(row.Restocked),
				itoa(row.Sold),
				itoa(row.BouquetUse),
				itoa(row.Lost),
				itoa(row.Closing),
			})
		}
		sheets = append(sheets, inv)
	}

	if len(r.Sales) > 0 {
		sales := Sheet{
			Name: domain.SheetSales,
			Header: []string{
				domain.ColTime,
				domain.ColProducts,
				domain.ColPrice,
				domain.ColPaymentMethod,
				domain.ColNotes,
			},
		}
		for _, row := range r.Sales {
			sales.Rows = append(sales.Rows, []string{
				row.Time,
				row.Products,
				row.Price,
				row.PaymentMethod,
				row.Notes,
			})
		}
		sheets = append(sheets, sales)
	}

	return sheets
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
