// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/order"
	"github.com/your-org/restaurant-backend/internal/pkg/money"
)

// Service renders paid orders into PDF receipts
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders the receipt for a paid order. Cancelled chunk items are
// listed struck-through with a zero line total, matching what was charged.
func (s *Service) Generate(ord *order.Order, store *menu.Store) (*bytes.Buffer, error) {
	if ord.Status != order.StatusPaid {
		return nil, fmt.Errorf("order %d is not paid", ord.ID)
	}

	data := s.buildData(ord, store)

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) buildData(ord *order.Order, store *menu.Store) receiptData {
	paidAt := time.Now()
	if ord.PaidAt != nil {
		paidAt = *ord.PaidAt
	}

	data := receiptData{
		ReceiptNumber:  fmt.Sprintf("RCP-%d", ord.ID),
		Date:           paidAt.Format("January 2, 2006 15:04"),
		StoreName:      store.Name,
		Currency:       store.Currency,
		SubTotal:       money.Round2(ord.SubTotal).StringFixed(2),
		DiscountAmount: money.Round2(ord.DiscountAmount).StringFixed(2),
		HasDiscount:    ord.DiscountAmount.IsPositive(),
		DiscountReason: ord.DiscountReason,
		TaxAmount:      money.Round2(ord.TaxAmount).StringFixed(2),
		ServiceAmount:  money.Round2(ord.ServiceChargeAmount).StringFixed(2),
		GrandTotal:     money.Round2(ord.GrandTotal).StringFixed(2),
		Footer:         s.config.Store.ReceiptFooter,
	}

	for _, chunk := range ord.Chunks {
		for _, item := range chunk.Items {
			line := receiptLine{
				Name:      item.Name,
				Quantity:  item.Quantity,
				Cancelled: item.Cancelled,
			}
			unit := item.UnitPrice
			for _, opt := range item.Options {
				unit = unit.Add(opt.Price)
				line.Options = append(line.Options, opt.Name)
			}
			total := decimal.Zero
			if !item.Cancelled {
				total = money.Round2(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
			line.UnitPrice = money.Round2(unit).StringFixed(2)
			line.LineTotal = total.StringFixed(2)
			data.Lines = append(data.Lines, line)
		}
	}
	return data
}

func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// receiptData is the template input
type receiptData struct {
	ReceiptNumber  string
	Date           string
	StoreName      string
	Currency       string
	Lines          []receiptLine
	SubTotal       string
	HasDiscount    bool
	DiscountAmount string
	DiscountReason string
	TaxAmount      string
	ServiceAmount  string
	GrandTotal     string
	Footer         string
}

type receiptLine struct {
	Name      string
	Quantity  int
	Options   []string
	UnitPrice string
	LineTotal string
	Cancelled bool
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: "Courier New", monospace;
            margin: 0;
            padding: 20px;
            color: #111;
            max-width: 420px;
        }
        .header {
            text-align: center;
            border-bottom: 1px dashed #111;
            padding-bottom: 10px;
            margin-bottom: 10px;
        }
        .store-name {
            font-size: 20px;
            font-weight: bold;
        }
        .meta {
            font-size: 12px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 10px;
        }
        .items-table td {
            padding: 3px 0;
            font-size: 13px;
            vertical-align: top;
        }
        .qty-col { width: 30px; }
        .amount-col { text-align: right; width: 70px; }
        .options {
            font-size: 11px;
            color: #555;
            padding-left: 10px;
        }
        .cancelled { text-decoration: line-through; color: #999; }
        .totals {
            border-top: 1px dashed #111;
            padding-top: 8px;
        }
        .totals table { width: 100%; }
        .totals td { padding: 2px 0; font-size: 13px; }
        .totals .amount { text-align: right; }
        .grand-total td {
            font-size: 16px;
            font-weight: bold;
            border-top: 1px solid #111;
            padding-top: 6px;
        }
        .footer {
            margin-top: 16px;
            padding-top: 10px;
            border-top: 1px dashed #111;
            text-align: center;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-name">{{.StoreName}}</div>
        <div class="meta">{{.Date}}</div>
        <div class="meta">Receipt {{.ReceiptNumber}}</div>
    </div>

    <table class="items-table">
        <tbody>
            {{range .Lines}}
            <tr{{if .Cancelled}} class="cancelled"{{end}}>
                <td class="qty-col">{{.Quantity}}x</td>
                <td>
                    {{.Name}}
                    {{range .Options}}<div class="options">+ {{.}}</div>{{end}}
                </td>
                <td class="amount-col">{{.LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td>Subtotal</td>
                <td class="amount">{{.SubTotal}}</td>
            </tr>
            {{if .HasDiscount}}
            <tr>
                <td>Discount{{if .DiscountReason}} ({{.DiscountReason}}){{end}}</td>
                <td class="amount">-{{.DiscountAmount}}</td>
            </tr>
            {{end}}
            <tr>
                <td>Tax</td>
                <td class="amount">{{.TaxAmount}}</td>
            </tr>
            <tr>
                <td>Service charge</td>
                <td class="amount">{{.ServiceAmount}}</td>
            </tr>
            <tr class="grand-total">
                <td>Total ({{.Currency}})</td>
                <td class="amount">{{.GrandTotal}}</td>
            </tr>
        </table>
    </div>

    <div class="footer">
        <p>{{.Footer}}</p>
    </div>
</body>
</html>
`
