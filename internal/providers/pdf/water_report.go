package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
)

const (
	ReportTitle = "Water Usage Report"

	// fixed columns: property, apartment, meter, reading date, reading
	fixedColumns = 5
	// empty month cells render as a dash
	emptyCell = "-"
)

var ErrNilReport = errors.New("nil water report")

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// RenderWaterReport lays the report out as one table row per apartment with a
// column per month in report order.
func (p *PDFProvider) RenderWaterReport(ctx context.Context, report *waterdomain.Report, generatedAt time.Time) (io.Reader, error) {
	if report == nil {
		return nil, ErrNilReport
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithMaxGridSize(fixedColumns + len(report.Months)).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	span := fixedColumns + len(report.Months)

	m.AddRow(12,
		text.NewCol(span, ReportTitle, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(span, "Generated "+generatedAt.Format("02 Jan 2006 15:04"), props.Text{Size: 8}),
	)

	header := []string{"Property", "Apartment", "Meter", "Reading date", "Reading"}
	for _, month := range report.Months {
		header = append(header, month.Label)
	}
	m.AddRow(8, cells(header, props.Text{Style: fontstyle.Bold, Size: 7})...)

	if len(report.Rows) == 0 {
		m.AddRow(8, text.NewCol(span, "No readings recorded", props.Text{Size: 8}))
	}

	for _, row := range report.Rows {
		values := []string{
			row.PropertyName,
			row.ApartmentNumber,
			row.MeterNumber,
			row.ReadingDate,
			strconv.FormatFloat(row.WaterMeterReading, 'f', 2, 64),
		}
		for _, month := range report.Months {
			v, ok := row.Consumption[month.Key]
			if !ok || v == "" {
				v = emptyCell
			}
			values = append(values, v)
		}
		m.AddRow(7, cells(values, props.Text{Size: 7})...)
	}

	m.AddRow(2, col.New(span))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func cells(values []string, style props.Text) []core.Col {
	out := make([]core.Col, 0, len(values))
	for i, v := range values {
		s := style
		if i >= fixedColumns-1 {
			s.Align = align.Right
		}
		out = append(out, text.NewCol(1, v, s))
	}
	return out
}
