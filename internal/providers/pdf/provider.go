package pdf

import (
	"context"
	"io"
	"time"

	"github.com/gosimple/slug"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"go.uber.org/fx"
)

type Provider interface {
	RenderWaterReport(ctx context.Context, report *waterdomain.Report, generatedAt time.Time) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

// Filename builds a download name such as "water-usage-report-2024-03-20.pdf".
func Filename(title string, at time.Time) string {
	return slug.Make(title+" "+at.Format("2006-01-02")) + ".pdf"
}
