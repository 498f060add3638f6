package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

// Reporter outputs scan reports to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.ScanReport) error {
	tmpl := `
Scan {{.ScanID}}
Tenant:   {{.TenantID}} ({{.AccountID}})
Regions:  {{range $i, $r := .Regions}}{{if $i}}, {{end}}{{$r}}{{end}}
Duration: {{.StartedAt.Format "2006-01-02 15:04:05"}} to {{.FinishedAt.Format "15:04:05"}}
{{if .SnapshotKey}}Snapshot: {{.SnapshotKey}}{{end}}

Resources: {{.Totals.Resources}} (compliant {{.Totals.Compliant}}, non-compliant {{.Totals.NonCompliant}}, not evaluated {{.Totals.NotEvaluated}}, errors {{.Totals.Errors}})
Findings:  {{.Totals.Findings}} (alerts sent: {{.AlertsSent}})
{{range .FindingsSample}}
- [{{.Severity}}] {{.RuleID}} {{.ResourceARN}}
  {{.Message}}
{{end}}
`
	t, err := template.New("scan").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
