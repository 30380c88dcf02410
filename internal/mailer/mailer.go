package mailer

import "embed"

const (
	FromName             = "Lumiere"
	maxRetries           = 3
	UserWelcomeTemplate  = "user_welcome.tmpl"
	ImportReportTemplate = "import_report.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
