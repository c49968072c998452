package loans

const (
	StatusActive   = "active"
	StatusComplete = "complete"

	MinPrincipal   = 0.01
	MaxPrincipal   = 50000000
	MinInstallment = 0.01

	AuditEntityLoan = "loan"
)

var Statuses = []string{StatusActive, StatusComplete}
