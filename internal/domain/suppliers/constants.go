package suppliers

const (
	StatusNotPaid = "not_paid"
	StatusPaid    = "paid"

	MinAmount            = 0.01
	MaxAmount            = 100000000
	MaxDescriptionLength = 500

	AuditEntityTransaction = "supplier_transaction"
)

var Statuses = []string{StatusNotPaid, StatusPaid}
