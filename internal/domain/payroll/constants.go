package payroll

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	MaxBasicSalary = 10000000
	MinBasicSalary = 0.01
	MaxAllowances  = 5000000

	AuditEntitySalaryRecord = "salary_record"
)

var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusPaid}

func IsPayable(paymentStatus string) bool {
	return paymentStatus == PaymentStatusPending
}
