package attendance

import "time"

type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	IsHoliday  bool      `json:"isHoliday"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r Record) Hours() float64 {
	return r.CheckOut.Sub(r.CheckIn).Hours()
}

type Filter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}
