package model

const SwapApproved = "APPROVED"

type ShiftDefinition struct {
	ShiftID    uint   `json:"shift_id" gorm:"column:shift_id;primaryKey;autoIncrement:false"`
	EmployeeID uint   `json:"employee_id" gorm:"index"`
	StartTime  string `json:"start_time"`   // "HH:MM"
	EndTime    string `json:"end_time"`     // "HH:MM", lebih kecil dari StartTime = lintas hari
	DaysOfWeek string `json:"days_of_week"` // "0,1,2,3,4" (0 = Senin)
	Facility   string `json:"facility"`
}

func (ShiftDefinition) TableName() string {
	return "shifts"
}

type ShiftSwap struct {
	SwapID      uint   `json:"swap_id" gorm:"column:swap_id;primaryKey"`
	EmployeeID1 uint   `json:"employee_id_1" gorm:"column:employee_id_1"`
	EmployeeID2 uint   `json:"employee_id_2" gorm:"column:employee_id_2"`
	ShiftID1    uint   `json:"shift_id_1" gorm:"column:shift_id_1"`
	ShiftID2    uint   `json:"shift_id_2" gorm:"column:shift_id_2"`
	SwapDate    string `json:"swap_date" gorm:"index"` // YYYY-MM-DD
	Status      string `json:"status"`                 // PENDING/APPROVED/REJECTED
}

func (ShiftSwap) TableName() string {
	return "shift_swaps"
}
