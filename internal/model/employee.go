package model

import "strings"

type Employee struct {
	EmployeeID     uint    `json:"employee_id" gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	BadgeIDs       string  `json:"badge_ids" gorm:"column:badge_ids"` // Dipisah koma, contoh: "BADGE_0001,BADGE_0001_ALT"
	PhoneID        *string `json:"phone_id" gorm:"index"`
	Facility       string  `json:"facility"`
	EmploymentType string  `json:"employment_type"` // FULL_TIME/PART_TIME/CONTRACT
}

func (Employee) TableName() string {
	return "employees"
}

// Badges splits the comma-separated badge list, dropping blanks.
func (e Employee) Badges() []string {
	return SplitList(e.BadgeIDs)
}

// Phone returns the trimmed phone id or "" when none is set.
func (e Employee) Phone() string {
	if e.PhoneID == nil {
		return ""
	}
	return strings.TrimSpace(*e.PhoneID)
}

// SplitList splits a comma-separated value and trims every element.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
