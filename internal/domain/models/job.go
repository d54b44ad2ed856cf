package models

import "time"

type JobDescription struct {
	JobID             string `gorm:"primaryKey;column:job_id" json:"job_id"`
	Description       string `gorm:"column:job_description" json:"description"`
	PositionFulfilled bool   `gorm:"column:position_fulfilled" json:"position_fulfilled"`
	CreatedAt         time.Time
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
