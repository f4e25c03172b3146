package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

type Course struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	Title                string    `gorm:"size:100;not null" json:"title"`
	Description          string    `gorm:"not null" json:"description"`
	Weeks                int       `gorm:"not null" json:"weeks"`
	Tuition              float64   `gorm:"not null" json:"tuition"`
	MinimumSkill         string    `gorm:"size:20;not null" json:"minimumSkill"`
	ScholarshipAvailable bool      `gorm:"not null" json:"scholarshipAvailable"`
	CreatedAt            time.Time `json:"createdAt"`
	BootcampID           string    `gorm:"size:36;not null;index" json:"-"`
	UserID               string    `gorm:"size:36;not null;index" json:"user"`

	Bootcamp *Bootcamp `gorm:"foreignKey:BootcampID" json:"-"`
}

func (Course) TableName() string { return "courses" }

func (c *Course) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BootcampSummary is the populated form of a course's bootcamp.
type BootcampSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarshalJSON renders "bootcamp" as the bare id, or as a summary object when populated.
func (c Course) MarshalJSON() ([]byte, error) {
	type alias Course
	out := struct {
		alias
		Bootcamp any `json:"bootcamp"`
	}{alias: alias(c), Bootcamp: c.BootcampID}
	if c.Bootcamp != nil {
		out.Bootcamp = BootcampSummary{
			ID:          c.Bootcamp.ID,
			Name:        c.Bootcamp.Name,
			Description: c.Bootcamp.Description,
		}
	}
	return json.Marshal(out)
}
