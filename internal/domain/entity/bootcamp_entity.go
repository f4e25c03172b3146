package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultPhoto = "no-photo.jpg"

// Location is filled from the geocoder when a bootcamp is created or its address changes.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `gorm:"size:255" json:"formattedAddress"`
	Street           string  `gorm:"size:255" json:"street"`
	City             string  `gorm:"size:100" json:"city"`
	State            string  `gorm:"size:100" json:"state"`
	Zipcode          string  `gorm:"size:20" json:"zipcode"`
	Country          string  `gorm:"size:100" json:"country"`
}

type Bootcamp struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;index" json:"user"`
	Name          string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Slug          string    `gorm:"size:60;index" json:"slug"`
	Description   string    `gorm:"size:500;not null" json:"description"`
	Website       string    `gorm:"size:255" json:"website,omitempty"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	Email         string    `gorm:"size:255" json:"email,omitempty"`
	Address       string    `gorm:"size:255" json:"address,omitempty"`
	Location      Location  `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Careers       []string  `gorm:"serializer:json;type:text;not null" json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `gorm:"size:255;not null;default:no-photo.jpg" json:"photo"`
	Housing       bool      `gorm:"not null" json:"housing"`
	JobAssistance bool      `gorm:"not null" json:"jobAssistance"`
	JobGuarantee  bool      `gorm:"not null" json:"jobGuarantee"`
	AcceptGi      bool      `gorm:"not null" json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`

	Courses []Course `gorm:"foreignKey:BootcampID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

func (Bootcamp) TableName() string { return "bootcamps" }

func (b *Bootcamp) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Photo == "" {
		b.Photo = DefaultPhoto
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	return nil
}

// OwnedBy reports whether userID created the bootcamp.
func (b *Bootcamp) OwnedBy(userID string) bool { return b.UserID == userID }
