package model

import "gorm.io/datatypes"

// TourCategory 线路分类 — 对应 tour_categories
type TourCategory struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null"        json:"name"`
	Description string `gorm:"type:text"                         json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Slug        string `gorm:"type:varchar(120);not null;unique" json:"slug"`
}

// TableName 指定表名
func (TourCategory) TableName() string { return "tour_categories" }

// Destination 目的地 — 对应 destinations
type Destination struct {
	BaseModel
	Name        string      `gorm:"type:varchar(200);not null" json:"name"`
	Country     string      `gorm:"type:varchar(100);not null" json:"country"`
	City        string      `gorm:"type:varchar(100)"          json:"city,omitempty"`
	Description string      `gorm:"type:text"                  json:"description,omitempty"`
	Images      StringArray `json:"images"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
}

// TableName 指定表名
func (Destination) TableName() string { return "destinations" }

// Tour 线路 — 对应 tours
type Tour struct {
	BaseModel
	Title              string         `gorm:"type:varchar(200);not null"        json:"title"`
	Slug               string         `gorm:"type:varchar(220);not null;unique" json:"slug"`
	Description        string         `gorm:"type:text"                         json:"description,omitempty"`
	Highlights         StringArray    `json:"highlights"`
	Duration           int            `gorm:"not null"                          json:"duration"` // 天数
	MaxGroupSize       int            `gorm:"not null"                          json:"maxGroupSize"`
	MinAge             int            `gorm:"not null;default:0"                json:"minAge"`
	Difficulty         string         `gorm:"type:varchar(20);not null"         json:"difficulty"` // EASY | MODERATE | CHALLENGING
	DestinationID      string         `gorm:"type:uuid;not null;index"          json:"destinationId"`
	CategoryID         string         `gorm:"type:uuid;not null;index"          json:"categoryId"`
	BasePrice          float64        `gorm:"not null"                          json:"basePrice"`
	Images             StringArray    `json:"images"`
	Itinerary          datatypes.JSON `json:"itinerary,omitempty"`
	Included           StringArray    `json:"included"`
	Excluded           StringArray    `json:"excluded"`
	CancellationPolicy string         `gorm:"type:text"                         json:"cancellationPolicy,omitempty"`

	// 关联
	Destination *Destination  `gorm:"foreignKey:DestinationID"              json:"destination,omitempty"`
	Category    *TourCategory `gorm:"foreignKey:CategoryID"                 json:"category,omitempty"`
	TourGuides  []TourGuide   `gorm:"many2many:tour_guide_links;"           json:"tourGuides,omitempty"`
}

// TableName 指定表名
func (Tour) TableName() string { return "tours" }
