package model

import "gorm.io/datatypes"

// TourBooking 团期预订 — 对应 tour_bookings（仅由初始化数据写入）
type TourBooking struct {
	BaseModel
	BookingRef     string         `gorm:"type:varchar(50);not null;unique"  json:"bookingRef"`
	TourID         string         `gorm:"type:uuid;not null;index"          json:"tourId"`
	ScheduleID     string         `gorm:"type:uuid;not null;index"          json:"scheduleId"`
	TotalAmount    float64        `gorm:"not null"                          json:"totalAmount"`
	Status         string         `gorm:"type:varchar(20);not null"         json:"status"`
	Participants   datatypes.JSON `json:"participants,omitempty"`
	ContactInfo    datatypes.JSON `json:"contactInfo,omitempty"`
	PaymentStatus  string         `gorm:"type:varchar(20);not null"         json:"paymentStatus"`
	PaymentDetails datatypes.JSON `json:"paymentDetails,omitempty"`
}

// TableName 指定表名
func (TourBooking) TableName() string { return "tour_bookings" }

// TourReview 线路评价 — 对应 tour_reviews
type TourReview struct {
	BaseModel
	TourID     string      `gorm:"type:uuid;not null;index" json:"tourId"`
	BookingID  string      `gorm:"type:uuid;not null;index" json:"bookingId"`
	Rating     float64     `gorm:"not null"                 json:"rating"`
	Review     string      `gorm:"type:text"                json:"review,omitempty"`
	Images     StringArray `json:"images"`
	IsVerified bool        `gorm:"not null;default:false"   json:"isVerified"`
}

// TableName 指定表名
func (TourReview) TableName() string { return "tour_reviews" }
