package model

// TourGuide 导游 — 对应 tour_guides
// 可用性计算只依赖 ID，其余为档案信息
type TourGuide struct {
	BaseModel
	FirstName    string      `gorm:"type:varchar(100);not null"        json:"firstName"`
	LastName     string      `gorm:"type:varchar(100);not null"        json:"lastName"`
	Email        string      `gorm:"type:varchar(255);not null;unique" json:"email"`
	Phone        string      `gorm:"type:varchar(50)"                  json:"phone,omitempty"`
	Languages    StringArray `gorm:"column:language"                   json:"language"`
	Expertise    StringArray `json:"expertise"`
	Rating       float64     `gorm:"not null;default:0"                json:"rating"`
	ProfileImage string      `json:"profileImage,omitempty"`
	Bio          string      `gorm:"type:text"                         json:"bio,omitempty"`
	Documents    StringArray `json:"documents"`
}

// TableName 指定表名
func (TourGuide) TableName() string { return "tour_guides" }

// FullName 展示用姓名
func (g *TourGuide) FullName() string {
	return g.FirstName + " " + g.LastName
}
