package models

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Alias       string `json:"alias" gorm:"uniqueIndex;size:64" validate:"lowercase"`
	Name        string `json:"name" gorm:"uniqueIndex;size:64"`
	Description string `json:"description"`
}

type Skill struct {
	BaseModel

	Name        string    `json:"name" gorm:"uniqueIndex;size:64"`
	Description string    `json:"description"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Users       []User    `json:"-" gorm:"many2many:user_skills"`
}
