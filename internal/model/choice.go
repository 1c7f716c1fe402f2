package model

type Choice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:255;not null"`
	Order      int    `json:"order" gorm:"column:sort_order;not null;default:0"`
}
