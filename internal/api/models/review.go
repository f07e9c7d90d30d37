package models

import "time"

// Authored is the field set shared by Review and Comment: a text body,
// the writing user, and an immutable publication timestamp.
type Authored struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	AuthorID string    `json:"author_id" gorm:"type:uuid;not null;index"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;<-:create"`
}

// Review holds a user's single review of a title. The (author, title)
// pair is unique, enforced by the schema.
type Review struct {
	Authored `gorm:"embedded"`
	TitleID  int64 `json:"title_id" gorm:"not null;index"`
	Score    int   `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

type Comment struct {
	Authored `gorm:"embedded"`
	ReviewID int64 `json:"review_id" gorm:"not null;index"`

	// Associations
	Author User   `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Review Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
