package models

// Slugged is the field set shared by Category and Genre: a display name
// plus a unique, indexed URL-safe key.
type Slugged struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
}

type Category struct {
	Slugged `gorm:"embedded"`
}

func (Category) TableName() string {
	return "categories"
}

type Genre struct {
	Slugged `gorm:"embedded"`
}

func (Genre) TableName() string {
	return "genres"
}
