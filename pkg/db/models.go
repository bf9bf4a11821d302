// pkg/db/models.go
package db

// The reserved user owns the shared seed vocabulary that every user can be
// quizzed on in addition to their personal words.
const (
	ReservedUserID   uint = 1
	ReservedUserName      = "Initial User"
)

type User struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;uniqueIndex"`
}

type Word struct {
	ID         uint   `gorm:"primaryKey"`
	TargetWord string `gorm:"size:50;not null;uniqueIndex"`
	Translate  string `gorm:"size:50;not null"`
}

// UserWord is the "user studies word" fact. The composite primary key keeps
// a user from being assigned the same word twice.
type UserWord struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
	WordID uint `gorm:"primaryKey;autoIncrement:false"`
}
