package domain

// User is the read-only view of an account the admin report needs.
// Accounts themselves are owned by the auth collaborator.
type User struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name  string `json:"name" gorm:"type:varchar(255)"`
	Email string `json:"email" gorm:"type:varchar(255);uniqueIndex"`
}

const UnknownUserName = "Unknown User"
