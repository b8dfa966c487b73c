package model

import "time"

// User represents a registered account with its optional profile.
type User struct {
	ID              int64      `json:"id" gorm:"column:id;primaryKey"`
	Username        string     `json:"username" gorm:"column:username"`
	Email           string     `json:"email" gorm:"column:email"`
	PasswordHash    string     `json:"-" gorm:"column:password"` // Never expose in JSON
	FirstName       *string    `json:"first_name,omitempty" gorm:"column:first_name"`
	LastName        *string    `json:"last_name,omitempty" gorm:"column:last_name"`
	Phone           *string    `json:"phone,omitempty" gorm:"column:phone"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty" gorm:"column:date_of_birth"`
	Designation     *string    `json:"designation,omitempty" gorm:"column:designation"`
	Department      *string    `json:"department,omitempty" gorm:"column:department"`
	Experience      *string    `json:"experience,omitempty" gorm:"column:experience"`
	Skills          *string    `json:"skills,omitempty" gorm:"column:skills"`
	Address         *string    `json:"address,omitempty" gorm:"column:address"`
	City            *string    `json:"city,omitempty" gorm:"column:city"`
	State           *string    `json:"state,omitempty" gorm:"column:state"`
	Country         *string    `json:"country,omitempty" gorm:"column:country"`
	PostalCode      *string    `json:"postal_code,omitempty" gorm:"column:postal_code"`
	Bio             *string    `json:"bio,omitempty" gorm:"column:bio"`
	LinkedinProfile *string    `json:"linkedin_profile,omitempty" gorm:"column:linkedin_profile"`
	GithubProfile   *string    `json:"github_profile,omitempty" gorm:"column:github_profile"`
	CreatedAt       *time.Time `json:"created_at,omitempty" gorm:"column:created_at"`
}

// UserSummary is the minimal public view of a user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary returns the minimal public view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// ColumnValues returns the writable columns of u keyed by column name.
func (u *User) ColumnValues() map[string]interface{} {
	return map[string]interface{}{
		"username":         u.Username,
		"email":            u.Email,
		"password":         u.PasswordHash,
		"first_name":       u.FirstName,
		"last_name":        u.LastName,
		"phone":            u.Phone,
		"date_of_birth":    u.DateOfBirth,
		"designation":      u.Designation,
		"department":       u.Department,
		"experience":       u.Experience,
		"skills":           u.Skills,
		"address":          u.Address,
		"city":             u.City,
		"state":            u.State,
		"country":          u.Country,
		"postal_code":      u.PostalCode,
		"bio":              u.Bio,
		"linkedin_profile": u.LinkedinProfile,
		"github_profile":   u.GithubProfile,
	}
}
