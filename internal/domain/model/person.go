package model

// Role ids match the seeded roles reference table.
const (
	RoleAdmin  = 1
	RoleMember = 2
	RoleTutor  = 3
)

type Person struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"` // Not exposed
	RefreshToken *string `json:"-"`
	RoleID       int     `json:"role_id"`
	SolvedCount  int     `json:"solved_count"`
	TotalScore   int     `json:"total_score"`
}

// Credentials is the password-login projection. It never leaves the
// service layer.
type Credentials struct {
	ID           int
	PasswordHash string
	RoleID       int
}

// PersonUpdate carries the whitelisted partial-update fields. Nil means
// "leave unchanged".
type PersonUpdate struct {
	Name         *string `json:"name"`
	Surname      *string `json:"surname"`
	Username     *string `json:"username"`
	RefreshToken *string `json:"refresh_token"`
}

// Empty reports whether no whitelisted field was provided.
func (u PersonUpdate) Empty() bool {
	return u.Name == nil && u.Surname == nil && u.Username == nil && u.RefreshToken == nil
}

type RankingEntry struct {
	Rank        int    `json:"rank"`
	PersonID    int    `json:"person_id"`
	Username    string `json:"username"`
	TotalScore  int    `json:"total_score"`
	SolvedCount int    `json:"solved_count"`
}
