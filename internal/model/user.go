package model

// User is a managed user record as the API returns it.
type User struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserPatch carries a partial user update. Nil fields are not sent.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// GroupUser is the slim user record returned by the group membership endpoint.
type GroupUser struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
}
