package model

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is returned by /auth/login. The role may come back as a bare
// string or wrapped in an object, see Role.
type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	Id    int    `json:"id"`
	Name  string `json:"name"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhoneNo  string `json:"phoneNo"`
	Password string `json:"password"`
	RoleId   int    `json:"role_id,omitempty"`
}

type User struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phoneNo"`
}
