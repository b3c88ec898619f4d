package core

// Identity identifies the author of archived sessions (Git commit author).
type Identity struct {
	Name  string `json:"name" koanf:"name"`
	Email string `json:"email" koanf:"email"`
}

func (identity Identity) String() string {
	return identity.Name + " <" + identity.Email + ">"
}
