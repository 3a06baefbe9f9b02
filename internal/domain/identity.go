package domain

// Application role codes carried in verified tokens.
const (
	RoleAdmin   = "admin"
	RoleSpeaker = "speaker"
)

// Identity is the authenticated principal extracted from a verified token.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

// PrimaryRole returns admin if present, otherwise the first role, otherwise empty.
func (i Identity) PrimaryRole() string {
	for _, r := range i.Roles {
		if r == RoleAdmin {
			return RoleAdmin
		}
	}
	if len(i.Roles) > 0 {
		return i.Roles[0]
	}
	return ""
}

// TokenVerifier verifies an externally issued token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}
