package models

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Subscriber is the slice of the account directory the engine reads.
type Subscriber struct {
	ID        string   `bson:"id" json:"id"`
	Name      string   `bson:"name,omitempty" json:"name,omitempty"`
	Role      Role     `bson:"role" json:"role"`
	FCMTokens []string `bson:"fcmTokens,omitempty" json:"-"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
