package domain

type Status string

const (
	StatusOnline  Status = "ONLINE"
	StatusOffline Status = "OFFLINE"
)

// User is the directory record for a registered participant.
// Username is the primary key; the password is an opaque credential
// whose stored form depends on the configured verification scheme.
type User struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Status   Status `json:"status"`
}

// Sanitized returns a copy with the credential scrubbed.
// Every read path crossing the system boundary must go through this.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
