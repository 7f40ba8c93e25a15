package auth

import "golang.org/x/crypto/bcrypt"

// Credentials verifies a username/password pair. Implementations may back
// onto any identity store; the handlers never see the secret itself.
type Credentials interface {
	Verify(username, password string) bool
}

// StaticCredentials holds a single administrative identity. The password is
// bcrypt-hashed at construction so the plaintext is not kept in memory.
type StaticCredentials struct {
	username     string
	passwordHash []byte
}

func NewStaticCredentials(username, password string) (*StaticCredentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticCredentials{
		username:     username,
		passwordHash: hash,
	}, nil
}

func (c *StaticCredentials) Verify(username, password string) bool {
	if username != c.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
}
