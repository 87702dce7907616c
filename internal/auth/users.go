package auth

import (
	"os"
	"strings"
)

// User is an operator account allowed into the admin panel.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`

	password string
}

// The admin panel has a fixed operator list. Credentials come from the
// ADMIN_CREDENTIALS environment option as "user:pass,user:pass"; accounts
// without a configured password cannot log in.
func adminUsers() []User {
	creds := map[string]string{}
	for _, pair := range strings.Split(os.Getenv("ADMIN_CREDENTIALS"), ",") {
		user, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if ok && user != "" {
			creds[strings.ToLower(user)] = pass
		}
	}

	users := []User{
		{Username: "kamal@youtools.com", FirstName: "Kamal", LastName: "YouTools", IsAdmin: true},
		{Username: "rabih@youtools.com", FirstName: "Rabih", LastName: "YouTools", IsAdmin: true},
	}
	for i := range users {
		users[i].password = creds[users[i].Username]
	}
	return users
}

// Authenticate checks the credentials against the operator list. It returns
// the matched user, or nil when the credentials are invalid.
func Authenticate(username, password string) *User {
	if password == "" {
		return nil
	}
	for _, u := range adminUsers() {
		if strings.EqualFold(u.Username, username) && u.password == password {
			match := u
			return &match
		}
	}
	return nil
}
