package domain

import (
	"testing"
)

func TestUserIdentity(t *testing.T) {
	u := User{ID: 7, Username: "ada", Email: "ada@example.com", HashedPassword: "hash"}

	id := u.Identity()

	if id != (Identity{ID: 7, Username: "ada", Email: "ada@example.com"}) {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.org"}
	invalid := []string{"", "plain", "a@b", "@b.com", "a@.", "a b@c.com", "a@b@c.com", "a@b.c d"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}
