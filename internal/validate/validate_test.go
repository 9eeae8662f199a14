package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("alice"))
	assert.NoError(t, Username("bob1"))
	assert.Error(t, Username("bob"))
	assert.Error(t, Username(""))
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Passw0rd!", false},
		{"too short", "Pa0!", true},
		{"no uppercase", "passw0rd!", true},
		{"no lowercase", "PASSW0RD!", true},
		{"no digit", "Password!", true},
		{"no special", "Passw0rdd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.NoError(t, Email("Alice.Smith+tag@sub.example.co"))
	assert.Error(t, Email("alice"))
	assert.Error(t, Email("alice@example"))
	assert.Error(t, Email("@example.com"))
}

func TestAddress(t *testing.T) {
	assert.NoError(t, Address("Main Street, 12, Springfield"))
	assert.NoError(t, Address("Herzl,5,Tel Aviv"))
	assert.Error(t, Address("Main Street 12 Springfield"))
	assert.Error(t, Address("Main Street, Apt, Springfield"))
	assert.Error(t, Address(""))
}

func TestPhoneNumber(t *testing.T) {
	assert.NoError(t, PhoneNumber("0541234567"))
	assert.NoError(t, PhoneNumber("031234567"))
	assert.Error(t, PhoneNumber("541234567"))
	assert.Error(t, PhoneNumber("05412345"))
	assert.Error(t, PhoneNumber("abc"))
}

func TestBirthday(t *testing.T) {
	assert.NoError(t, Birthday("1.2.1990"))
	assert.NoError(t, Birthday("01/02/1990"))
	assert.NoError(t, Birthday("1-2-1990"))
	assert.Error(t, Birthday("1990-02-01"))
	assert.Error(t, Birthday("1.2.2020"))
	assert.Error(t, Birthday("1.2.1800"))
	assert.Error(t, Birthday("garbage"))
}

func TestSignup(t *testing.T) {
	valid := func() (string, string, string, string, string, string) {
		return "alice", "Passw0rd!", "alice@example.com", "Main Street, 12, Springfield", "0541234567", "1.2.1990"
	}

	u, p, e, a, ph, b := valid()
	assert.NoError(t, Signup(u, p, e, a, ph, b))

	u, p, e, a, ph, b = valid()
	assert.Error(t, Signup("x", p, e, a, ph, b))
	assert.Error(t, Signup(u, "weak", e, a, ph, b))
	assert.Error(t, Signup(u, p, "nope", a, ph, b))
	assert.Error(t, Signup(u, p, e, "nope", ph, b))
	assert.Error(t, Signup(u, p, e, a, "nope", b))
	assert.Error(t, Signup(u, p, e, a, ph, "nope"))
}
