package identity

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeResolver(env map[string]string, euid int) *Resolver {
	return &Resolver{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		LookupUser: func(name string) (*user.User, error) {
			if name == "dana" {
				return &user.User{Username: "dana", Uid: "1002"}, nil
			}
			return nil, user.UnknownUserError(name)
		},
		Current: func() (*user.User, error) {
			return &user.User{Username: "root", Uid: "0"}, nil
		},
		Getuid:  func() int { return 0 },
		Geteuid: func() int { return euid },
	}
}

func TestCurrentUser_Precedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want User
	}{
		{
			name: "ambient user",
			env:  map[string]string{},
			want: User{Name: "root", UID: 0},
		},
		{
			name: "sudo user",
			env:  map[string]string{"SUDO_USER": "alice", "SUDO_UID": "1000"},
			want: User{Name: "alice", UID: 1000},
		},
		{
			name: "doas wins over sudo",
			env:  map[string]string{"DOAS_USER": "dana", "SUDO_USER": "alice", "SUDO_UID": "1000"},
			want: User{Name: "dana", UID: 1002},
		},
		{
			name: "sudo uid without user",
			env:  map[string]string{"SUDO_UID": "1001"},
			want: User{Name: "root", UID: 1001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fakeResolver(tt.env, 0).CurrentUser()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentUser_Errors(t *testing.T) {
	_, err := fakeResolver(map[string]string{"DOAS_USER": "ghost"}, 0).CurrentUser()
	var unknown user.UnknownUserError
	assert.True(t, errors.As(err, &unknown))

	_, err = fakeResolver(map[string]string{"SUDO_UID": "abc"}, 0).CurrentUser()
	assert.ErrorContains(t, err, "SUDO_UID")
}

func TestUserString(t *testing.T) {
	assert.Equal(t, "alice (1000)", User{Name: "alice", UID: 1000}.String())
}

func TestHasElevatedRights(t *testing.T) {
	assert.True(t, fakeResolver(nil, 0).HasElevatedRights())
	assert.False(t, fakeResolver(nil, 1000).HasElevatedRights())
}
