// Package identity resolves who requested a package operation and whether
// the process runs with elevated rights.
package identity

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// User is the person a transaction is attributed to.
type User struct {
	Name string
	UID  int
}

// String renders the user the way history entries store it: "name (uid)".
func (u User) String() string {
	return fmt.Sprintf("%s (%d)", u.Name, u.UID)
}

// Resolver looks up the invoking user. Every lookup is injectable so callers
// can resolve a fixed identity in tests.
type Resolver struct {
	LookupEnv  func(key string) (string, bool)
	LookupUser func(username string) (*user.User, error)
	Current    func() (*user.User, error)
	Getuid     func() int
	Geteuid    func() int
}

// NewResolver returns a Resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{
		LookupEnv:  os.LookupEnv,
		LookupUser: user.Lookup,
		Current:    user.Current,
		Getuid:     os.Getuid,
		Geteuid:    os.Geteuid,
	}
}

// CurrentUser returns the user an elevated invocation was made on behalf of.
// DOAS_USER wins over SUDO_USER/SUDO_UID, which win over the ambient user.
func (r *Resolver) CurrentUser() (User, error) {
	if name, ok := r.LookupEnv("DOAS_USER"); ok && name != "" {
		u, err := r.LookupUser(name)
		if err != nil {
			return User{}, fmt.Errorf("lookup doas user %s: %w", name, err)
		}
		uid, err := strconv.Atoi(u.Uid)
		if err != nil {
			return User{}, fmt.Errorf("doas user %s has non-numeric uid %q", name, u.Uid)
		}
		return User{Name: name, UID: uid}, nil
	}

	name, ok := r.LookupEnv("SUDO_USER")
	if !ok || name == "" {
		current, err := r.Current()
		if err != nil {
			return User{}, fmt.Errorf("lookup current user: %w", err)
		}
		name = current.Username
	}

	uid := r.Getuid()
	if raw, ok := r.LookupEnv("SUDO_UID"); ok && raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return User{}, fmt.Errorf("SUDO_UID %q is not a number", raw)
		}
		uid = parsed
	}
	return User{Name: name, UID: uid}, nil
}

// HasElevatedRights reports whether the effective uid is root.
func (r *Resolver) HasElevatedRights() bool {
	return r.Geteuid() == 0
}
