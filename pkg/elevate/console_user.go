package elevate

import (
	"context"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
)

// User identifies the console (GUI) user: the account logged into the
// graphical session, as opposed to the possibly-root process owner.
type User struct {
	Name string
	UID  int
	Home string
}

// lookupUser is swappable for tests.
var lookupUser = user.Lookup

// ConsoleUser detects the logged-in GUI user by the ownership of
// /dev/console. It fails with a descriptive error when no GUI session
// exists or the user's home directory cannot be resolved, because
// user-scoped tools (the dock) are meaningless without one.
func ConsoleUser(ctx context.Context, runner run.Runner) (User, error) {
	out, err := runner.Output(ctx, "stat", "-f", "%Su", "/dev/console")
	if err != nil {
		return User{}, errors.Wrap(err, errors.ErrNoConsoleUser, "cannot stat /dev/console")
	}

	name := strings.TrimSpace(out)
	if name == "" || name == "root" || name == "_windowserver" {
		return User{}, errors.Newf(errors.ErrNoConsoleUser,
			"no GUI user session (console owned by %q)", name)
	}

	u, err := lookupUser(name)
	if err != nil {
		return User{}, errors.Wrapf(err, errors.ErrNoConsoleUser,
			"console user %q has no account record", name)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return User{}, errors.Wrapf(err, errors.ErrNoConsoleUser,
			"console user %q has non-numeric uid %q", name, u.Uid)
	}

	if u.HomeDir == "" {
		return User{}, errors.Newf(errors.ErrNoConsoleUser,
			"console user %q has no home directory", name)
	}

	return User{Name: name, UID: uid, Home: u.HomeDir}, nil
}

// DockPlistPath returns the console user's dock preferences plist.
func (u User) DockPlistPath() string {
	return filepath.Join(u.Home, "Library", "Preferences", "com.apple.dock.plist")
}

// AsUser wraps a runner so every command executes with the console
// user's identity, even when the surrounding process has escalated to
// root. When the process already runs as that user the wrapper is a
// pass-through.
func AsUser(runner run.Runner, u User) run.Runner {
	if !IsRoot() {
		return runner
	}
	return userRunner{inner: runner, user: u}
}

type userRunner struct {
	inner run.Runner
	user  User
}

func (r userRunner) prefix(name string, args []string) (string, []string) {
	full := append([]string{"asuser", strconv.Itoa(r.user.UID), "sudo", "-u", r.user.Name, name}, args...)
	return "launchctl", full
}

func (r userRunner) Run(ctx context.Context, name string, args ...string) error {
	name, args = r.prefix(name, args)
	return r.inner.Run(ctx, name, args...)
}

func (r userRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	name, args = r.prefix(name, args)
	return r.inner.Output(ctx, name, args...)
}
