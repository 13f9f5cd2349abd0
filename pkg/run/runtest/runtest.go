// Package runtest provides a scripted fake Runner for tests.
package runtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one command invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call the way it would appear on a shell line,
// which keeps test expectations readable.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Response is the scripted result for a command.
type Response struct {
	Stdout string
	Err    error
}

// Fake is a Runner whose responses are scripted per command line.
// Unscripted commands succeed with empty output, so tests only script
// what they assert on.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// NewFake returns an empty scripted runner.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// Script sets the response for an exact command line, e.g.
// Script("brew list --formula -1", Response{Stdout: "wget\ngit"}).
func (f *Fake) Script(commandLine string, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[commandLine] = resp
	return f
}

// ScriptErr is shorthand for scripting a failure.
func (f *Fake) ScriptErr(commandLine string, msg string) *Fake {
	return f.Script(commandLine, Response{Err: fmt.Errorf("%s", msg)})
}

func (f *Fake) Run(_ context.Context, name string, args ...string) error {
	_, err := f.record(name, args)
	return err
}

func (f *Fake) Output(_ context.Context, name string, args ...string) (string, error) {
	return f.record(name, args)
}

func (f *Fake) record(name string, args []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := Call{Name: name, Args: args}
	f.calls = append(f.calls, call)
	if resp, ok := f.responses[call.String()]; ok {
		return resp.Stdout, resp.Err
	}
	return "", nil
}

// Calls returns every invocation in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandLines returns the invocations rendered as shell lines.
func (f *Fake) CommandLines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}
