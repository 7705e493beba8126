// Package toolexectest provides a recording toolexec.Runner for tests.
package toolexectest

import (
	"context"
	"sync"

	"github.com/shinji-kodama/cocoskel/internal/model"
)

// Response is the scripted result for one executable name.
type Response struct {
	Output string
	Err    error
}

// Recorder records every command it is asked to run and answers with the
// Response registered for the command's Name. Unregistered names succeed
// with empty output.
type Recorder struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []model.Command
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{responses: make(map[string]Response)}
}

// On registers the response for commands whose Name equals name.
func (r *Recorder) On(name string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[name] = resp
	return r
}

// Output implements toolexec.Runner.
func (r *Recorder) Output(_ context.Context, cmd model.Command) (string, error) {
	resp := r.record(cmd)
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Output, nil
}

// Run implements toolexec.Runner.
func (r *Recorder) Run(_ context.Context, cmd model.Command) error {
	return r.record(cmd).Err
}

// Calls returns the commands seen so far, in order.
func (r *Recorder) Calls() []model.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Command(nil), r.calls...)
}

func (r *Recorder) record(cmd model.Command) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	return r.responses[cmd.Name]
}
