package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRunTimeout is returned when a run does not reach a terminal status
// within the poller's budget. Tool dispatch does not reset the budget.
var ErrRunTimeout = errors.New("assistant run timed out")

// RunFailedError reports a run that ended in a non-success terminal status.
type RunFailedError struct {
	Status string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant run ended with status %s", e.Status)
}

type pollState int

const (
	stateAwaitingRun pollState = iota
	stateDispatchingTools
	stateTerminal
)

// Poller drives a run to completion: it polls the run status at a fixed
// interval, hands requires_action pauses to the dispatcher, and resumes
// polling after submitting tool outputs.
type Poller struct {
	client     Client
	dispatcher *Dispatcher
	interval   time.Duration
	timeout    time.Duration
}

func NewPoller(client Client, dispatcher *Dispatcher, interval, timeout time.Duration) *Poller {
	return &Poller{
		client:     client,
		dispatcher: dispatcher,
		interval:   interval,
		timeout:    timeout,
	}
}

// Await blocks until the run completes, fails, or the budget runs out.
func (p *Poller) Await(ctx context.Context, threadId, runId string) error {
	deadline := time.Now().Add(p.timeout)
	state := stateAwaitingRun
	var run *Run

	for state != stateTerminal {
		switch state {
		case stateAwaitingRun:
			if time.Now().After(deadline) {
				return ErrRunTimeout
			}
			var err error
			run, err = p.client.RetrieveRun(ctx, threadId, runId)
			if err != nil {
				return err
			}
			switch run.Status {
			case StatusCompleted:
				state = stateTerminal
			case StatusRequiresAction:
				state = stateDispatchingTools
			case StatusFailed, StatusCancelled, StatusExpired:
				return &RunFailedError{Status: run.Status}
			default:
				// queued, in_progress, cancelling
				if err := sleep(ctx, p.interval); err != nil {
					return err
				}
			}
		case stateDispatchingTools:
			outputs := p.dispatcher.Dispatch(ctx, run.PendingToolCalls())
			if err := p.client.SubmitToolOutputs(ctx, threadId, runId, outputs); err != nil {
				return err
			}
			state = stateAwaitingRun
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
