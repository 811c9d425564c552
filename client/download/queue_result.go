package download

import "context"

// Job represents an in-flight or completed async download.
type Job struct {
	done   chan struct{}
	res    Result
	err    error
	cancel context.CancelFunc
	queue  *Queue
}

// Done returns a channel that is closed when the specific download completes.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err blocks until this download completes and returns its error.
func (j *Job) Err() error {
	<-j.done
	return j.err
}

// Result blocks until this download completes and returns its outcome.
func (j *Job) Result() (Result, error) {
	<-j.done
	return j.res, j.err
}

// Wait blocks until all downloads in the job's queue complete.
// Returns all errors joined.
func (j *Job) Wait() error {
	return j.queue.Wait()
}

// Queue returns the queue the job runs on, for use with [WithQueue].
func (j *Job) Queue() *Queue { return j.queue }

// Cancel cancels this download's context.
func (j *Job) Cancel() {
	j.cancel()
}
