package screening

import "time"

// tickMsg drives the orchestrator clock while a session is running.
type tickMsg time.Time

// saveDoneMsg reports the result of persisting a finished session.
type saveDoneMsg struct {
	Err error
}
