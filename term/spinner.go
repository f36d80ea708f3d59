package term

import (
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const withMessageMinDuration = 500 * time.Millisecond
const withoutMessageMinDuration = 250 * time.Millisecond

var s = spinner.New(spinner.CharSets[33], 100*time.Millisecond, spinner.WithWriter(os.Stderr))

var (
	spinnerMu   sync.Mutex
	startedAt   time.Time
	lastMessage string
	active      bool
)

func StartSpinner(msg string) {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if active {
		if msg == lastMessage {
			return
		}
		s.Stop()
	}

	startedAt = time.Now()
	s.Prefix = msg + " "
	lastMessage = msg
	s.Start()
	active = true
}

func StopSpinner() {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if !active {
		return
	}

	elapsed := time.Since(startedAt)
	if lastMessage != "" && elapsed < withMessageMinDuration {
		time.Sleep(withMessageMinDuration - elapsed)
	} else if elapsed < withoutMessageMinDuration {
		time.Sleep(withoutMessageMinDuration - elapsed)
	}

	s.Stop()
	active = false
}
