package feedtui

import (
	"fmt"
	"log"
	"sync"

	"playto-cli/auth"

	tea "github.com/charmbracelet/bubbletea"
)

var program *tea.Program
var mu sync.Mutex

func StartFeedUI() error {
	initial := initialModel()

	mu.Lock()
	program = tea.NewProgram(initial, tea.WithAltScreen())
	mu.Unlock()

	// the hook runs on the refresh goroutine; Send can block until the
	// event loop reads it
	auth.SetSessionExpiredFn(func() {
		go Send(sessionExpiredMsg{})
	})
	defer auth.SetSessionExpiredFn(nil)

	_, err := program.Run()

	mu.Lock()
	program = nil
	mu.Unlock()

	if err != nil {
		return fmt.Errorf("error running feed UI: %v", err)
	}

	return nil
}

func Send(msg tea.Msg) {
	mu.Lock()
	p := program
	mu.Unlock()

	if p == nil {
		log.Println("feed ui is nil, can't send message")
		return
	}
	p.Send(msg)
}
