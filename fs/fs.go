package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

var HomeDir string
var HomePlaytoDir string
var HomeAuthPath string
var LogPath string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't find home dir: %v\n", err)
		os.Exit(1)
	}
	HomeDir = home

	if dir := os.Getenv("PLAYTO_HOME"); dir != "" {
		HomePlaytoDir = dir
	} else if os.Getenv("PLAYTO_ENV") == "development" {
		HomePlaytoDir = filepath.Join(home, ".playto-home-dev")
	} else {
		HomePlaytoDir = filepath.Join(home, ".playto-home")
	}

	SetHomePlaytoDir(HomePlaytoDir)
}

// SetHomePlaytoDir points every home path at dir. Tests use it to isolate
// auth.json in a temp dir.
func SetHomePlaytoDir(dir string) {
	HomePlaytoDir = dir
	HomeAuthPath = filepath.Join(dir, "auth.json")
	LogPath = filepath.Join(dir, "playto.log")
}

func EnsureHomeDir() error {
	err := os.MkdirAll(HomePlaytoDir, 0700)
	if err != nil {
		return fmt.Errorf("error creating %s: %v", HomePlaytoDir, err)
	}
	return nil
}
