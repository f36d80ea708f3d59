package lib

import (
	"fmt"
	"io"
	"log"

	"playto-cli/fs"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging sends the standard logger to the rotating log file in the
// home dir. The returned closer flushes and closes the current file.
func SetupLogging() (io.Closer, error) {
	err := fs.EnsureHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error creating home dir: %v", err)
	}

	logger := &lumberjack.Logger{
		Filename:   fs.LogPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	log.SetOutput(logger)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return logger, nil
}
