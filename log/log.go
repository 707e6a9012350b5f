package log

import (
	"fmt"
	"log"
	"sync/atomic"
)

var debugging atomic.Bool

func SetDebug(enabled bool) {
	debugging.Store(enabled)
}

func Debugf(format string, args ...any) {
	if debugging.Load() {
		log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	log.Printf("%-5s %s", "ERROR", fmt.Sprintf(format, args...))
}
