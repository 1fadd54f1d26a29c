package logger

import (
	"log"
	"os"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	out   *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		l.out.Printf("DEBUG "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		l.out.Printf("INFO "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		l.out.Printf("WARN "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		l.out.Printf("ERROR "+msg+"\n", a...)
	}
}
