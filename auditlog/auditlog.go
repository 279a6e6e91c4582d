package auditlog

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger is the append-only audit sink. Every Append opens the target,
// writes one timestamped line and closes it again, so external rotation or
// truncation between ticks never invalidates a held handle. Append never
// fails toward the caller; an unwritable target degrades to the fallback
// diagnostic logger.
type Logger struct {
	path     string
	fallback *logrus.Logger
}

func New(path string, fallback *logrus.Logger) *Logger {
	return &Logger{path: path, fallback: fallback}
}

func (l *Logger) Append(message string) {
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(timeFormat), message)
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.fallback.Errorf("audit log open error:%+v,dropped entry:%v", err, message)
		return
	}
	if _, err := f.WriteString(line); err != nil {
		l.fallback.Errorf("audit log write error:%+v,dropped entry:%v", err, message)
	}
	if err := f.Close(); err != nil {
		l.fallback.Errorf("audit log close error:%+v", err)
	}
}

func (l *Logger) Appendf(format string, args ...interface{}) {
	l.Append(fmt.Sprintf(format, args...))
}
