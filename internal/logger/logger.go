package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Log пишет в stderr: stdout занят выводом снимка счетов.
var Log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = newLogger(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// SetOutput перенаправляет логи, например в буфер в тестах.
func SetOutput(out io.Writer) {
	Log.SetOutput(out)
}

// NewRunID генерирует идентификатор прогона пакета транзакций.
func NewRunID() string {
	return uuid.NewString()
}

// WithRun возвращает запись лога с полем run_id.
func WithRun(runID string) *logrus.Entry {
	return Log.WithField("run_id", runID)
}
