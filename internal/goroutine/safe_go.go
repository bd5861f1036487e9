package goroutine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// PanicError возвращается из Call, если функция запаниковала.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoGroup запускает горутину в группе wg: Done вызывается даже после panic.
func (rh *RecoveryHandler) SafeGoGroup(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// Call выполняет fn в текущей горутине и превращает panic в *PanicError.
func (rh *RecoveryHandler) Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			rh.logger.Errorf("Panic recovered: %v\nStack trace:\n%s", r, stack)
			err = &PanicError{Value: r, Stack: stack}
		}
	}()
	return fn()
}

// DefaultRecoveryHandler - глобальный обработчик, пишет в стандартный логгер logrus
var DefaultRecoveryHandler = NewRecoveryHandler(logrus.StandardLogger())

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoGroup - упрощенная функция для запуска безопасной горутины в группе
func SafeGoGroup(wg *sync.WaitGroup, fn func()) {
	DefaultRecoveryHandler.SafeGoGroup(wg, fn)
}

// Call - упрощенная функция для вызова с перехватом panic
func Call(fn func() error) error {
	return DefaultRecoveryHandler.Call(fn)
}
