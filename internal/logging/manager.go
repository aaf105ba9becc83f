package logging

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
)

// LoggerManager хранит по одному логгеру на компонент
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

var manager = &LoggerManager{loggers: make(map[string]*Logger)}

// GetLoggerManager возвращает менеджер логгеров процесса
func GetLoggerManager() *LoggerManager {
	return manager
}

// Logger возвращает логгер компонента, создавая его при первом обращении.
// Если файл лога не открылся, логгер пишет только в консоль.
func (lm *LoggerManager) Logger(component string) *Logger {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if l, ok := lm.loggers[component]; ok {
		return l
	}

	l, err := NewLogger(component)
	if err != nil {
		opts := currentOptions()
		l = &Logger{
			component:       component,
			consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
			minConsoleLevel: opts.ConsoleLevel,
			minFileLevel:    ERROR + 1,
		}
		l.Warn("файл лога недоступен, только консоль: %v", err)
	}
	lm.loggers[component] = l
	return l
}

// Components возвращает имена созданных логгеров по алфавиту
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	out := make([]string, 0, len(lm.loggers))
	for c := range lm.loggers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for c, l := range lm.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", c, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

func GetComponentLogger(component string) *Logger { return manager.Logger(component) }

func GetServerLogger() *Logger { return manager.Logger("server") }

func GetMineLogger() *Logger { return manager.Logger("mine") }

func GetAPILogger() *Logger { return manager.Logger("api") }

func GetEventsLogger() *Logger { return manager.Logger("events") }
