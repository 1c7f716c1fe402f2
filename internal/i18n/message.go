package i18n

import (
	"fmt"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a locale-independent user-facing notice. Services build them,
// controllers render them for the caller's locale.
type Message struct {
	Level Level
	Key   string
	Args  []any
}

func New(level Level, key string, args ...any) Message {
	return Message{Level: level, Key: key, Args: args}
}

func Error(key string, args ...any) Message   { return New(LevelError, key, args...) }
func Success(key string, args ...any) Message { return New(LevelSuccess, key, args...) }
func Info(key string, args ...any) Message    { return New(LevelInfo, key, args...) }

func (m Message) Text(locale string) string {
	format := T(locale, m.Key)
	if len(m.Args) == 0 {
		return format
	}
	return fmt.Sprintf(format, m.Args...)
}

func (m Message) String() string {
	return m.Text(Ukrainian)
}
