package services

import (
	"fmt"

	"tunedeck/internal/shared"
)

// ConsoleLogger implements interfaces.LoggerService with colorized output.
type ConsoleLogger struct {
	debugMode bool
}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{}
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	cl.debugMode = enabled
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	fmt.Println(shared.ColorInfo.Sprintf(message, args...))
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	fmt.Println(shared.ColorSuccess.Sprintf(message, args...))
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	fmt.Println(shared.ColorWarning.Sprintf("Warning: "+message, args...))
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	fmt.Println(shared.ColorError.Sprintf("Error: "+message, args...))
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	if !cl.debugMode {
		return
	}
	fmt.Println(shared.ColorInfo.Sprintf("[DEBUG] "+message, args...))
}
