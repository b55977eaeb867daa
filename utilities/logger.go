package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	debugLog *log.Logger
	debugOn  bool
	logMu    sync.Mutex
)

func init() {
	// Sane defaults so logging works before SetupLogging is called
	// (tests, coachstub without a config file).
	infoLog = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	debugLog = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime)
}

// SetupLogging routes log output to rotated files under logDir while
// mirroring to the console.
func SetupLogging(logDir string, maxSizeMB, maxBackups, maxAgeDays int, debug bool) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotated := func(name string) io.Writer {
		return &lumberjack.Logger{
			Filename:   filepath.Join(logDir, name),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
	}

	infoWriter := io.MultiWriter(os.Stdout, rotated("info.log"))
	warnWriter := io.MultiWriter(os.Stdout, rotated("warn.log"))
	errorWriter := io.MultiWriter(os.Stderr, rotated("error.log"))

	logMu.Lock()
	defer logMu.Unlock()
	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(warnWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errorWriter, "ERROR: ", log.Ldate|log.Ltime)
	debugLog = log.New(infoWriter, "DEBUG: ", log.Ldate|log.Ltime)
	debugOn = debug

	// Override Go's default log.
	log.SetOutput(infoWriter)
	return nil
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logf(l *log.Logger, format string, v ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	l.Printf("[%s] %s", getCallerInfo(), fmt.Sprintf(format, v...))
}

func Info(format string, v ...interface{}) {
	logf(infoLog, format, v...)
}

func Warn(format string, v ...interface{}) {
	logf(warnLog, format, v...)
}

func Error(format string, v ...interface{}) {
	logf(errorLog, format, v...)
}

func Debug(format string, v ...interface{}) {
	if !debugOn {
		return
	}
	logf(debugLog, format, v...)
}
