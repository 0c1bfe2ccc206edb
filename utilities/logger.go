package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"workchat-intake-backend/internal/config"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var (
	debugLog = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog  = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	minLevel = levelInfo
	logMutex sync.Mutex
)

// SetupLogging sends every level to the console and to its own rotated file
// under cfg.Dir. It also redirects the standard logger to the info file.
func SetupLogging(cfg config.LoggingConfig) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	rotated := func(name string) io.Writer {
		return &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, name),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}

	infoWriter := io.MultiWriter(os.Stdout, rotated("info.log"))

	logMutex.Lock()
	defer logMutex.Unlock()
	debugLog.SetOutput(io.MultiWriter(os.Stdout, rotated("debug.log")))
	infoLog.SetOutput(infoWriter)
	warnLog.SetOutput(io.MultiWriter(os.Stdout, rotated("warn.log")))
	errorLog.SetOutput(io.MultiWriter(os.Stderr, rotated("error.log")))
	minLevel = parseLevel(cfg.Level)

	log.SetOutput(infoWriter)
	return nil
}

func parseLevel(s string) level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return levelDebug
	case "WARN", "WARNING":
		return levelWarn
	case "ERROR":
		return levelError
	}
	return levelInfo
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	name := runtime.FuncForPC(pc).Name()
	return name[strings.LastIndex(name, "/")+1:]
}

func logAt(l level, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if l < minLevel {
		return
	}

	entry := fmt.Sprintf("[%s] %s", getCallerInfo(), fmt.Sprintf(format, v...))
	switch l {
	case levelDebug:
		debugLog.Println(entry)
	case levelWarn:
		warnLog.Println(entry)
	case levelError:
		errorLog.Println(entry)
	default:
		infoLog.Println(entry)
	}
}

func Debug(format string, v ...interface{}) {
	logAt(levelDebug, format, v...)
}

func Info(format string, v ...interface{}) {
	logAt(levelInfo, format, v...)
}

func Warn(format string, v ...interface{}) {
	logAt(levelWarn, format, v...)
}

func Error(format string, v ...interface{}) {
	logAt(levelError, format, v...)
}
