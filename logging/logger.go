package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crest-go/crest/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated by the CLI. Each package should
// derive its own sub-logger from it so that log output can be grepped by module.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger describes a custom logging object that can log events to any number of io.Writer channels and can handle
// colorized output to console as well.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// multiLogger outputs logs to every registered writer, structured or not.
	multiLogger zerolog.Logger

	// consoleLogger outputs colorized, unstructured logs to the console. It is kept separate from multiLogger so that
	// console formatting never leaks into files.
	consoleLogger zerolog.Logger

	// writers describes the channels that multiLogger fans out to.
	writers []logWriter

	// context holds the key-value pairs added by NewSubLogger, re-applied when the writer list changes.
	context [][2]string
}

// logWriter pairs a registered io.Writer with the writer that actually receives events, which differs for
// unstructured output.
type logWriter struct {
	original io.Writer
	output   io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger can output to console, if enabled,
// and to any number of structured io.Writer channels.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	l := &Logger{
		level:         level,
		consoleLogger: zerolog.New(os.Stderr).Level(zerolog.Disabled),
	}
	for _, writer := range writers {
		l.writers = append(l.writers, logWriter{original: writer, output: writer})
	}
	l.rebuildMultiLogger()

	if consoleEnabled {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stderr}, level)
		l.consoleLogger = zerolog.New(consoleWriter).Level(level)
	}
	return l
}

// rebuildMultiLogger recreates multiLogger from the current writers and sub-logger context.
func (l *Logger) rebuildMultiLogger() {
	if len(l.writers) == 0 {
		l.multiLogger = zerolog.New(io.Discard).Level(zerolog.Disabled)
		return
	}
	outputs := make([]io.Writer, 0, len(l.writers))
	for _, w := range l.writers {
		outputs = append(outputs, w.output)
	}
	ctx := zerolog.New(zerolog.MultiLevelWriter(outputs...)).Level(l.level).With().Timestamp()
	for _, kv := range l.context {
		ctx = ctx.Str(kv[0], kv[1])
	}
	l.multiLogger = ctx.Logger()
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have its own logger so that logs can be filtered by module.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	subContext := make([][2]string, 0, len(l.context)+1)
	subContext = append(subContext, l.context...)
	subContext = append(subContext, [2]string{key, value})
	return &Logger{
		level:         l.level,
		multiLogger:   l.multiLogger.With().Str(key, value).Logger(),
		consoleLogger: l.consoleLogger.With().Str(key, value).Logger(),
		writers:       l.writers,
		context:       subContext,
	}
}

// AddWriter will add a writer to the list of channels where log output will be sent. Adding the same writer twice is
// a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	for _, w := range l.writers {
		if writer == w.original {
			return
		}
	}

	// Unstructured output is wrapped in a console writer without ANSI coloring
	entry := logWriter{original: writer, output: writer}
	if format == UNSTRUCTURED {
		entry.output = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}

	l.writers = append(l.writers, entry)
	l.rebuildMultiLogger()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.writers {
		if writer == w.original {
			l.writers = append(l.writers[:i:i], l.writers[i+1:]...)
			l.rebuildMultiLogger()
			return
		}
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.multiLogger = l.multiLogger.Level(level)
	l.consoleLogger = l.consoleLogger.Level(level)
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(l.consoleLogger.Trace(), l.multiLogger.Trace(), l.level <= zerolog.DebugLevel, args)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(l.consoleLogger.Debug(), l.multiLogger.Debug(), l.level <= zerolog.DebugLevel, args)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(l.consoleLogger.Info(), l.multiLogger.Info(), l.level <= zerolog.DebugLevel, args)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(l.consoleLogger.Warn(), l.multiLogger.Warn(), l.level <= zerolog.DebugLevel, args)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	l.log(l.consoleLogger.Error(), l.multiLogger.Error(), l.level <= zerolog.DebugLevel, args)
}

// Panic is a wrapper function that will log a panic event and then panic
func (l *Logger) Panic(args ...any) {
	l.log(l.consoleLogger.WithLevel(zerolog.PanicLevel), l.multiLogger.WithLevel(zerolog.PanicLevel), true, args)

	// WithLevel never panics by itself, and a disabled logger must still abort
	_, msg, err, _ := buildMsgs(args...)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", msg, err))
	}
	panic(msg)
}

// log builds the messages from args and sends them to both events.
func (l *Logger) log(consoleLog *zerolog.Event, multiLog *zerolog.Event, withStack bool, args []any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)
	chainError(consoleLog, multiLog, err, withStack)
	chainStructuredLogInfoAndMsgs(consoleLog, multiLog, info, consoleMsg, multiMsg)
}

// buildMsgs takes in a variadic list of arguments of any type and returns two strings and, optionally, an error and
// a StructuredLogInfo object. The first string is colorized for console logging while the second is plain for
// structured logging.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	fileOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// Color functions switch the color context for the arguments that follow
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info can be provided for each log message
			info = t
		case error:
			// Only one error can be provided for each log message
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// chainError chains an error to both events. If withStack is true, a stack trace is added as well.
func chainError(consoleLog *zerolog.Event, multiLog *zerolog.Event, err error, withStack bool) {
	// Err is a no-op for a nil error
	consoleLog.Err(err)
	multiLog.Err(err)

	if withStack && err != nil {
		consoleLog.Stack()
		multiLog.Stack()
	}
}

// chainStructuredLogInfoAndMsgs chains any StructuredLogInfo to both events, adds the messages and sends the events.
func chainStructuredLogInfoAndMsgs(consoleLog *zerolog.Event, multiLog *zerolog.Event, info StructuredLogInfo, consoleMsg string, multiMsg string) {
	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	// The multi logger message is deferred so that every channel receives a message even if the console one panics
	defer multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// setupDefaultFormatting updates the console writer's formatting: no timestamps, colored level markers, and no
// module field unless debugging.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		s, _ := i.(string)
		parsed, err := zerolog.ParseLevel(s)
		if err != nil {
			return s
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return s
		}
	}

	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
