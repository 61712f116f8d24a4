package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/spannerkit/spanner-params/internal/logger"
	"github.com/spannerkit/spanner-params/statement"
)

type option struct {
	File      string    `description:"specify the path to the statement file (YAML or JSON)" long:"file" short:"f"`
	LogLevel  logLevel  `description:"specify the log level (debug/info/warn/error)" long:"log-level" default:"error"`
	LogFormat logFormat `description:"specify the log format (console/json)" long:"log-format" default:"console"`
	Version   bool      `description:"print version" long:"version" short:"v"`
}

type logLevel string

const (
	logLevelDebug logLevel = "debug"
	logLevelInfo  logLevel = "info"
	logLevelWarn  logLevel = "warn"
	logLevelError logLevel = "error"
)

type logFormat string

const (
	logFormatConsole logFormat = "console"
	logFormatJSON    logFormat = "json"
)

type exitCode int

const (
	exitOK    exitCode = 0
	exitError exitCode = 1
)

var (
	version  string
	revision string
)

func main() {
	os.Exit(int(run()))
}

func run() exitCode {
	args, opt, err := parseOpt()
	if err != nil {
		flagsErr, ok := err.(*flags.Error)
		if !ok {
			fmt.Fprintf(os.Stderr, "[spanner-params] unknown parsed option error: %[1]T %[1]v\n", err)
			return exitError
		}
		if flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitError
	}
	if err := runInspect(args, opt); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	return exitOK
}

func parseOpt() ([]string, option, error) {
	var opt option
	parser := flags.NewParser(&opt, flags.Default)
	args, err := parser.Parse()
	return args, opt, err
}

func runInspect(args []string, opt option) error {
	if opt.Version {
		fmt.Fprintf(os.Stdout, "version: %s (%s)\n", version, revision)
		return nil
	}
	path := opt.File
	if path == "" && len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("the required flag --file was not specified")
	}
	log, err := newLogger(opt.LogLevel, opt.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	var src statement.Source
	switch filepath.Ext(path) {
	case ".json":
		src = statement.JSONSource(path)
	default:
		src = statement.YAMLSource(path)
	}
	ctx := logger.WithLogger(context.Background(), log)
	stmt, err := statement.Load(ctx, src)
	if err != nil {
		return err
	}
	log.Info("loaded statement file", zap.String("path", path), zap.Int("params", len(stmt.Params)))
	return render(os.Stdout, stmt)
}

func newLogger(level logLevel, format logFormat) (*zap.Logger, error) {
	config := &zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.ErrorLevel),
		Development:       false,
		Encoding:          "console",
		DisableStacktrace: true,
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	switch level {
	case logLevelDebug:
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case logLevelInfo:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case logLevelWarn:
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case logLevelError:
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unexpected log level %s", level)
	}
	switch format {
	case logFormatConsole:
		config.Encoding = "console"
	case logFormatJSON:
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("unexpected log format %s", format)
	}
	return config.Build()
}

type output struct {
	SQL        string                     `json:"sql"`
	Params     map[string]json.RawMessage `json:"params"`
	ParamTypes map[string]json.RawMessage `json:"paramTypes"`
}

func render(w io.Writer, stmt *statement.Statement) error {
	out := &output{
		SQL:        stmt.SQL,
		Params:     map[string]json.RawMessage{},
		ParamTypes: map[string]json.RawMessage{},
	}
	for name, value := range stmt.Params {
		encoded, err := protojson.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode parameter %q: %w", name, err)
		}
		out.Params[name] = encoded
	}
	for name, typ := range stmt.ParamTypes {
		encoded, err := protojson.Marshal(typ)
		if err != nil {
			return fmt.Errorf("failed to encode parameter type %q: %w", name, err)
		}
		out.ParamTypes[name] = encoded
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}
