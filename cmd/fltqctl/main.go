// Command fltqctl is the out-of-CORE demo host for the engine: it loads
// a schema, optionally replays a previously exported log, and serves
// either an interactive REPL or a line-oriented TCP server against it.
// Grounded on the teacher's cmd/rdbms/main.go and cmd/joydb/main.go
// (flag-based server/port toggle, SetupLogger + deferred close, log →
// bootstrap/load → serve sequencing).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/leengari/fltq/internal/accessor"
	"github.com/leengari/fltq/internal/database"
	"github.com/leengari/fltq/internal/ddl"
	"github.com/leengari/fltq/internal/logging"
	"github.com/leengari/fltq/internal/netserve"
	"github.com/leengari/fltq/internal/replhost"
)

func main() {
	dbPath := flag.String("db", "", "path to a previously exported log file (omitted: start empty)")
	schemaPath := flag.String("schema", "", "path to a schema file (IDL or JSON Schema)")
	serverMode := flag.Bool("server", false, "run the TCP server instead of the REPL")
	port := flag.Int("port", 4444, "port to listen on in -server mode")
	verbose := flag.Bool("verbose", false, "also log via a zap development sink")
	flag.Parse()

	logger, closeLog := logging.Setup(logging.Config{Level: slog.LevelInfo})
	slog.SetDefault(logger)

	// An SDK TracerProvider with no exporter still processes spans through
	// the batcher lifecycle; a host that wants real traces only needs to
	// add a WithBatcher(exporter) option here, not touch internal/database.
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	var closers []func() error
	closers = append(closers, closeLog, func() error { return tp.Shutdown(context.Background()) })
	var verboseSink *logging.VerboseSink
	if *verbose {
		sink, err := logging.NewVerboseSink()
		if err != nil {
			slog.Error("failed to start verbose sink", "error", err)
			os.Exit(1)
		}
		verboseSink = sink
		closers = append(closers, sink.Close)
	}
	defer logging.CombineCloses(closers...)

	if *schemaPath == "" {
		slog.Error("missing required -schema flag")
		os.Exit(1)
	}
	schemaText, err := os.ReadFile(*schemaPath)
	if err != nil {
		slog.Error("failed to read schema", "path", *schemaPath, "error", err)
		os.Exit(1)
	}

	acc := accessor.NewJSONAccessor()
	obs := []database.Option{database.WithObserver(&database.LoggingObserver{Log: logger})}
	if verboseSink != nil {
		obs = append(obs, database.WithObserver(&database.LoggingObserver{Log: verboseSink}))
	}

	var db *database.Database
	if *dbPath != "" {
		data, err := os.ReadFile(*dbPath)
		if err != nil {
			slog.Error("failed to read database log", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		schema, err := ddl.Parse(string(schemaText), "fltqctl")
		if err != nil {
			slog.Error("failed to parse schema", "error", err)
			os.Exit(1)
		}
		db, err = database.FromData(data, schema, acc, obs...)
		if err != nil {
			slog.Error("failed to load database", "error", err)
			os.Exit(1)
		}
	} else {
		db, err = database.FromSchema(string(schemaText), acc, "fltqctl", obs...)
		if err != nil {
			slog.Error("failed to build database from schema", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("database ready", "tables", len(db.ListTables()))

	if *serverMode {
		if err := netserve.Start(*port, db, logger); err != nil {
			slog.Error("server exited", "error", err)
			os.Exit(1)
		}
		return
	}
	replhost.Start(os.Stdin, os.Stdout, db)
}
