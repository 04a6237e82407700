// Package log is the structured logging facade used across nexmark.
//
// A Logger carries leveled methods taking typed Fields. Records are routed
// through log/slog via a bridge handler into a Formatter (text or JSON) and
// one or more Outputs. Console output goes to stderr so that stdout stays
// free for event sinks.
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("pacer")
//	l.Info("run started", log.Str("format", "binary"))
//
// ApplyConfig builds a Logger from a declarative Config. RedirectStdLog routes
// the standard library logger (used by Pebble and kafka-go) through a Logger.
package log
