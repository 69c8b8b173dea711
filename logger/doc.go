// Package logger provides structured logging for restkit using zerolog.
//
// Loggers are built from a Config and can be scoped to a component:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "orders")
//	log.WithComponent("restclient").Debug("dispatch", logger.Fields("method", "GET"))
//
// Output may be stdout, stderr or a file path. File output is rotated with
// lumberjack according to MaxSize, MaxBackups and MaxAge.
package logger
