// Package logger provides a structured logging interface for the Pinterest
// scraper, wrapping zerolog with leveled output, contextual fields and an
// optional log file alongside the pretty console writer.
//
// Session secrets must never reach the log stream; helpers log presence and
// length only.
package logger
