// Package logger sets up the logrus logger shared by the binary and adapts
// engine diagnostics to it.
package logger
