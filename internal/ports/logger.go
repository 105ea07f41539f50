package ports

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}
