package outbound

// Reporter surfaces the invocation outcome to the CI platform.
type Reporter interface {
	Info(message string)
	Error(message string)
	// SetFailed marks the invocation as failed. It does not exit the process.
	SetFailed(message string)
	Failed() bool
}
