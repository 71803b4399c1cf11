package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *LauncherError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *LauncherError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *LauncherError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Collection errors

func CollectFailed(domain string, cause error) *LauncherError {
	return WrapRetryable(cause, CategoryCollect, SeverityWarning, "state collection failed").
		WithContext("domain", domain)
}

// Control action errors

func ActionFailed(command string, cause error) *LauncherError {
	return Wrap(cause, CategoryAction, SeverityError, "control action failed").
		WithContext("command", command)
}

// IPC errors

func SocketInUse(path string) *LauncherError {
	return New(CategoryIPC, SeverityFatal, "another instance is already running").
		WithContext("socket", path)
}

func MessageTooLarge(limit int) *LauncherError {
	return New(CategoryIPC, SeverityWarning, "message too large").
		WithContext("limit", limit)
}

func DecodeError(cause error) *LauncherError {
	return Wrap(cause, CategoryIPC, SeverityWarning, "request decode failed")
}

// Weather errors

func WeatherUnavailable(reason string, cause error) *LauncherError {
	return WrapRetryable(cause, CategoryWeather, SeverityWarning, reason)
}

// Internal errors

func InternalError(message string, cause error) *LauncherError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
