package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDomain     = "domain"
	KeyCommand    = "command"
	KeyConnID     = "conn_id"
	KeySocket     = "socket"
	KeyInterface  = "interface"
	KeyInterval   = "interval"
	KeyDurationMS = "duration_ms"
	KeyComponent  = "component"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Domain(d string) slog.Attr        { return slog.String(KeyDomain, d) }
func Command(c string) slog.Attr       { return slog.String(KeyCommand, c) }
func ConnID(id string) slog.Attr       { return slog.String(KeyConnID, id) }
func Socket(path string) slog.Attr     { return slog.String(KeySocket, path) }
func Interface(name string) slog.Attr  { return slog.String(KeyInterface, name) }
func Interval(v string) slog.Attr      { return slog.String(KeyInterval, v) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Component(name string) slog.Attr  { return slog.String(KeyComponent, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
