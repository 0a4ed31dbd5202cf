package logger

import "log/slog"

// Attribute helpers keep log field names consistent across the service.

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func TenantID(id string) slog.Attr {
	return slog.String("tenant_id", id)
}

func FlagKey(key string) slog.Attr {
	return slog.String("flag_key", key)
}

func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}
