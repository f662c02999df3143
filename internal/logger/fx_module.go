package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the logger into Fx.
//
// It provides:
//   - Config  (NewConfig)
//   - *Logger (NewLoggerClient)
//   - Lifecycle hook flushing buffered entries on shutdown
var FXModule = fx.Module("logger",
	fx.Provide(
		NewConfig,
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle handles cleanup (sync) of the Zap logger so that no
// buffered entries are lost when the application terminates.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr can legitimately fail (e.g. on ttys); ignore it.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
