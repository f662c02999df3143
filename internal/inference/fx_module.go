package inference

import (
	"go.uber.org/fx"
)

// FXModule wires the inference client into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (NewClient)
//
// The client holds no connections that need explicit teardown, so no
// lifecycle hook is registered.
var FXModule = fx.Module("inference",
	fx.Provide(
		NewConfig,
		NewClient,
	),
)
