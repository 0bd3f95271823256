package category

import "go.uber.org/fx"

// Module provides the category repository to Fx.
var Module = fx.Provide(NewRepository)
