package udr

import (
	"github.com/smallbiznis/roamagg/internal/udr/service"
	"go.uber.org/fx"
)

var Module = fx.Module("udr.service",
	fx.Provide(service.New),
)
