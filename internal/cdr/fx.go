package cdr

import (
	"github.com/smallbiznis/roamagg/internal/cdr/repository"
	"github.com/smallbiznis/roamagg/internal/cdr/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cdr.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
