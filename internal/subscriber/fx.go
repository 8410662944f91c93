package subscriber

import (
	"github.com/smallbiznis/roamagg/internal/subscriber/repository"
	"github.com/smallbiznis/roamagg/internal/subscriber/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscriber.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
