package modules

import (
	"github.com/paceline-hq/paceline/modules/program"
	"github.com/paceline-hq/paceline/pkg/application"
)

var BuiltInModules = []application.Module{
	program.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
