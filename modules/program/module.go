package program

import (
	"embed"

	"github.com/paceline-hq/paceline/modules/program/infrastructure/persistence"
	"github.com/paceline-hq/paceline/modules/program/presentation/controllers"
	"github.com/paceline-hq/paceline/modules/program/services"
	"github.com/paceline-hq/paceline/pkg/application"
)

//go:embed infrastructure/persistence/schema/program-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	nodes := persistence.NewWorkNodeRepository()
	orgs := persistence.NewOrganizationRepository()
	assignments := persistence.NewDateAssignmentRepository()
	resolver := services.NewHierarchyResolver(nodes, orgs, assignments)

	app.RegisterServices(
		services.NewDateAssignmentService(resolver, assignments, app.EventPublisher()),
		services.NewComplianceService(nodes, assignments, resolver),
	)

	app.RegisterControllers(
		controllers.NewDatesAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "program"
}
