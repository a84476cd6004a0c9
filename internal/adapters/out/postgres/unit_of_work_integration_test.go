package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "drones/internal/adapters/out/postgres"
	"drones/internal/adapters/out/postgres/runrepo"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
	"drones/internal/core/ports"
	"drones/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&runrepo.RunDTO{}, &runrepo.DroneCostDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest truncates the run log so tests do not see each other's rows.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE runs, drone_costs").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.RunRepository())
	suite.NotNil(uow2.RunRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_Commit_PersistsRun() {
	ctx := context.Background()
	uow := suite.factory.Create()
	r := createTestRun(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.RunRepository().Add(ctx, r))

	// visible inside the transaction
	_, err := uow.RunRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction, "Deferred rollback after commit is a no-op error")

	got, err := suite.factory.Create().RunRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(r.Makespan(), got.Makespan())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_Rollback_DiscardsRun() {
	ctx := context.Background()
	uow := suite.factory.Create()
	r := createTestRun(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.RunRepository().Add(ctx, r))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().RunRepository().Get(ctx, r.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Run should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_Isolation() {
	ctx := context.Background()
	writer := suite.factory.Create()
	reader := suite.factory.Create()
	r := createTestRun(suite)

	suite.Require().NoError(writer.Begin(ctx))
	suite.Require().NoError(writer.RunRepository().Add(ctx, r))

	all, err := reader.RunRepository().GetAll(ctx)
	suite.Require().NoError(err)
	suite.Empty(all, "Uncommitted runs should not be visible to other units of work")

	suite.Require().NoError(writer.Commit(ctx))

	all, err = reader.RunRepository().GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TracksWrittenRuns() {
	ctx := context.Background()
	uow := postgres_adapter.NewGormUnitOfWorkFactory(suite.db).Create().(*postgres_adapter.GormUnitOfWork)
	first := createTestRun(suite)
	second := createTestRun(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.RunRepository().Add(ctx, first))
	suite.Require().NoError(uow.RunRepository().Add(ctx, second))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]kernel.UUID{first.ID(), second.ID()}, uow.TrackedAggregates())
}

func createTestRun(suite *UnitOfWorkIntegrationTestSuite) *run.Run {
	started := time.Now().UTC().Truncate(time.Millisecond)
	r, err := run.NewRun(kernel.NewUUID(), "greedy", 7, 50, 4, started)
	suite.Require().NoError(err)
	suite.Require().NoError(r.Finish(map[string]int{"Drone0": 11, "Drone1": 9}, started.Add(time.Second)))
	return r
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
