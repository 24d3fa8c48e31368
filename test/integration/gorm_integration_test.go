package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.TranscriptRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Transcript Chunk Repository", func(t *testing.T) {
		// Count implies the table and the vector column exist
		count, err := uow.TranscriptChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("TranscriptChunk count: %d", count)
	})

	t.Run("Check Transactional Library Add", func(t *testing.T) {
		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
		}

		podcastId := uuid.New()
		podcast := &entity.Podcast{
			Id:          podcastId,
			CatalogUuid: "itest-" + uuid.New().String(),
			Name:        "Integration Podcast",
			Author:      "Integration Author",
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)
		err = uow.PodcastRepository().UpsertByCatalogUuid(context.Background(), podcast)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		episode := &entity.Episode{
			Id:          uuid.New(),
			CatalogUuid: "itest-ep-" + uuid.New().String(),
			PodcastId:   podcastId,
			Name:        "Integration Episode",
			AudioURL:    "https://example.com/integration.mp3",
		}
		err = uow.EpisodeRepository().UpsertBulkByCatalogUuid(ctx, []*entity.Episode{episode})
		assert.NoError(t, err)

		entry := &entity.UserLibraryEntry{
			Id:        uuid.New(),
			UserId:    userId,
			PodcastId: podcastId,
		}
		err = uow.UserLibraryRepository().Create(ctx, entry)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Library Entry with Episode in Transaction")
	})
}
