package core

import (
	"context"
	"fmt"
	"os"

	blobcore "campuscore/internal/blob/core"
	blobfs "campuscore/internal/infra/blob/fs"
	blobmem "campuscore/internal/infra/blob/memory"
	blobs3 "campuscore/internal/infra/blob/s3"
	blobstore "campuscore/internal/infra/persistence/blob"
	"campuscore/internal/infra/persistence/memory"
	"campuscore/internal/infra/persistence/postgres"
	"campuscore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // blob backend (fs, s3, or memory)
)

// Stores bundles the three persistence surfaces a driver provides. Durable
// drivers serve all three from one backend; the memory driver composes
// separate in-process stores.
type Stores struct {
	Persistent PersistentStore
	Sessions   SessionStore
	Outbox     OutboxStore
}

// OpenStores selects a backend using environment variables. Defaults to
// sqlite when unset.
//
//	CAMPUSCORE_STORAGE_DRIVER: memory|sqlite|postgres|blob (default sqlite)
//	CAMPUSCORE_SQLITE_PATH: path to sqlite file (default ./campuscore.db)
//	CAMPUSCORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	CAMPUSCORE_BLOB_DRIVER: fs|s3|memory when driver=blob (default fs)
//	CAMPUSCORE_BLOB_FS_ROOT: filesystem root for the fs blob backend
//	CAMPUSCORE_BLOB_S3_*: bucket/region/endpoint for the s3 blob backend
func OpenStores(ctx context.Context, engine *RulesEngine) (Stores, error) {
	driver := os.Getenv("CAMPUSCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return Stores{
			Persistent: memory.NewStore(engine),
			Sessions:   memory.NewSessionStore(),
			Outbox:     memory.NewOutboxStore(),
		}, nil
	case StorageSQLite:
		store, err := sqlite.NewStore(os.Getenv("CAMPUSCORE_SQLITE_PATH"), engine)
		if err != nil {
			return Stores{}, err
		}
		return Stores{Persistent: store, Sessions: store, Outbox: store}, nil
	case StoragePostgres:
		store, err := postgres.NewStore(os.Getenv("CAMPUSCORE_POSTGRES_DSN"), engine)
		if err != nil {
			return Stores{}, err
		}
		return Stores{Persistent: store, Sessions: store, Outbox: store}, nil
	case StorageBlob:
		backend, err := openBlobBackend(ctx)
		if err != nil {
			return Stores{}, err
		}
		store, err := blobstore.NewStore(ctx, backend, engine)
		if err != nil {
			return Stores{}, err
		}
		return Stores{Persistent: store, Sessions: store, Outbox: store}, nil
	default:
		return Stores{}, fmt.Errorf("unknown storage driver %s", driver)
	}
}

func openBlobBackend(ctx context.Context) (blobcore.Store, error) {
	driver := os.Getenv("CAMPUSCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(blobcore.DriverFilesystem)
	}
	switch blobcore.Driver(driver) {
	case blobcore.DriverFilesystem:
		return blobfs.New(os.Getenv("CAMPUSCORE_BLOB_FS_ROOT"))
	case blobcore.DriverS3:
		return blobs3.OpenFromEnv(ctx)
	case blobcore.DriverMemory:
		return blobmem.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
