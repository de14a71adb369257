package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/castinghq/casting/pkg/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	var one int
	err = db.QueryRow("SELECT 1").Scan(&one)
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

// Writes from many goroutines must all land without "database is locked"
// errors since the pool is limited to a single connection.
func TestNew_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")
	cfg.DatabaseDebug = true

	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE concurrency_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL
	)`)
	require.NoError(t, err)

	const workers = 10
	const writesPerWorker = 20

	ctx := context.Background()
	errs := make(chan error, workers*writesPerWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < writesPerWorker; i++ {
				_, err := db.ExecContext(ctx, "INSERT INTO concurrency_test (value) VALUES (?)", fmt.Sprintf("%d-%d", worker, i))
				if err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM concurrency_test").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, workers*writesPerWorker, count)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: actors.name (2067)")))
	assert.True(t, IsUniqueViolation(errors.WithStack(errors.New("UNIQUE constraint failed: movies.title"))))
}
