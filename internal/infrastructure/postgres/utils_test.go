package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro error")))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, isSerializationFailure(fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"})))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("otro error")))
}

// TestRetryWait verifica el backoff exponencial con jitter: cada intento
// duplica la base y el jitter se mantiene dentro de ±25%.
func TestRetryWait(t *testing.T) {
	for attempt := 1; attempt <= 2; attempt++ {
		base := retryBaseWait << (attempt - 1)
		min := time.Duration(float64(base) * (1 - retryJitterFraction))
		max := time.Duration(float64(base) * (1 + retryJitterFraction))
		for i := 0; i < 50; i++ {
			wait := retryWait(attempt)
			assert.GreaterOrEqual(t, wait, min, "intento %d", attempt)
			assert.LessOrEqual(t, wait, max, "intento %d", attempt)
		}
	}
}
