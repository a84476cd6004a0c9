package queries_test

import (
	"testing"

	"drones/internal/core/application/usecases/queries"
	"drones/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetAllRunsQuery_Valid(t *testing.T) {
	query, err := queries.NewGetAllRunsQuery(5)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, 5, query.Limit())
}

func TestNewGetAllRunsQuery_NegativeLimit(t *testing.T) {
	_, err := queries.NewGetAllRunsQuery(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestGetAllRunsQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetAllRunsQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetAllRunsQueryIsNotConstructed)
}
