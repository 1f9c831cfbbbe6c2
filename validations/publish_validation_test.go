package validations

import (
	"context"
	"testing"

	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRunDate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateRunDate(ctx, "2026-03-02"))

	for _, bad := range []string{"2026-3-2", "03/02/2026", "2026-02-30", "tomorrow"} {
		err := ValidateRunDate(ctx, bad)
		require.Error(t, err, bad)
		assert.Equal(t, "Invalid date format. Use YYYY-MM-DD.", err.Error())

		var generic pkgError.GenericError
		require.ErrorAs(t, err, &generic)
		assert.Equal(t, 400, generic.StatusCode())
	}
}

func TestValidatePublishRequest(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidatePublishRequest(ctx, PublishRequest{}))
	assert.NoError(t, ValidatePublishRequest(ctx, PublishRequest{RunDate: "2026-03-02", Force: true}))

	err := ValidatePublishRequest(ctx, PublishRequest{RunDate: "2026-13-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid date format. Use YYYY-MM-DD.")
}

func TestValidateDeleteRunsRequest(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateDeleteRunsRequest(ctx, DeleteRunsRequest{All: true}))
	assert.NoError(t, ValidateDeleteRunsRequest(ctx, DeleteRunsRequest{RunDate: "2026-03-02"}))

	err := ValidateDeleteRunsRequest(ctx, DeleteRunsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be YYYY-MM-DD")

	assert.Error(t, ValidateDeleteRunsRequest(ctx, DeleteRunsRequest{RunDate: "yesterday"}))
}
