package seed

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/billingmock/internal/clock"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"github.com/railzwaylabs/billingmock/internal/plan/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestEnsureDefaultPlansIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plandomain.Plan{}))

	repo := repository.Provide()
	clk := clock.SystemClock{}
	log := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, EnsureDefaultPlans(ctx, db, repo, clk, log))

	var count int64
	require.NoError(t, db.Model(&plandomain.Plan{}).Count(&count).Error)
	require.Equal(t, int64(len(defaultPlans)), count)

	// A second run adds nothing and leaves operator edits alone.
	require.NoError(t, db.Model(&plandomain.Plan{}).Where("id = ?", "basic-monthly").
		Update("amount", 1299).Error)
	require.NoError(t, EnsureDefaultPlans(ctx, db, repo, clk, log))

	require.NoError(t, db.Model(&plandomain.Plan{}).Count(&count).Error)
	require.Equal(t, int64(len(defaultPlans)), count)

	edited, err := repo.FindByID(ctx, db, "basic-monthly")
	require.NoError(t, err)
	require.Equal(t, int64(1299), edited.Amount)
}
