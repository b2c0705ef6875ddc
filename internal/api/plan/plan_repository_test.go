package plan

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func TestPostgresPlanRepo(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlanRepo(mockPool, discard)
	ctx := context.Background()
	groupID := uuid.New()
	planID := uuid.New()
	now := time.Now()
	caption := types.DefaultPlanCaption

	t.Run("insert", func(t *testing.T) {
		plan := &types.TripPlan{GroupID: groupID, PlanJSON: json.RawMessage(`{"plan_options":[]}`), SummaryCaption: &caption}
		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO trip_plans")).
			WithArgs(groupID, plan.PlanJSON, plan.SummaryCaption, plan.EstimatedCostPerPerson).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(planID, now))

		require.NoError(t, repo.Insert(ctx, plan))
		assert.Equal(t, planID, plan.ID)
		assert.Equal(t, now, plan.CreatedAt)
	})

	t.Run("list by group", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM trip_plans")).
			WithArgs(groupID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "group_id", "plan_json", "summary_caption", "estimated_cost_per_person", "created_at"}).
				AddRow(planID, groupID, json.RawMessage(`{"plan_options":[]}`), &caption, (*float64)(nil), now))

		plans, err := repo.ListByGroup(ctx, groupID)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, planID, plans[0].ID)
		assert.Nil(t, plans[0].EstimatedCostPerPerson)
	})

	require.NoError(t, mockPool.ExpectationsWereMet())
}
