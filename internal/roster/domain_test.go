package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsDuplicateMember(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{10, 11}
	cfg.Teams[TeamCharlie] = []int64{12, 10}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrDuplicateMember)
	assert.Contains(t, err.Error(), "member 10")
}

func TestValidateAcceptsDisjointTeams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1, 2}
	cfg.Teams[TeamBravo] = []int64{3}
	cfg.Teams[TeamCharlie] = []int64{4}
	cfg.Teams[TeamDelta] = []int64{5, 6}
	assert.NoError(t, cfg.Validate())
}

func TestValidateEmptyConfig(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestReconcileDropsOrphansPreservingOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{5, 9, 2, 7}
	cfg.Teams[TeamBravo] = []int64{3, 4}

	out := cfg.Reconcile([]int64{2, 5, 7, 4})

	assert.Equal(t, []int64{5, 2, 7}, out.Teams[TeamAlpha])
	assert.Equal(t, []int64{4}, out.Teams[TeamBravo])
	assert.Empty(t, out.Teams[TeamCharlie])
	assert.Empty(t, out.Teams[TeamDelta])
}

func TestReconcileKeepsAnchor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartDate = time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)
	out := cfg.Reconcile(nil)
	assert.Equal(t, cfg.StartDate, out.StartDate)
	assert.Equal(t, cfg.SchemaVersion, out.SchemaVersion)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1, 2, 3}
	_ = cfg.Reconcile([]int64{2})
	assert.Equal(t, []int64{1, 2, 3}, cfg.Teams[TeamAlpha])
}
