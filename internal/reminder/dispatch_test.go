package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	tests := []struct {
		category Category
		want     Channel
	}{
		{CategoryAppointment, ChannelSMS},
		{CategoryVaccination, ChannelEmail},
		{CategoryFollowup, ChannelPush},
		{CategoryGeneral, ChannelPush},
		{Category("unknown"), ChannelPush},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChannelFor(tt.category), "category %s", tt.category)
	}
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("  Vaccination ")
	assert.True(t, ok)
	assert.Equal(t, CategoryVaccination, cat)

	cat, ok = ParseCategory("nonsense")
	assert.False(t, ok)
	assert.Equal(t, CategoryGeneral, cat)
}

func TestDispatcherRoutesByCategory(t *testing.T) {
	rec := newRecordingSender()
	d := NewDispatcher(rec, rec, rec)
	ctx := context.Background()

	assert.NoError(t, d.Dispatch(ctx, Reminder{ID: 1, Category: CategoryAppointment}))
	assert.NoError(t, d.Dispatch(ctx, Reminder{ID: 2, Category: CategoryVaccination}))
	assert.NoError(t, d.Dispatch(ctx, Reminder{ID: 3, Category: CategoryFollowup}))
	assert.NoError(t, d.Dispatch(ctx, Reminder{ID: 4, Category: CategoryGeneral}))

	sms, emails, pushes := rec.counts()
	assert.Equal(t, 1, sms)
	assert.Equal(t, 1, emails)
	assert.Equal(t, 2, pushes)
}

func TestDispatcherDefaultsToLogSenders(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	assert.NoError(t, d.Dispatch(context.Background(), Reminder{ID: 1, Category: CategoryGeneral, Message: "hi"}))
}
