package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"nook-pos/internal/loyalty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberService_GetIncludesTier(t *testing.T) {
	_, members := seededRepos(t)
	svc := NewMemberService(members)

	m, err := svc.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, loyalty.TierSilver, m.Tier)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, loyalty.TierRegular, all[1].Tier)
}

func TestMemberService_Register(t *testing.T) {
	_, members := seededRepos(t)
	svc := NewMemberService(members).(*memberServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	m, err := svc.Register(context.Background(), " Tom Nook ", "0900000000")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(m.ID, "m-"))
	assert.Equal(t, "Tom Nook", m.Name)
	assert.Equal(t, "2024-03-01", m.JoinDate)
	assert.Equal(t, int64(0), m.Points)
	assert.Equal(t, loyalty.TierRegular, m.Tier)

	_, err = svc.Register(context.Background(), "", "0900000000")
	assert.True(t, IsValidation(err))
}
