package kyc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func record(status Status, daysAgo int) *Record {
	return &Record{
		Status:    status,
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name     string
		identity *Record
		document *Record
		want     Tier
	}{
		{"nothing attempted", nil, nil, TierBasic},
		{"document only cannot skip identity", nil, record(StatusVerified, 0), TierBasic},
		{"identity pending", record(StatusPending, 1), nil, TierBasic},
		{"identity failed with verified document", record(StatusFailed, 1), record(StatusVerified, 0), TierBasic},
		{"identity verified only", record(StatusVerified, 1), nil, TierIdentity},
		{"identity verified, document pending", record(StatusVerified, 1), record(StatusPending, 0), TierIdentity},
		{"identity verified, document failed", record(StatusVerified, 1), record(StatusFailed, 0), TierIdentity},
		{"both verified", record(StatusVerified, 1), record(StatusVerified, 0), TierFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveTier(tt.identity, tt.document))
		})
	}
}

func TestResolveTier_Idempotent(t *testing.T) {
	identity := record(StatusVerified, 2)
	document := record(StatusPending, 0)

	first := ResolveTier(identity, document)
	second := ResolveTier(identity, document)

	require.Equal(t, TierIdentity, first)
	require.Equal(t, first, second)
}
