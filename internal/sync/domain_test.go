package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Domain
		wantErr bool
	}{
		{in: "equipe", want: DomainTeam},
		{in: "team", want: DomainTeam},
		{in: "sprints", want: DomainSprints},
		{in: "tarefas", want: DomainTasks},
		{in: "Tasks", want: DomainTasks},
		{in: " backlog ", want: DomainBacklog},
		{in: "all", want: DomainAll},
		{in: "", want: DomainAll},
		{in: "membros", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDomain(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDomain_IsReconcilable(t *testing.T) {
	t.Parallel()

	for _, d := range AllDomains() {
		assert.True(t, d.IsReconcilable(), d)
	}
	assert.False(t, DomainAll.IsReconcilable())
	assert.False(t, Domain("unknown").IsReconcilable())
}

func TestTeam_OnLedger(t *testing.T) {
	t.Parallel()

	var nilTeam *Team
	assert.False(t, nilTeam.OnLedger())
	assert.False(t, (&Team{BlockchainID: 0}).OnLedger())
	assert.True(t, (&Team{BlockchainID: 1}).OnLedger())
}
