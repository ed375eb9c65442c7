package pipeline

import (
	"testing"

	"github.com/gites/backend/internal/domain/permission"
	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	all := []Status{
		StatusNouveau, StatusDemandeRecue, StatusContratEnvoye, StatusContratSigne,
		StatusAcompteRecu, StatusSoldeDemande, StatusCheckinFait, StatusEdlEntreeOK,
		StatusEdlEntreeIncident, StatusCheckoutFait, StatusEdlOK, StatusEdlIncident,
		StatusCloture, StatusAnnule,
	}
	assert.Len(t, all, 14)
	for _, s := range all {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, Status("PENDING").IsValid())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCloture.IsTerminal())
	assert.True(t, StatusAnnule.IsTerminal())
	assert.False(t, StatusNouveau.IsTerminal())
	assert.False(t, StatusEdlIncident.IsTerminal())
}

func TestNextSteps(t *testing.T) {
	tests := []struct {
		from Status
		want []Status
	}{
		{StatusNouveau, []Status{StatusDemandeRecue}},
		{StatusDemandeRecue, []Status{StatusContratEnvoye}},
		{StatusContratEnvoye, []Status{StatusContratSigne}},
		{StatusContratSigne, []Status{StatusAcompteRecu}},
		{StatusAcompteRecu, []Status{StatusSoldeDemande}},
		{StatusSoldeDemande, []Status{StatusCheckinFait}},
		{StatusCheckinFait, []Status{StatusEdlEntreeOK, StatusEdlEntreeIncident}},
		{StatusEdlEntreeOK, []Status{StatusCheckoutFait}},
		{StatusEdlEntreeIncident, []Status{StatusCheckoutFait}},
		{StatusCheckoutFait, []Status{StatusEdlOK, StatusEdlIncident}},
		{StatusEdlOK, []Status{StatusCloture}},
		{StatusEdlIncident, []Status{StatusCloture}},
		{StatusCloture, []Status{}},
		{StatusAnnule, []Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NextSteps(tt.from))
		})
	}
}

func TestNextSteps_ReturnsCopy(t *testing.T) {
	steps := NextSteps(StatusCheckinFait)
	steps[0] = StatusAnnule

	assert.Equal(t, []Status{StatusEdlEntreeOK, StatusEdlEntreeIncident}, NextSteps(StatusCheckinFait))
}

func TestCanAdvance_RoleMatrix(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		role    permission.Role
		allowed bool
	}{
		// administrative targets are ADMIN-only
		{"admin nouveau to demande", StatusNouveau, StatusDemandeRecue, permission.RoleAdmin, true},
		{"agent nouveau to demande", StatusNouveau, StatusDemandeRecue, permission.RoleAgent, false},
		{"admin contrat signe", StatusContratEnvoye, StatusContratSigne, permission.RoleAdmin, true},
		{"agent contrat signe", StatusContratEnvoye, StatusContratSigne, permission.RoleAgent, false},
		{"admin cloture", StatusEdlOK, StatusCloture, permission.RoleAdmin, true},
		{"agent cloture", StatusEdlOK, StatusCloture, permission.RoleAgent, false},
		// operational targets are open to both roles
		{"agent checkin", StatusSoldeDemande, StatusCheckinFait, permission.RoleAgent, true},
		{"admin checkin", StatusSoldeDemande, StatusCheckinFait, permission.RoleAdmin, true},
		{"agent edl entree ok", StatusCheckinFait, StatusEdlEntreeOK, permission.RoleAgent, true},
		{"agent edl entree incident", StatusCheckinFait, StatusEdlEntreeIncident, permission.RoleAgent, true},
		{"agent checkout from incident", StatusEdlEntreeIncident, StatusCheckoutFait, permission.RoleAgent, true},
		{"agent edl incident", StatusCheckoutFait, StatusEdlIncident, permission.RoleAgent, true},
		// non-edges fail regardless of role
		{"skip a step", StatusNouveau, StatusContratEnvoye, permission.RoleAdmin, false},
		{"backward edge", StatusContratSigne, StatusContratEnvoye, permission.RoleAdmin, false},
		{"cross branch", StatusCheckinFait, StatusEdlOK, permission.RoleAdmin, false},
		{"advance into annule", StatusNouveau, StatusAnnule, permission.RoleAdmin, false},
		{"advance out of cloture", StatusCloture, StatusNouveau, permission.RoleAdmin, false},
		{"advance out of annule", StatusAnnule, StatusDemandeRecue, permission.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanAdvance(tt.from, tt.to, tt.role))
		})
	}
}

func TestRevertTarget(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		role   permission.Role
		want   Status
		wantOK bool
	}{
		{"admin one step back", StatusContratEnvoye, permission.RoleAdmin, StatusDemandeRecue, true},
		{"admin from checkin", StatusCheckinFait, permission.RoleAdmin, StatusSoldeDemande, true},
		{"incident variant aliases ok sibling", StatusEdlIncident, permission.RoleAdmin, StatusCheckoutFait, true},
		{"entree incident aliases checkin", StatusEdlEntreeIncident, permission.RoleAdmin, StatusCheckinFait, true},
		{"checkout reverts to edl entree ok", StatusCheckoutFait, permission.RoleAdmin, StatusEdlEntreeOK, true},
		{"agent cannot revert", StatusContratEnvoye, permission.RoleAgent, "", false},
		{"no revert from first state", StatusNouveau, permission.RoleAdmin, "", false},
		{"no revert from cloture", StatusCloture, permission.RoleAdmin, "", false},
		{"no revert from annule", StatusAnnule, permission.RoleAdmin, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RevertTarget(tt.from, tt.role)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(StatusNouveau))
	assert.True(t, CanCancel(StatusCheckinFait))
	assert.True(t, CanCancel(StatusEdlIncident))
	assert.False(t, CanCancel(StatusCloture))
	assert.False(t, CanCancel(StatusAnnule))
	assert.False(t, CanCancel(Status("UNKNOWN")))
}

func TestFullAdminWalk(t *testing.T) {
	// An admin can traverse the whole happy path one edge at a time.
	path := []Status{
		StatusNouveau, StatusDemandeRecue, StatusContratEnvoye, StatusContratSigne,
		StatusAcompteRecu, StatusSoldeDemande, StatusCheckinFait, StatusEdlEntreeOK,
		StatusCheckoutFait, StatusEdlOK, StatusCloture,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanAdvance(path[i], path[i+1], permission.RoleAdmin),
			"%s -> %s", path[i], path[i+1])
	}
}
