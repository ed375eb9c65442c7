package pipeline

import (
	"github.com/gites/backend/internal/domain/permission"
)

// Status represents a dossier lifecycle state.
type Status string

const (
	StatusNouveau            Status = "NOUVEAU"
	StatusDemandeRecue       Status = "DEMANDE_RECUE"
	StatusContratEnvoye      Status = "CONTRAT_ENVOYE"
	StatusContratSigne       Status = "CONTRAT_SIGNE"
	StatusAcompteRecu        Status = "ACOMPTE_RECU"
	StatusSoldeDemande       Status = "SOLDE_DEMANDE"
	StatusCheckinFait        Status = "CHECKIN_FAIT"
	StatusEdlEntreeOK        Status = "EDL_ENTREE_OK"
	StatusEdlEntreeIncident  Status = "EDL_ENTREE_INCIDENT"
	StatusCheckoutFait       Status = "CHECKOUT_FAIT"
	StatusEdlOK              Status = "EDL_OK"
	StatusEdlIncident        Status = "EDL_INCIDENT"
	StatusCloture            Status = "CLOTURE"
	StatusAnnule             Status = "ANNULE"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	_, ok := successors[s]
	return ok
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status is one of the two terminal states.
func (s Status) IsTerminal() bool {
	return s == StatusCloture || s == StatusAnnule
}

// IsIncidentVariant reports whether the status is an incident-flavored
// inspection outcome.
func (s Status) IsIncidentVariant() bool {
	return s == StatusEdlEntreeIncident || s == StatusEdlIncident
}

// successors is the transition graph. Branching exists only at the two
// inspection checkpoints; every other state has exactly one successor.
// ANNULE is reachable from any non-terminal state via Cancel, not via an
// Advance edge.
var successors = map[Status][]Status{
	StatusNouveau:           {StatusDemandeRecue},
	StatusDemandeRecue:      {StatusContratEnvoye},
	StatusContratEnvoye:     {StatusContratSigne},
	StatusContratSigne:      {StatusAcompteRecu},
	StatusAcompteRecu:       {StatusSoldeDemande},
	StatusSoldeDemande:      {StatusCheckinFait},
	StatusCheckinFait:       {StatusEdlEntreeOK, StatusEdlEntreeIncident},
	StatusEdlEntreeOK:       {StatusCheckoutFait},
	StatusEdlEntreeIncident: {StatusCheckoutFait},
	StatusCheckoutFait:      {StatusEdlOK, StatusEdlIncident},
	StatusEdlOK:             {StatusCloture},
	StatusEdlIncident:       {StatusCloture},
	StatusCloture:           {},
	StatusAnnule:            {},
}

// administrativeTargets are the states only an ADMIN may advance into:
// the contract and financial steps, plus closure.
var administrativeTargets = map[Status]bool{
	StatusDemandeRecue:  true,
	StatusContratEnvoye: true,
	StatusContratSigne:  true,
	StatusAcompteRecu:   true,
	StatusSoldeDemande:  true,
	StatusCloture:       true,
}

// linearPredecessor maps each state to the unique previous step on the
// linear path. Incident variants alias their OK sibling, so reverting
// EDL_INCIDENT lands on CHECKOUT_FAIT. The first state and the terminals
// have no entry.
var linearPredecessor = map[Status]Status{
	StatusDemandeRecue:      StatusNouveau,
	StatusContratEnvoye:     StatusDemandeRecue,
	StatusContratSigne:      StatusContratEnvoye,
	StatusAcompteRecu:       StatusContratSigne,
	StatusSoldeDemande:      StatusAcompteRecu,
	StatusCheckinFait:       StatusSoldeDemande,
	StatusEdlEntreeOK:       StatusCheckinFait,
	StatusEdlEntreeIncident: StatusCheckinFait,
	StatusCheckoutFait:      StatusEdlEntreeOK,
	StatusEdlOK:             StatusCheckoutFait,
	StatusEdlIncident:       StatusCheckoutFait,
}

// First is the initial state of every dossier.
const First = StatusNouveau

// NextSteps returns the valid successor states (0, 1 or 2 edges).
func NextSteps(s Status) []Status {
	next := successors[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanAdvance reports whether role may move a dossier from current to
// target: target must be a graph edge, and administrative targets are
// ADMIN-only.
func CanAdvance(current, target Status, role permission.Role) bool {
	found := false
	for _, next := range successors[current] {
		if next == target {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if administrativeTargets[target] {
		return permission.Allowed(role, permission.PermAdvanceAdministrative)
	}
	return permission.Allowed(role, permission.PermAdvanceOperational)
}

// RevertTarget returns the single-step revert target for the role, or
// false when no revert is possible. Reverting is ADMIN-only and never
// applies to the first state or the terminal states.
func RevertTarget(current Status, role permission.Role) (Status, bool) {
	if !permission.Allowed(role, permission.PermRevertPipeline) {
		return "", false
	}
	if current.IsTerminal() {
		return "", false
	}
	prev, ok := linearPredecessor[current]
	if !ok {
		return "", false
	}
	return prev, true
}

// CanCancel reports whether a dossier in this state may be cancelled.
// Only the two terminal states refuse cancellation.
func CanCancel(s Status) bool {
	return s.IsValid() && !s.IsTerminal()
}
