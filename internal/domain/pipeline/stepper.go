package pipeline

// Presentation mapping for stepper UIs. Incident variants share the index
// of their OK sibling so prior steps render as completed while the current
// one is flagged. This is display state, not a graph position.

// linearOrder is the visual step sequence.
var linearOrder = []Status{
	StatusNouveau,
	StatusDemandeRecue,
	StatusContratEnvoye,
	StatusContratSigne,
	StatusAcompteRecu,
	StatusSoldeDemande,
	StatusCheckinFait,
	StatusEdlEntreeOK,
	StatusCheckoutFait,
	StatusEdlOK,
	StatusCloture,
}

// displayAlias folds an incident variant onto its OK sibling for the
// stepper only.
var displayAlias = map[Status]Status{
	StatusEdlEntreeIncident: StatusEdlEntreeOK,
	StatusEdlIncident:       StatusEdlOK,
}

var stepIndex = buildStepIndex()

func buildStepIndex() map[Status]int {
	idx := make(map[Status]int, len(linearOrder)+len(displayAlias))
	for i, s := range linearOrder {
		idx[s] = i
	}
	for variant, sibling := range displayAlias {
		idx[variant] = idx[sibling]
	}
	return idx
}

// StepIndex returns the stepper position for a status; ANNULE and unknown
// states return -1.
func StepIndex(s Status) int {
	if i, ok := stepIndex[s]; ok {
		return i
	}
	return -1
}

// StepCount returns the number of visual steps.
func StepCount() int {
	return len(linearOrder)
}

// Steps returns the visual step sequence.
func Steps() []Status {
	out := make([]Status, len(linearOrder))
	copy(out, linearOrder)
	return out
}
