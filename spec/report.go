package spec

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Production holds the RHS as symbol numbers. A terminal is positive and a non-terminal is negative.
// An empty RHS derives the empty string.
type Production struct {
	Number int    `json:"number"`
	LHS    int    `json:"lhs"`
	RHS    []int  `json:"rhs"`
	Text   string `json:"text"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol            int  `json:"symbol"`
	State             int  `json:"state"`
	Production        int  `json:"production"`
	AdoptedState      *int `json:"adopted_state"`
	AdoptedProduction *int `json:"adopted_production"`
	ResolvedBy        int  `json:"resolved_by"`
}

type RRConflict struct {
	Symbol            int `json:"symbol"`
	Production1       int `json:"production_1"`
	Production2       int `json:"production_2"`
	AdoptedProduction int `json:"adopted_production"`
	ResolvedBy        int `json:"resolved_by"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	Accept     bool          `json:"accept"`
	GoTo       []*Transition `json:"goto"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

// Report describes the LR(0) states of a grammar and the conflicts resolved while filling the table.
type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}

func (r *Report) ConflictCount() (sr int, rr int) {
	for _, s := range r.States {
		sr += len(s.SRConflict)
		rr += len(s.RRConflict)
	}
	return sr, rr
}
