package spec

import "github.com/nihei9/sysyc/compressor"

// ParsingTable is the compiled SLR(1) table of a grammar.
//
// An ACTION entry is negative for a shift to the state `-entry`, positive for a reduction by the
// production `entry`, and 0 for an error. A reduction by StartProduction means accepting.
// A GOTO entry is the next state, or 0 when no transition exists.
//
// When the table is compressed, Action and GoTo are omitted and CompressedAction and
// CompressedGoTo hold the same entries.
type ParsingTable struct {
	Action                  []int                    `json:"action,omitempty"`
	GoTo                    []int                    `json:"goto,omitempty"`
	CompressedAction        *compressor.LayeredTable `json:"compressed_action,omitempty"`
	CompressedGoTo          *compressor.LayeredTable `json:"compressed_goto,omitempty"`
	StateCount              int                      `json:"state_count"`
	InitialState            int                      `json:"initial_state"`
	StartProduction         int                      `json:"start_production"`
	LHSSymbols              []int                    `json:"lhs_symbols"`
	AlternativeSymbolCounts []int                    `json:"alternative_symbol_counts"`
	Productions             []string                 `json:"productions"`
	Terminals               []string                 `json:"terminals"`
	TerminalCount           int                      `json:"terminal_count"`
	NonTerminals            []string                 `json:"non_terminals"`
	NonTerminalCount        int                      `json:"non_terminal_count"`
	EOFSymbol               int                      `json:"eof_symbol"`
}

func (t *ParsingTable) IsCompressed() bool {
	return t.CompressedAction != nil && t.CompressedGoTo != nil
}
