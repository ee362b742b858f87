package grammar

import "fmt"

type slr1Automaton struct {
	*lr0Automaton
}

// genSLR1Automaton sets FOLLOW(A) as the look-ahead symbols of every reducible item A → α・.
func genSLR1Automaton(lr0 *lr0Automaton, prods *productionSet, follow *followSet) (*slr1Automaton, error) {
	for _, state := range lr0.order {
		for _, item := range state.reducible {
			prod, ok := prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", item.prod)
			}

			flw, err := follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}

			if item.lookAhead.symbols == nil {
				item.lookAhead.symbols = map[symbol]struct{}{}
			}
			for _, sym := range flw.lookAheadSymbols() {
				item.lookAhead.symbols[sym] = struct{}{}
			}
		}
	}

	return &slr1Automaton{
		lr0Automaton: lr0,
	}, nil
}
