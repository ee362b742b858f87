package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction           = newSemanticError("a grammar needs at least one production")
	semErrInvalidStartProduction = newSemanticError("the first production must be the only production of the augmented start symbol and have exactly one RHS symbol")
	semErrReservedName           = newSemanticError("a reserved name cannot be used as a symbol")
	semErrMisplacedEpsilon       = newSemanticError("epsilon must be the only symbol of an RHS")
	semErrDuplicateProduction    = newSemanticError("duplicate production")
	semErrUnusedProduction       = newSemanticError("unused production")
)
