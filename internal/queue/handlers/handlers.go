package handlers

import "github.com/proofmark/proofmark/internal/usecase"

// Handlers contains all queue task handlers
type Handlers struct {
	usecase usecase.Usecase
}

// NewHandlers creates a new handlers instance
func NewHandlers(uc usecase.Usecase) *Handlers {
	return &Handlers{
		usecase: uc,
	}
}
