package handlers

import (
	svc "github.com/slidecraft/deck-decomposer/internal/service/decompose"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
)

type Handlers struct {
	Decompose *DecomposeHandler
}

func NewHandlers(
	decomposeService svc.Service,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Decompose: NewDecomposeHandler(decomposeService, logger),
	}
}
