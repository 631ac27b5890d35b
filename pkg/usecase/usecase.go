package usecase

import (
	"github.com/secmon-lab/factbase/pkg/domain/interfaces"
)

type UseCases struct {
	Fact *FactUseCase
}

func New(repo interfaces.Repository) *UseCases {
	return &UseCases{
		Fact: NewFactUseCase(repo),
	}
}
