package memory

import (
	"github.com/secmon-lab/factbase/pkg/domain/interfaces"
)

// Memory is an in-process repository. Data is lost when the process exits.
type Memory struct {
	fact *factRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		fact: newFactRepository(),
	}
}

func (m *Memory) Fact() interfaces.FactRepository {
	return m.fact
}

func (m *Memory) Close() error {
	return nil
}
