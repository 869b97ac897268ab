package domain

import "errors"

var (
	// ErrNotFound indica que a entidade pedida não existe no armazenamento.
	ErrNotFound = errors.New("registro nao encontrado")

	// ErrTurnoDuplicado sinaliza a violação do índice único (debate, turno):
	// dois avanços concorrentes computaram o mesmo turno e apenas um venceu.
	ErrTurnoDuplicado = errors.New("turno ja registrado para o debate")

	// ErrVotoDuplicado sinaliza a violação do índice único (debate, votante).
	ErrVotoDuplicado = errors.New("voto ja registrado para este votante")
)
