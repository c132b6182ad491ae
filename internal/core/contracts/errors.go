package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableInput indica um arquivo que não pôde ser lido como tabela.
	ErrUnreadableInput = errors.New("arquivo ilegível")
	// ErrEmptyResult indica que nenhuma linha sobreviveu aos filtros.
	ErrEmptyResult = errors.New("nenhum contrato restou após a aplicação dos filtros")
	// ErrNoFiles indica uma requisição sem arquivos.
	ErrNoFiles = errors.New("nenhum arquivo enviado")
)

// ReadError associa a falha de leitura ao nome do arquivo enviado.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("erro ao ler o arquivo %q: %v", e.Filename, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is faz errors.Is(err, ErrUnreadableInput) valer para qualquer ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrUnreadableInput }
