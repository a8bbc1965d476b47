package service

import "errors"

// Errores que los handlers traducen a códigos HTTP concretos. Todo lo demás
// se trata como error interno.
var (
	ErrFaltanCampos     = errors.New("faltan campos obligatorios")
	ErrCelularDuplicado = errors.New("el celular ya existe en la base de datos")
	ErrNombreDuplicado  = errors.New("ya existe un contacto registrado con ese nombre")
	ErrAccesoRevocado   = errors.New("acceso revocado")
)

// Resultado is the outcome of a webhook operation. Procesado false means the
// event was acknowledged but skipped, with Motivo saying why; the sender must
// not retry those.
type Resultado struct {
	Procesado bool
	Motivo    string
}

func procesado() *Resultado { return &Resultado{Procesado: true} }

func omitido(motivo string) *Resultado { return &Resultado{Procesado: false, Motivo: motivo} }
