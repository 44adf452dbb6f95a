package service

import "errors"

var (
	ErrInvalidPreference  = errors.New("preferencia inválida")
	ErrInvalidMaxPayment  = errors.New("pago mensual máximo inválido")
	ErrNoAffordableTenure = errors.New("no se encontraron plazos válidos con el pago mensual máximo especificado")
)
