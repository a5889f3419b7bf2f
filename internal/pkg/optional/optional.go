// Package optional fornece um valor tipado que pode estar ausente.
// Substitui checagens ad hoc de nil para dados parciais (linhas sem identificador,
// campos de formulário inexistentes).
package optional

import (
	"bytes"
	"encoding/json"
)

// Value contém um T ou nada.
type Value[T any] struct {
	v  T
	ok bool
}

// Some cria um valor presente.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None cria um valor ausente.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get devolve o valor e se ele está presente.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSome indica presença.
func (o Value[T]) IsSome() bool {
	return o.ok
}

// OrElse devolve o valor ou def quando ausente.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// MarshalJSON codifica ausência como null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON decodifica null como ausência.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
