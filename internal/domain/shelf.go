package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ref é uma referência textual a outra entidade (área, prateleira).
// Aceita número, string ou null no JSON; ausência e null viram "".
// Comparações são sempre feitas pelo texto, sem depender do tipo escalar do ID.
type Ref string

// RefFromInt converte um ID numérico em Ref. Zero ou negativo significa "sem referência".
func RefFromInt(id int64) Ref {
	if id <= 0 {
		return ""
	}
	return Ref(strconv.FormatInt(id, 10))
}

// String devolve o texto da referência.
func (r Ref) String() string { return string(r) }

// IsZero indica referência vazia.
func (r Ref) IsZero() bool { return strings.TrimSpace(string(r)) == "" }

// Int64 interpreta a referência como ID numérico.
func (r Ref) Int64() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(r)), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON aceita 5, "5" e null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("referência inválida %s: %w", string(data), err)
	}
	*r = Ref(n.String())
	return nil
}

// MarshalJSON emite número quando a referência é numérica, string caso contrário e null se vazia.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(r), 10, 64); err == nil {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

// Shelf é uma prateleira física de uma loja. Imutável depois de carregada.
type Shelf struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	TempZone  string `json:"temp_zone"`
	AreaID    Ref    `json:"area_id"`
	SortOrder int    `json:"sort_order"`
}

// Label é o texto exibido no seletor: só o código quando o nome está em branco.
func (s Shelf) Label() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return s.Code
	}
	return s.Code + " " + name
}

// ShelfFilter define os parâmetros de busca do catálogo.
// AreaID e TempZone são opcionais; StoreID é obrigatório.
type ShelfFilter struct {
	StoreID  int64
	AreaID   string
	TempZone string
}

// Unfiltered indica que apenas a loja foi informada (caso cacheável).
func (f ShelfFilter) Unfiltered() bool {
	return f.AreaID == "" && f.TempZone == ""
}

// ShelfCatalogResponse é o corpo do endpoint de catálogo de prateleiras.
type ShelfCatalogResponse struct {
	OK      bool    `json:"ok"`
	Shelves []Shelf `json:"shelves"`
}
