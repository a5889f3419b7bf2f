package selector

// Textos dos placeholders do campo de prateleira.
const (
	PromptZone = "select a temperature zone"
	PromptArea = "select an area"
)

// Option é uma opção do campo de prateleira.
type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ShelfField é o estado renderizável do seletor de prateleira de uma linha.
type ShelfField struct {
	Options  []Option `json:"options"`
	Disabled bool     `json:"disabled"`
}

// Value devolve o valor da opção selecionada, ou "" se nenhuma.
func (f *ShelfField) Value() string {
	if f == nil {
		return ""
	}
	for _, o := range f.Options {
		if o.Selected {
			return o.Value
		}
	}
	return ""
}

// Clone devolve uma cópia independente do campo.
func (f *ShelfField) Clone() *ShelfField {
	if f == nil {
		return nil
	}
	return &ShelfField{
		Options:  append([]Option(nil), f.Options...),
		Disabled: f.Disabled,
	}
}

// RenderedField é o campo como a camada de exibição o entrega antes da primeira
// passada do controlador: uma opção em branco e, se houver, a prateleira já gravada.
func RenderedField(value string) *ShelfField {
	f := &ShelfField{Options: []Option{{}}}
	if value == "" {
		f.Options[0].Selected = true
		return f
	}
	f.Options = append(f.Options, Option{Label: value, Value: value, Selected: true})
	return f
}

// PendingField é o que todas as linhas mostram enquanto o catálogo não chegou.
func PendingField() *ShelfField {
	return placeholder(PromptZone)
}

func placeholder(prompt string) *ShelfField {
	return &ShelfField{
		Options:  []Option{{Label: prompt, Value: "", Selected: true, Disabled: true}},
		Disabled: true,
	}
}
