package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// O campo "ok" mantém compatibilidade com os clientes do catálogo e do reorder,
// que só olham para ele.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	OK       bool   `json:"ok" example:"false"`
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"VALIDATION_ERROR"`
	Message  string `json:"message" example:"Erro de Validação: store_id é obrigatório"`
}
