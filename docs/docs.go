// Package docs registra a especificação OpenAPI servida em /swagger/.
// Regerar com: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/inventory/api/shelves": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shelves"],
                "summary": "Lista o catálogo de prateleiras",
                "parameters": [
                    {"type": "integer", "description": "ID da loja", "name": "store_id", "in": "query", "required": true},
                    {"type": "string", "description": "ID da área", "name": "area_id", "in": "query"},
                    {"type": "string", "description": "Faixa de temperatura (AMB, CHILL, FREEZE)", "name": "temp_zone", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Catálogo de prateleiras", "schema": {"$ref": "#/definitions/domain.ShelfCatalogResponse"}},
                    "400": {"description": "store_id ausente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/inventory/api/layout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Layout de localizações da loja",
                "parameters": [
                    {"type": "integer", "description": "ID da loja", "name": "store_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Layout da loja"},
                    "400": {"description": "store_id ausente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/inventory/api/item-location": {
            "get": {
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Consulta a localização de um item",
                "parameters": [
                    {"type": "integer", "description": "ID da loja", "name": "store_id", "in": "query", "required": true},
                    {"type": "integer", "description": "ID do item", "name": "item_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Localização do item"},
                    "400": {"description": "store_id/item_id ausentes", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/inventory/reorder-items": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Grava a ordem dos itens de uma prateleira",
                "parameters": [
                    {"description": "Loja, prateleira e ordem final dos itens", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ReorderRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ordem gravada"},
                    "400": {"description": "Parâmetros ausentes ou inválidos", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/inventory/locations/save": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Grava as atribuições de localização",
                "responses": {
                    "200": {"description": "Atribuições gravadas"},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/inventory/locations/sort": {
            "get": {
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Consulta a ordenação de itens da loja",
                "responses": {"200": {"description": "Ordenação configurada"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["placement"],
                "summary": "Grava a ordenação de itens da loja",
                "responses": {
                    "200": {"description": "Ordenação gravada"},
                    "400": {"description": "Chave ou direção inválida", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/editor/pages": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["editor"],
                "summary": "Abre uma página do editor de localizações",
                "responses": {"201": {"description": "Página aberta"}}
            }
        },
        "/v1/editor/pages/{page}/sessions/{session}/commit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["editor"],
                "summary": "Grava a ordem final da prateleira",
                "responses": {
                    "200": {"description": "Ordem gravada"},
                    "502": {"description": "Backend recusou a gravação"}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": false},
                "code": {"type": "integer", "example": 400},
                "category": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string", "example": "Erro de Validação: store_id é obrigatório"}
            }
        },
        "domain.Shelf": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "temp_zone": {"type": "string"},
                "area_id": {"type": "integer"},
                "sort_order": {"type": "integer"}
            }
        },
        "domain.ShelfCatalogResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "shelves": {"type": "array", "items": {"$ref": "#/definitions/domain.Shelf"}}
            }
        },
        "domain.ReorderRequest": {
            "type": "object",
            "properties": {
                "store_id": {"type": "integer"},
                "shelf_id": {"type": "integer"},
                "item_ids": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "shelfmap API",
	Description:      "Catálogo de prateleiras, atribuições de localização e reordenação de itens por loja.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
