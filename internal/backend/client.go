// Package backend é o cliente HTTP do editor para os endpoints de inventário:
// catálogo de prateleiras, layout da loja, gravação de ordem e de atribuições.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/token"
)

const maxErrorBody = 4 << 10

// StatusError é uma resposta fora da faixa 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend respondeu %d: %s", e.StatusCode, e.Body)
}

// TokenIssuer emite o token de serviço usado nas chamadas de escrita.
type TokenIssuer interface {
	GenerateToken(subject string, role string) (string, error)
}

// Client conversa com o backend de inventário.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenIssuer
}

// NewClient cria o cliente. tokens pode ser nil quando o backend não exige autenticação.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenIssuer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// shelfCatalogBody aceita o catálogo com ou sem "ok"; só ok:false explícito é recusa.
type shelfCatalogBody struct {
	OK      *bool          `json:"ok"`
	Shelves []domain.Shelf `json:"shelves"`
}

// FetchShelves busca o catálogo de prateleiras ativas da loja.
func (c *Client) FetchShelves(ctx context.Context, storeID string) ([]domain.Shelf, error) {
	var out shelfCatalogBody
	q := url.Values{"store_id": {storeID}}
	if err := c.do(ctx, http.MethodGet, "/inventory/api/shelves?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.OK != nil && !*out.OK {
		return nil, fmt.Errorf("catálogo de prateleiras recusado para a loja %s", storeID)
	}
	return out.Shelves, nil
}

// FetchLayout busca as seções de prateleira e as linhas de atribuição da loja.
func (c *Client) FetchLayout(ctx context.Context, storeID int64) (domain.StoreLayout, error) {
	var out domain.StoreLayout
	q := url.Values{"store_id": {strconv.FormatInt(storeID, 10)}}
	if err := c.do(ctx, http.MethodGet, "/inventory/api/layout?"+q.Encode(), nil, &out); err != nil {
		return domain.StoreLayout{}, err
	}
	return out, nil
}

// CommitOrder envia a ordem final de uma prateleira. Qualquer resposta não-2xx é falha.
func (c *Client) CommitOrder(ctx context.Context, req domain.ReorderRequest) error {
	return c.do(ctx, http.MethodPost, "/inventory/reorder-items", req, nil)
}

// SaveAssignments grava faixa, área e prateleira dos itens.
func (c *Client) SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error {
	return c.do(ctx, http.MethodPost, "/inventory/locations/save", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("falha ao serializar a requisição: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("falha ao montar a requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil && method != http.MethodGet {
		signed, err := c.tokens.GenerateToken("shelfmap-editor", token.RoleService)
		if err != nil {
			return fmt.Errorf("falha ao emitir token de serviço: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("falha na chamada %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("resposta malformada de %s: %w", path, err)
	}
	return nil
}
