package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/deppfellow/superhero-catalog/internal/model"
)

// SuperheroInput is the body of create and update calls. Update sends every
// field, so it replaces the whole record.
type SuperheroInput struct {
	Nickname          string   `json:"nickname"`
	RealName          string   `json:"real_name"`
	OriginDescription string   `json:"origin_description"`
	Superpowers       []string `json:"superpowers"`
	CatchPhrase       string   `json:"catch_phrase"`
	Images            []string `json:"images"`
}

type SuperheroPage = model.PaginatedResponse[model.SuperheroSummary]

func (c *Client) ListSuperheroes(ctx context.Context, page, limit int) (*SuperheroPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out SuperheroPage
	if err := c.do(ctx, http.MethodGet, "superheroes", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSuperhero(ctx context.Context, id string) (*model.Superhero, error) {
	var out model.Superhero
	if err := c.do(ctx, http.MethodGet, "superheroes/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSuperhero(ctx context.Context, input *SuperheroInput) (*model.Superhero, error) {
	var out model.Superhero
	if err := c.do(ctx, http.MethodPost, "superheroes", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSuperhero(ctx context.Context, id string, input *SuperheroInput) (*model.Superhero, error) {
	var out model.Superhero
	if err := c.do(ctx, http.MethodPut, "superheroes/"+id, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSuperhero(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "superheroes/"+id, nil, nil, nil)
}
