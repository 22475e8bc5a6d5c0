// Package anilist содержит клиент GraphQL API AniList и подготовку списка кандидатов.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tempizhere/smashorpass/internal/models"
	"go.uber.org/zap"
)

// DefaultEndpoint публичный адрес GraphQL API AniList
const DefaultEndpoint = "https://graphql.anilist.co"

// charactersPerPage максимальный размер страницы AniList
const charactersPerPage = 50

var (
	ErrGraphQL          = errors.New("anilist graphql error")
	ErrUnexpectedStatus = errors.New("unexpected anilist response status")
	ErrEmptyUsername    = errors.New("empty username")
)

const characterFields = `
              id
              name {
                full
                native
              }
              image {
                large
              }
              gender
              age
              bloodType
              dateOfBirth {
                year
                month
                day
              }
              description
              favourites
              modNotes
              siteUrl`

const collectionQuery = `query ($userName: String, $type: MediaType, $sort: [CharacterSort], $role: CharacterRole) {
  MediaListCollection(userName: $userName, type: $type) {
    lists {
      entries {
        media {
          title {
            english
            native
          }
          characters(sort: $sort, role: $role) {
            nodes {` + characterFields + `
            }
          }
          siteUrl
        }
      }
      name
      status
    }
  }
}`

const charactersQuery = `query ($ids: [Int], $perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    characters(id_in: $ids) {` + characterFields + `
    }
  }
}`

// Client выполняет запросы к AniList
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиента. Нулевой timeout означает отсутствие ограничения.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do отправляет запрос и разбирает поле data в out
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("AniList request failed", zap.Error(err))
		return fmt.Errorf("anilist request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read anilist response: %w", err)
	}
	c.logger.Debug("AniList response",
		zap.Int("status", resp.StatusCode),
		zap.Int("size", len(raw)),
		zap.Duration("duration", time.Since(start)),
	)

	var gr graphQLResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return fmt.Errorf("decode anilist response: %w", err)
	}
	if len(gr.Errors) > 0 {
		c.logger.Warn("AniList returned errors",
			zap.String("message", gr.Errors[0].Message),
			zap.Int("status", gr.Errors[0].Status),
		)
		return fmt.Errorf("%w: %s", ErrGraphQL, gr.Errors[0].Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decode anilist data: %w", err)
	}
	return nil
}

// FetchCollection загружает аниме-список пользователя и строит из него кандидатов
func (c *Client) FetchCollection(ctx context.Context, username string, opts QueryOptions) ([]models.Candidate, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}

	variables := map[string]any{
		"userName": username,
		"type":     "ANIME",
		"sort":     "RELEVANCE",
	}
	if opts.Role != "" && opts.Role != RoleAll {
		variables["role"] = string(opts.Role)
	}

	c.logger.Info("Fetching AniList collection",
		zap.String("username", username),
		zap.String("role", string(opts.Role)),
	)

	var data CollectionData
	if err := c.do(ctx, collectionQuery, variables, &data); err != nil {
		return nil, err
	}

	candidates := BuildCandidates(data, opts)
	c.logger.Info("AniList collection fetched",
		zap.String("username", username),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// FetchCharacters загружает персонажей по id, порциями по charactersPerPage
func (c *Client) FetchCharacters(ctx context.Context, ids []int) ([]models.Character, error) {
	var out []models.Character
	for start := 0; start < len(ids); start += charactersPerPage {
		end := min(start+charactersPerPage, len(ids))

		var data struct {
			Page struct {
				Characters []models.Character `json:"characters"`
			} `json:"Page"`
		}
		variables := map[string]any{
			"ids":     ids[start:end],
			"perPage": charactersPerPage,
		}
		if err := c.do(ctx, charactersQuery, variables, &data); err != nil {
			return nil, err
		}
		out = append(out, data.Page.Characters...)
	}
	return out, nil
}
