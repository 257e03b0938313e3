package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// User-facing messages, shown verbatim by the front end and the CLI.
var (
	ErrEmptyID           = errors.New("Erreur : L'ID du client ne peut pas être vide.")
	ErrInvalidID         = errors.New("Erreur : L'ID du client doit être un entier valide.")
	ErrMalformedResponse = errors.New("Erreur : La réponse de l'API est mal formée.")
)

// APIError is a non-200 answer from the scoring API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Erreur dans la prédiction : Code %d - %s", e.Status, e.Body)
}

// ConnectionError means the API could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Erreur de connexion à l'API : %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Result is a successful prediction as returned by POST /predict.
type Result struct {
	Prediction        int             `json:"prediction"`
	Resultat          string          `json:"resultat"`
	Proba             *float64        `json:"proba,omitempty"`
	FeatureImportance json.RawMessage `json:"feature_importance,omitempty"`
}

// ParseClientID validates a client identifier typed by a user.
func ParseClientID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrEmptyID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

type Client struct {
	http    *resty.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration, apiKey string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		hc.SetHeader("X-API-Key", apiKey)
	}

	return &Client{http: hc, baseURL: baseURL}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Predict scores one client. Errors are *APIError, *ConnectionError or ErrMalformedResponse.
func (c *Client) Predict(ctx context.Context, clientID int64) (*Result, error) {
	log.WithFields(log.Fields{
		"url":       c.baseURL + "/predict",
		"client_id": clientID,
	}).Debug("requesting prediction")

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int64{"SK_ID_CURR": clientID}).
		Post("/predict")
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &fields); err != nil {
		return nil, ErrMalformedResponse
	}
	if _, ok := fields["resultat"]; !ok {
		return nil, ErrMalformedResponse
	}
	if _, ok := fields["prediction"]; !ok {
		return nil, ErrMalformedResponse
	}

	var result Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, ErrMalformedResponse
	}
	return &result, nil
}
