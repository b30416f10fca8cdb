// Package messages integra el servicio de celebraciones/mensajes de la pareja.
// Todas las llamadas son best-effort: el caller loguea y sigue.
package messages

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"couple-pet-care/internal/platform/httpclient"
	"couple-pet-care/internal/ports/notify"
)

const defaultAPIKeyHeader = "X-Api-Key"

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http:   httpclient.New(baseURL, 5*time.Second),
		apiKey: apiKey,
	}
}

type careMessage struct {
	PetID       string `json:"pet_id"`
	CoupleID    string `json:"couple_id"`
	ActorUserID string `json:"actor_user_id"`
	ActionType  string `json:"action_type"`
	XPAwarded   int    `json:"xp_awarded"`
	CoopBonus   bool   `json:"coop_bonus"`
}

type evolutionMessage struct {
	PetID         string `json:"pet_id"`
	CoupleID      string `json:"couple_id"`
	PreviousStage string `json:"previous_stage"`
	NewStage      string `json:"new_stage"`
	MilestoneType string `json:"milestone_type"`
}

func (c *Client) CarePerformed(ctx context.Context, ev notify.CareEvent) error {
	return c.post(ctx, "/v1/messages/care", careMessage{
		PetID:       ev.PetID,
		CoupleID:    ev.CoupleID,
		ActorUserID: ev.ActorUserID,
		ActionType:  ev.ActionType,
		XPAwarded:   ev.XPAwarded,
		CoopBonus:   ev.CoopBonus,
	})
}

func (c *Client) EvolutionReached(ctx context.Context, ev notify.EvolutionEvent) error {
	return c.post(ctx, "/v1/messages/evolution", evolutionMessage{
		PetID:         ev.PetID,
		CoupleID:      ev.CoupleID,
		PreviousStage: ev.PreviousStage,
		NewStage:      ev.NewStage,
		MilestoneType: ev.MilestoneType,
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers[defaultAPIKeyHeader] = c.apiKey
	}

	status, err := c.http.DoJSON(ctx, http.MethodPost, path, headers, body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("messages service: status %d", status)
	}
	return nil
}
