package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/TheAndersMadsen/shopify-monitor/internal/htmltext"
	"github.com/TheAndersMadsen/shopify-monitor/internal/logger"
	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

const (
	colorNew    = 3066993  // green
	colorUpdate = 16776960 // yellow

	monitorUsername = "Shopify Monitor"
	monitorIconURL  = "https://cdn.shopify.com/s/files/1/0533/2089/files/shopify-icon.png"

	// variantFieldCap is the downstream renderer's field-length limit; a
	// longer block is cut at variantFieldCut and suffixed with "...".
	variantFieldCap = 1024
	variantFieldCut = 1020

	deliveryTimeout = 15 * time.Second
)

// webhookPayload is the outbound notification document for an
// embed-rendering webhook consumer.
type webhookPayload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Embeds    []embed `json:"embeds"`
}

type embed struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Color       int       `json:"color"`
	Description string    `json:"description,omitempty"`
	Thumbnail   thumbnail `json:"thumbnail"`
	Fields      []field   `json:"fields"`
	Footer      footer    `json:"footer"`
	Timestamp   string    `json:"timestamp"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

// Webhook delivers change notifications as JSON embeds to the URL carried
// by each event. An event without a target URL is a dry run: logged,
// counted as handled, no network call.
type Webhook struct {
	bcast  *logger.Broadcaster
	client *http.Client
}

func NewWebhook(bcast *logger.Broadcaster) *Webhook {
	return &Webhook{bcast: bcast, client: &http.Client{Timeout: deliveryTimeout}}
}

func (w *Webhook) Send(ctx context.Context, event Event) error {
	payload := buildPayload(event)

	if event.Target == "" {
		w.bcast.Warning(fmt.Sprintf("[Dry Run] Webhook for %s (Configure URL to send)", event.Product.Title))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		w.bcast.Error(fmt.Sprintf("Failed to send webhook: %v", err))
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, event.Target, bytes.NewReader(body))
	if err != nil {
		w.bcast.Error(fmt.Sprintf("Failed to send webhook: %v", err))
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.client.Do(req)
	if err != nil {
		w.bcast.Error(fmt.Sprintf("Failed to send webhook: %v", err))
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("webhook delivery status: [%d] %s", res.StatusCode, res.Status)
		w.bcast.Error(fmt.Sprintf("Failed to send webhook: %v", err))
		return err
	}

	w.bcast.Success(fmt.Sprintf("Sent webhook for %s", event.Product.Title))

	return nil
}

// buildPayload renders an event into the outbound embed document.
func buildPayload(event Event) webhookPayload {
	color := colorUpdate
	if event.Kind == models.EventNew {
		color = colorNew
	}

	imageURL := ""
	if len(event.Product.Images) > 0 {
		imageURL = event.Product.Images[0].Src
	}

	description := ""
	if event.Changes != "" {
		description = "**Changes Detected:**\n" + event.Changes
	}

	return webhookPayload{
		Username:  monitorUsername,
		AvatarURL: monitorIconURL,
		Embeds: []embed{{
			Title:       fmt.Sprintf("[%s] %s", event.Kind, htmltext.Normalize(event.Product.Title)),
			URL:         ProductURL(event.Site, event.Product),
			Color:       color,
			Description: description,
			Thumbnail:   thumbnail{URL: imageURL},
			Fields: []field{{
				Name:   "Variants",
				Value:  variantBlock(event.Site, event.Product.Variants),
				Inline: false,
			}},
			Footer:    footer{Text: "Monitor • " + domain(event.Site), IconURL: monitorIconURL},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
}

// variantBlock renders the per-variant status/price/add-to-cart section,
// capped at the downstream field-length limit.
func variantBlock(site string, variants []models.Variant) string {
	var block string
	for _, v := range variants {
		atc := site + "/cart/" + strconv.FormatInt(v.ID, 10) + ":1"
		icon := "🔴"
		if v.Available {
			icon = "🟢"
		}
		block += fmt.Sprintf("%s **%s** - $%s\n[Add To Cart](%s)\n\n",
			icon, htmltext.Normalize(v.Title), v.Price, atc)
	}

	if block == "" {
		return "No variants"
	}

	if runes := []rune(block); len(runes) > variantFieldCap {
		block = string(runes[:variantFieldCut]) + "..."
	}

	return block
}
