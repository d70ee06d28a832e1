package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/namekart/lead-gen-deep-research/internal/model"
	"github.com/namekart/lead-gen-deep-research/pkg/anthropic"
)

// maxContentChars bounds how much raw page content goes into the prompt.
const maxContentChars = 4000

const systemPrompt = `You are a lead qualification analyst. From the website details you are given, extract a single high-quality B2B lead ONLY if the site appears to be an actual operating business.

CRITICAL REJECTION CRITERIA - return {} if ANY of these apply:
1. Domain-for-sale pages: "THIS DOMAIN NAME IS FOR SALE", "Make an Offer", "Buy this domain", brokerage services (Sedo, Afternic, GoDaddy Auctions), pricing/offer forms.
2. Parked domains: generic parking pages, placeholder content, "Under Construction".
3. Personal blogs: personal websites, individual portfolios, non-business content.
4. Directories/aggregators: business directories, listing sites, content farms.
5. Inactive/placeholder: no real business operations.

ACCEPTANCE CRITERIA - extract only if ALL apply:
- The site represents an actual operating business with products/services.
- There is substantial business content, not just a landing page.
- The content is about the business itself, not about selling the domain.

Return a JSON object with EXACT keys: website, detailed_summary, rationale, tier, meta_data, email_template.
- detailed_summary: 2-4 sentences on offering, target customers, differentiators, grounded in the content.
- rationale: 1-2 sentences on why this is a relevant buyer.
- tier: "Tier 1"|"Tier 2"|"Tier 3".
- meta_data: object (optional fields: domain, title, signals).
- email_template: a short personalized outreach email (100-150 words) using template variables {{first_name}}, {{company_name}}, {{website}}.

Return ONLY the JSON object, with no extra text.`

// ClaudeOracle extracts lead records with an Anthropic model.
type ClaudeOracle struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ Oracle = (*ClaudeOracle)(nil)

// NewClaudeOracle creates a Claude-backed extraction oracle.
func NewClaudeOracle(client anthropic.Client, modelName string, maxTokens int64) *ClaudeOracle {
	return &ClaudeOracle{client: client, model: modelName, maxTokens: maxTokens}
}

func (o *ClaudeOracle) ExtractLead(ctx context.Context, check model.ContentCheckResult, guidance string) (*model.Lead, error) {
	resp, err := o.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(check, guidance)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: oracle call")
	}
	resp.Usage.LogUsage(o.model, "extract")

	return parseLead(resp.Text, check.Domain)
}

// buildPrompt assembles the per-site user message. Content is truncated so a
// single oversized page cannot blow the prompt.
func buildPrompt(check model.ContentCheckResult, guidance string) string {
	content := check.Content
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	candidateURL := check.URL
	if candidateURL == "" && check.Domain != "" {
		candidateURL = "https://" + check.Domain
	}

	var b strings.Builder
	if guidance != "" {
		fmt.Fprintf(&b, "CLASSIFICATION GUIDANCE:\n%s\n\n", guidance)
	}
	fmt.Fprintf(&b, "website MUST be exactly: %s\n\n", candidateURL)
	fmt.Fprintf(&b, "Website:\ndomain: %s\nurl: %s\ntitle: %s\ndescription: %s\ncontent: %s\n",
		check.Domain, check.URL, check.Title, check.Description, content)
	return b.String()
}

// parseLead interprets the oracle's reply. An empty object is a rejection; a
// populated record without a website is a contract violation and surfaces as
// an error.
func parseLead(text, domain string) (*model.Lead, error) {
	raw := stripFences(text)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, eris.Wrapf(err, "extract: non-JSON oracle reply for %s", domain)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	var lead model.Lead
	if err := json.Unmarshal([]byte(raw), &lead); err != nil {
		return nil, eris.Wrapf(err, "extract: malformed lead for %s", domain)
	}
	if lead.Website == "" {
		return nil, eris.Errorf("extract: oracle returned lead without website for %s", domain)
	}
	return &lead, nil
}

// stripFences removes a surrounding markdown code fence if the model added one.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
