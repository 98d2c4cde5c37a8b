// Package business classifies phone numbers as business or personal lines
// by searching the web for them through the serper.dev Google Search API.
package business

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"dnclcli/internal/config"
)

const serperSearchURL = "https://google.serper.dev/search"

// Status classifies a phone line.
type Status string

const (
	StatusBusiness    Status = "Business"
	StatusNotBusiness Status = "Not Business"
	StatusUnknown     Status = "Unknown"
)

// CheckResult is the outcome of a business-line lookup.
type CheckResult struct {
	Phone          string
	Status         Status
	BusinessName   string
	Source         string
	Err            string
	MatchScore     float64 // 0-100 confidence in the company match
	CompanyMatched bool    // whether the input row's company name matched
}

// searchResponse is the subset of the Serper payload we read.
type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
	KnowledgeGraph struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"knowledgeGraph"`
	Places []struct {
		Title string `json:"title"`
	} `json:"places"`
}

// Checker queries Serper for phone numbers. A zero API key disables it.
type Checker struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewChecker creates a Serper-backed business checker.
func NewChecker(cfg config.SerperConfig, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Warn("Serper API key not set, business checking disabled")
	}
	return &Checker{
		apiKey:  cfg.APIKey,
		baseURL: serperSearchURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// IsConfigured reports whether an API key is available.
func (c *Checker) IsConfigured() bool {
	return c.apiKey != ""
}

// CheckPhone searches for the quoted phone number and decides whether it
// belongs to a business. company is the row's company name, used for fuzzy
// matching against the search results.
func (c *Checker) CheckPhone(ctx context.Context, phone, company string) CheckResult {
	if !c.IsConfigured() {
		return CheckResult{Phone: phone, Status: StatusUnknown, Err: "Serper API key not configured"}
	}

	payload, err := json.Marshal(map[string]any{
		"q":   fmt.Sprintf("%q", phone),
		"gl":  "ca",
		"hl":  "en",
		"num": 10,
	})
	if err != nil {
		return CheckResult{Phone: phone, Status: StatusUnknown, Err: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return CheckResult{Phone: phone, Status: StatusUnknown, Err: err.Error()}
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Searching for phone number", slog.String("phone", phone))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Serper request failed", slog.String("error", err.Error()))
		return CheckResult{Phone: phone, Status: StatusUnknown, Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Serper API error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(body)))
		return CheckResult{
			Phone:  phone,
			Status: StatusUnknown,
			Err:    fmt.Sprintf("API error: %d", resp.StatusCode),
		}
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return CheckResult{Phone: phone, Status: StatusUnknown, Err: err.Error()}
	}

	return analyzeResults(phone, &data, strings.TrimSpace(company))
}

// businessIndicators in titles, snippets or links suggest a business line.
var businessIndicators = []string{
	"business", "company", "inc", "ltd", "corp", "llc",
	"store", "shop", "restaurant", "service", "clinic",
	"office", "agency", "firm", "group", "solutions",
	"contact us", "call us", "our phone", "reach us",
	"hours of operation", "business hours",
}

var knowledgeGraphBusinessTypes = []string{
	"company", "business", "organization", "corporation",
	"store", "restaurant", "service", "shop",
}

// analyzeResults decides Business/Not Business from the search payload.
// Places and knowledge-graph hits are the strongest signals; organic results
// count indicator words and fall back to the company-name match.
func analyzeResults(phone string, data *searchResponse, company string) CheckResult {
	bestScore := 0.0
	companyMatched := false

	match := func(text string) {
		if company == "" {
			return
		}
		if score := fuzzyMatch(company, text); score >= 50 {
			companyMatched = true
			if score > bestScore {
				bestScore = score
			}
		}
	}

	if len(data.Places) > 0 {
		name := data.Places[0].Title
		match(name)
		score := 70.0
		if companyMatched {
			score = bestScore
		}
		return CheckResult{
			Phone: phone, Status: StatusBusiness, BusinessName: name,
			Source: "Google Places", MatchScore: score, CompanyMatched: companyMatched,
		}
	}

	if data.KnowledgeGraph.Title != "" {
		match(data.KnowledgeGraph.Title)
		kgType := strings.ToLower(data.KnowledgeGraph.Type)
		for _, bt := range knowledgeGraphBusinessTypes {
			if strings.Contains(kgType, bt) {
				score := 65.0
				if companyMatched {
					score = bestScore
				}
				return CheckResult{
					Phone: phone, Status: StatusBusiness, BusinessName: data.KnowledgeGraph.Title,
					Source: "Knowledge Graph", MatchScore: score, CompanyMatched: companyMatched,
				}
			}
		}
	}

	if len(data.Organic) == 0 {
		return CheckResult{
			Phone: phone, Status: StatusNotBusiness,
			Source: "No search results", MatchScore: 20,
		}
	}

	top := data.Organic
	if len(top) > 5 {
		top = top[:5]
	}

	for _, r := range top {
		match(r.Title)
		match(r.Snippet)
	}

	for _, r := range top {
		combined := strings.ToLower(r.Title + " " + r.Snippet + " " + r.Link)
		matches := 0
		for _, ind := range businessIndicators {
			if strings.Contains(combined, ind) {
				matches++
			}
		}
		if matches >= 2 {
			score := 60.0
			if companyMatched {
				score = bestScore
			}
			return CheckResult{
				Phone: phone, Status: StatusBusiness, BusinessName: r.Title,
				Source: "Organic Search", MatchScore: score, CompanyMatched: companyMatched,
			}
		}
	}

	if companyMatched {
		return CheckResult{
			Phone: phone, Status: StatusBusiness, BusinessName: data.Organic[0].Title,
			Source: "Company Match", MatchScore: bestScore, CompanyMatched: true,
		}
	}

	return CheckResult{
		Phone: phone, Status: StatusNotBusiness,
		Source: "No company match", MatchScore: 30,
	}
}

// fuzzyMatchStopWords are corporate suffixes and filler that carry no signal.
var fuzzyMatchStopWords = map[string]struct{}{
	"inc": {}, "ltd": {}, "llc": {}, "corp": {},
	"the": {}, "and": {}, "of": {}, "a": {}, "an": {},
}

// fuzzyMatch scores the similarity of two names from 0 to 100: exact match,
// containment, then word overlap with stop words removed.
func fuzzyMatch(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 100
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 85
	}

	wordsA := significantWords(a)
	wordsB := significantWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}

	denom := len(wordsA)
	if len(wordsB) > denom {
		denom = len(wordsB)
	}

	return float64(common) / float64(denom) * 100
}

func significantWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if _, stop := fuzzyMatchStopWords[w]; !stop {
			words[w] = struct{}{}
		}
	}
	return words
}
