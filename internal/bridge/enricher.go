package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/internal/logger"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"

	"github.com/PuerkitoBio/goquery"
)

// defaultSummaryLength caps the plain-text summary attached to events.
const defaultSummaryLength = 280

// SummaryEnricher derives plain-text summaries from the HTML blobs the admin
// API returns for some resources (product descriptions, order notes).
type SummaryEnricher struct {
	log logger.Logger
}

// NewSummaryEnricher constructs an enricher. log may be nil.
func NewSummaryEnricher(log logger.Logger) *SummaryEnricher {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &SummaryEnricher{log: log}
}

// Enrich fills Summary for resources that carry raw HTML and have no summary
// yet. Resources that fail to parse keep their original fields.
func (e *SummaryEnricher) Enrich(ctx context.Context, w watchers.Watch, resources []domain.Resource) []domain.Resource {
	out := append([]domain.Resource(nil), resources...)

	for i, res := range out {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if res.Summary != "" || strings.TrimSpace(res.SummaryHTML) == "" {
			continue
		}

		summary, err := summarizeHTML(res.SummaryHTML)
		if err != nil {
			e.log.WarnObj("resource summary extraction failed", "summary_error", map[string]any{
				"watcher_id":  w.ID,
				"resource_id": res.ID,
				"error":       err.Error(),
			})
			continue
		}
		out[i].Summary = summary
	}

	return out
}

// summarizeHTML strips markup, collapses whitespace and truncates the result
// at a word boundary.
func summarizeHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncateAtWord(text, defaultSummaryLength), nil
}

func truncateAtWord(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
