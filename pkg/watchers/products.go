package watchers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/pkg/adminapi"
)

const (
	WatchTypeProducts = "products"

	defaultPublishedState = "any"
)

// productsPoller lists recently updated products from the admin API. The raw
// body_html is carried on the resource for downstream summary enrichment.
type productsPoller struct {
	client StoreClient
}

// NewProductsPoller builds a poller for product watches.
func NewProductsPoller(client StoreClient) Poller {
	return &productsPoller{client: client}
}

func (p *productsPoller) ID() string {
	return WatchTypeProducts
}

type productRecord struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	BodyHTML  string    `json:"body_html"`
	Vendor    string    `json:"vendor"`
	UpdatedAt time.Time `json:"updated_at"`
}

type productsPage struct {
	Products []productRecord `json:"products"`
}

func (p *productsPoller) Poll(ctx context.Context, w Watch) ([]domain.Resource, error) {
	if !strings.EqualFold(w.Type, WatchTypeProducts) {
		return nil, fmt.Errorf("products poller received incompatible watch type %q", w.Type)
	}
	if p.client == nil {
		return nil, fmt.Errorf("products poller has no store client")
	}

	query := url.Values{}
	query.Set("published_state", ConfigString(w, ConfigPublishedStateKey, defaultPublishedState))
	query.Set("limit", strconv.Itoa(w.Limit))

	endpoint := ConfigString(w, ConfigEndpointKey, "products")

	var page productsPage
	if err := p.client.Get(ctx, endpoint, &adminapi.RequestOptions{Query: query}, &page); err != nil {
		return nil, fmt.Errorf("fetch products for watch %s: %w", w.ID, err)
	}

	return buildProductResources(page.Products), nil
}

func buildProductResources(products []productRecord) []domain.Resource {
	resources := make([]domain.Resource, 0, len(products))
	for _, rec := range products {
		externalID := strconv.FormatInt(rec.ID, 10)

		label := strings.TrimSpace(rec.Title)
		if label == "" {
			label = "Product " + externalID
		}
		if vendor := strings.TrimSpace(rec.Vendor); vendor != "" {
			label += " by " + vendor
		}

		resources = append(resources, domain.Resource{
			ID:          domain.NewResourceID(domain.KindProduct, externalID, rec.UpdatedAt),
			Kind:        domain.KindProduct,
			ExternalID:  externalID,
			Label:       label,
			AdminPath:   "products/" + externalID,
			SummaryHTML: rec.BodyHTML,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	return resources
}
