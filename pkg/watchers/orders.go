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
	WatchTypeOrders = "orders"

	defaultOrderStatus = "any"
)

// ordersPoller lists recent orders from the admin API.
type ordersPoller struct {
	client StoreClient
}

// NewOrdersPoller builds a poller for order watches.
func NewOrdersPoller(client StoreClient) Poller {
	return &ordersPoller{client: client}
}

func (p *ordersPoller) ID() string {
	return WatchTypeOrders
}

type orderRecord struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	Currency   string    `json:"currency"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ordersPage struct {
	Orders []orderRecord `json:"orders"`
}

func (p *ordersPoller) Poll(ctx context.Context, w Watch) ([]domain.Resource, error) {
	if !strings.EqualFold(w.Type, WatchTypeOrders) {
		return nil, fmt.Errorf("orders poller received incompatible watch type %q", w.Type)
	}
	if p.client == nil {
		return nil, fmt.Errorf("orders poller has no store client")
	}

	query := url.Values{}
	query.Set("status", ConfigString(w, ConfigStatusKey, defaultOrderStatus))
	query.Set("limit", strconv.Itoa(w.Limit))

	endpoint := ConfigString(w, ConfigEndpointKey, "orders")

	var page ordersPage
	if err := p.client.Get(ctx, endpoint, &adminapi.RequestOptions{Query: query}, &page); err != nil {
		return nil, fmt.Errorf("fetch orders for watch %s: %w", w.ID, err)
	}

	return buildOrderResources(page.Orders), nil
}

// buildOrderResources maps order records to resources. An empty page is not
// an error: it just means nothing changed since the last pass.
func buildOrderResources(orders []orderRecord) []domain.Resource {
	resources := make([]domain.Resource, 0, len(orders))
	for _, o := range orders {
		externalID := strconv.FormatInt(o.ID, 10)

		number := strings.TrimSpace(o.Number)
		if number == "" {
			number = "#" + externalID
		}

		resources = append(resources, domain.Resource{
			ID:         domain.NewResourceID(domain.KindOrder, externalID, o.UpdatedAt),
			Kind:       domain.KindOrder,
			ExternalID: externalID,
			Label:      orderLabel(number, o),
			AdminPath:  "orders/" + externalID,
			UpdatedAt:  o.UpdatedAt,
		})
	}
	return resources
}

func orderLabel(number string, o orderRecord) string {
	label := "Order " + number
	if status := strings.TrimSpace(o.Status); status != "" {
		label += " (" + status + ")"
	}
	if o.TotalPrice != "" && o.Currency != "" {
		label += " " + o.TotalPrice + " " + o.Currency
	}
	return label
}
