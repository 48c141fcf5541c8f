package pixel

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rachitha15/PixelProbe/internal/domain"
	"github.com/rachitha15/PixelProbe/internal/dto"
)

var browsePaths = []string{
	"/",
	"/collections/all",
	"/collections/sale",
	"/products/classic-tee",
	"/products/canvas-tote",
	"/products/enamel-mug",
	"/cart",
}

var products = []struct {
	title string
	price float64
}{
	{"Classic Tee", 24.00},
	{"Canvas Tote", 18.50},
	{"Enamel Mug", 12.95},
	{"Wool Beanie", 21.00},
}

// Generator produces a plausible storefront event stream: a rotating pool
// of visitors browsing, adding to cart and occasionally checking out.
type Generator struct {
	rng      *rand.Rand
	visitors []string
}

// NewGenerator creates a generator with a pool of simulated visitors.
func NewGenerator(visitorPool int) *Generator {
	if visitorPool <= 0 {
		visitorPool = 8
	}

	visitors := make([]string, visitorPool)
	for i := range visitors {
		visitors[i] = uuid.New().String()
	}

	return &Generator{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		visitors: visitors,
	}
}

// Next produces one random event. The mix is weighted towards page views
// the way real storefront traffic is.
func (g *Generator) Next() dto.ShopifyEvent {
	clientID := g.visitors[g.rng.Intn(len(g.visitors))]
	path := browsePaths[g.rng.Intn(len(browsePaths))]

	event := dto.ShopifyEvent{
		ID:        fmt.Sprintf("evt_%s", uuid.New().String()),
		ClientID:  clientID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Type:      "standard",
		Version:   "1",
		Source:    "pixel-simulator",
		Context:   pageContext(path),
		Data:      map[string]interface{}{},
	}

	switch n := g.rng.Intn(100); {
	case n < 40:
		event.Name = domain.EventPageViewed
	case n < 60:
		event.Name = domain.EventProductViewed
		event.Data = g.productData()
	case n < 75:
		event.Name = domain.EventProductAddedToCart
		event.Data = g.cartData()
	case n < 85:
		event.Name = domain.EventCartUpdated
		event.Data = g.cartData()
	case n < 93:
		event.Name = domain.EventCheckoutStarted
		event.Data = g.checkoutData()
		event.Context = pageContext("/checkout")
	default:
		event.Name = domain.EventCheckoutCompleted
		event.Data = g.checkoutData()
		event.Context = pageContext("/checkout/thank-you")

		// A completed checkout retires the visitor; a fresh client id
		// takes the slot so unique-visitor counts keep moving.
		for i, v := range g.visitors {
			if v == clientID {
				g.visitors[i] = uuid.New().String()
				break
			}
		}
	}

	return event
}

func pageContext(path string) map[string]interface{} {
	return map[string]interface{}{
		"document": map[string]interface{}{
			"title": "Demo Shop",
			"location": map[string]interface{}{
				"href":     "https://demo-shop.myshopify.com" + path,
				"pathname": path,
			},
		},
	}
}

func (g *Generator) productData() map[string]interface{} {
	p := products[g.rng.Intn(len(products))]
	return map[string]interface{}{
		"productVariant": map[string]interface{}{
			"title": p.title,
			"price": map[string]interface{}{
				"amount":       fmt.Sprintf("%.2f", p.price),
				"currencyCode": "USD",
			},
		},
	}
}

func (g *Generator) cartData() map[string]interface{} {
	p := products[g.rng.Intn(len(products))]
	quantity := 1 + g.rng.Intn(3)
	return map[string]interface{}{
		"cartLine": map[string]interface{}{
			"quantity": quantity,
			"merchandise": map[string]interface{}{
				"title": p.title,
			},
			"cost": map[string]interface{}{
				"totalAmount": map[string]interface{}{
					"amount":       fmt.Sprintf("%.2f", float64(quantity)*p.price),
					"currencyCode": "USD",
				},
			},
		},
	}
}

func (g *Generator) checkoutData() map[string]interface{} {
	p := products[g.rng.Intn(len(products))]
	quantity := 1 + g.rng.Intn(3)
	return map[string]interface{}{
		"checkout": map[string]interface{}{
			"currencyCode": "USD",
			"totalPrice": map[string]interface{}{
				"amount":       fmt.Sprintf("%.2f", float64(quantity)*p.price),
				"currencyCode": "USD",
			},
			"lineItems": []interface{}{
				map[string]interface{}{
					"title":    p.title,
					"quantity": quantity,
				},
			},
		},
	}
}
