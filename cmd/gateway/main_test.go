package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/circuitbreaker"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/queue"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// setupGateway wires the package globals the way main does, pointed at test
// backends.
func setupGateway(catalogURL, orderURL string) {
	gin.SetMode(gin.TestMode)
	catalogServiceURL = catalogURL
	orderServiceURL = orderURL
	httpClient = &http.Client{Timeout: 2 * time.Second}
	catalogBreaker = circuitbreaker.New(5, 30*time.Second)
	retryQueue = queue.NewRetryQueue()
}

func jsonRequest(method, url, body string) *http.Request {
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func TestAddCartItemMissingHeader(t *testing.T) {
	setupGateway("http://localhost:8060", "http://localhost:8070")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/cart/items", `{"itemUid": "any", "quantity": 1}`)

	addCartItemHandler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCartItemUnknownItem(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer catalog.Close()
	setupGateway(catalog.URL, "http://localhost:8070")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/cart/items", `{"itemUid": "missing", "quantity": 1}`)
	c.Request.Header.Set("X-User-Name", "alice")

	addCartItemHandler(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCartItemNotEnoughStock(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"itemUid":       "abc",
			"stockQuantity": 1,
		})
	}))
	defer catalog.Close()
	setupGateway(catalog.URL, "http://localhost:8070")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/cart/items", `{"itemUid": "abc", "quantity": 3}`)
	c.Request.Header.Set("X-User-Name", "alice")

	addCartItemHandler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCartItemProxiesOrderService(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"itemUid":       "abc",
			"stockQuantity": 5,
		})
	}))
	defer catalog.Close()

	var forwardedUser string
	order := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwardedUser = r.Header.Get("X-User-Name")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orderUid": "order-1",
			"status":   "CART",
			"itemUid":  "abc",
			"quantity": 2,
		})
	}))
	defer order.Close()
	setupGateway(catalog.URL, order.URL)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/cart/items", `{"itemUid": "abc", "quantity": 2}`)
	c.Request.Header.Set("X-User-Name", "alice")

	addCartItemHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", forwardedUser)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "order-1", response["orderUid"])
}

func TestGetOrderEnrichesLines(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"itemUid":       "abc",
			"image":         "http://cdn/abc.jpg",
			"averageRating": 4.5,
		})
	}))
	defer catalog.Close()

	order := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orderUid":   "order-1",
			"status":     "PENDING",
			"totalPrice": "20.00",
			"items": []map[string]interface{}{
				{"itemUid": "abc", "name": "Test Item", "price": "10.00", "quantity": 2},
			},
		})
	}))
	defer order.Close()
	setupGateway(catalog.URL, order.URL)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/orders/order-1", nil)
	c.Params = gin.Params{gin.Param{Key: "orderUid", Value: "order-1"}}

	getOrderHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	lines := response["items"].([]interface{})
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "http://cdn/abc.jpg", line["image"])
	assert.Equal(t, 4.5, line["averageRating"])
}

func TestGetOrderDegradesWhenCatalogDown(t *testing.T) {
	order := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orderUid": "order-1",
			"status":   "PENDING",
			"items": []map[string]interface{}{
				{"itemUid": "abc", "name": "Test Item", "price": "10.00", "quantity": 2},
			},
		})
	}))
	defer order.Close()
	// nothing listens on port 1, every catalog call fails
	setupGateway("http://127.0.0.1:1", order.URL)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/orders/order-1", nil)
	c.Params = gin.Params{gin.Param{Key: "orderUid", Value: "order-1"}}

	getOrderHandler(c)

	// order detail still comes back, just without the catalog enrichment
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	lines := response["items"].([]interface{})
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "Test Item", line["name"])
	_, enriched := line["image"]
	assert.False(t, enriched)
}

func TestGetOrderPassesThroughNotFound(t *testing.T) {
	order := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Order not found"})
	}))
	defer order.Close()
	setupGateway("http://localhost:8060", order.URL)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/orders/missing", nil)
	c.Params = gin.Params{gin.Param{Key: "orderUid", Value: "missing"}}

	getOrderHandler(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancellationQueuedWhenOrderServiceDown(t *testing.T) {
	setupGateway("http://localhost:8060", "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/orders/order-1/status", `{"status": "CANCELLED"}`)
	c.Params = gin.Params{gin.Param{Key: "orderUid", Value: "order-1"}}

	updateOrderStatusHandler(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, retryQueue.Size())

	pending := retryQueue.Pending()
	assert.Equal(t, "order-1", pending[0].ID)
}

func TestNonCancellationFailureIsNotQueued(t *testing.T) {
	setupGateway("http://localhost:8060", "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/orders/order-1/status", `{"status": "CONFIRMED"}`)
	c.Params = gin.Params{gin.Param{Key: "orderUid", Value: "order-1"}}

	updateOrderStatusHandler(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, retryQueue.Size())
}

func TestGetItemProxiesStatusCode(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Item not found"})
	}))
	defer catalog.Close()
	setupGateway(catalog.URL, "http://localhost:8070")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/items/missing", nil)
	c.Params = gin.Params{gin.Param{Key: "itemUid", Value: "missing"}}

	getItemHandler(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPerformRetry(t *testing.T) {
	attempts := 0
	order := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer order.Close()
	setupGateway("http://localhost:8060", order.URL)

	req := &queue.RetryRequest{
		ID:         "order-1",
		Method:     "POST",
		URL:        order.URL + "/api/v1/orders/order-1/status",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"status": "CANCELLED"}`),
		MaxRetries: 5,
	}

	// first attempt hits a 5xx and counts as a failure
	assert.Error(t, performRetry(req))
	assert.NoError(t, performRetry(req))
	assert.Equal(t, 2, attempts)
}
