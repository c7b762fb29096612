package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/circuitbreaker"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/lifecycle"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/queue"
	"github.com/gin-gonic/gin"
)

var (
	catalogServiceURL string
	orderServiceURL   string
	httpClient        *http.Client
	catalogBreaker    *circuitbreaker.Breaker
	retryQueue        *queue.RetryQueue
)

func main() {
	catalogServiceURL = getEnv("CATALOG_SERVICE_URL", "http://localhost:8060")
	orderServiceURL = getEnv("ORDER_SERVICE_URL", "http://localhost:8070")

	httpClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	catalogBreaker = circuitbreaker.New(5, 30*time.Second)
	retryQueue = queue.NewRetryQueue()
	go retryWorker()

	r := gin.Default()

	r.GET("/api/v1/items", getItemsHandler)
	r.GET("/api/v1/items/appropriate", getItemsHandler)
	r.GET("/api/v1/items/:itemUid", getItemHandler)
	r.GET("/api/v1/items/:itemUid/orders", getItemOrdersHandler)
	r.POST("/api/v1/cart/items", addCartItemHandler)
	r.GET("/api/v1/orders", getOrdersHandler)
	r.GET("/api/v1/orders/:orderUid", getOrderHandler)
	r.POST("/api/v1/orders/:orderUid/status", updateOrderStatusHandler)
	r.POST("/api/v1/orders/:orderUid/payment", createPaymentHandler)
	r.GET("/manage/health", healthCheck)

	log.Println("Gateway service starting on port 8080")
	r.Run(":8080")
}

func getItemsHandler(c *gin.Context) {
	params := c.Request.URL.Query().Encode()
	url := catalogServiceURL + c.Request.URL.Path
	if params != "" {
		url += "?" + params
	}
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create a request"})
		return
	}
	response, err := httpClient.Do(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform request"})
		return
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(response.StatusCode, "application/json", body)
}

func getItemHandler(c *gin.Context) {
	itemUid := c.Param("itemUid")
	url := fmt.Sprintf("%s/api/v1/items/%s", catalogServiceURL, itemUid)
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create a request"})
		return
	}
	response, err := httpClient.Do(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform request"})
		return
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(response.StatusCode, "application/json", body)
}

func getItemOrdersHandler(c *gin.Context) {
	itemUid := c.Param("itemUid")
	url := fmt.Sprintf("%s/api/v1/items/%s/orders", orderServiceURL, itemUid)
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create a request"})
		return
	}
	response, err := httpClient.Do(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform request"})
		return
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(response.StatusCode, "application/json", body)
}

func addCartItemHandler(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}
	var request struct {
		ItemUid  string `json:"itemUid" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation error",
			"errors": map[string]string{
				"field": "request",
				"error": err.Error(),
			},
		})
		return
	}

	iteminfo := getItemInfo(request.ItemUid)
	if iteminfo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	stock, ok := iteminfo["stockQuantity"].(float64)
	if !ok || int(stock) < request.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item not available in the requested quantity"})
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"itemUid":  request.ItemUid,
		"quantity": request.Quantity,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request body"})
		return
	}
	url := orderServiceURL + "/api/v1/cart/items"
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create the request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Name", username)
	resp, err := httpClient.Do(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform the request"})
		return
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(resp.StatusCode, "application/json", data)
}

func getOrdersHandler(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}
	url := orderServiceURL + "/api/v1/orders"
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	request.Header.Set("X-User-Name", username)
	response, err := httpClient.Do(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform the request"})
		return
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(response.StatusCode, "application/json", body)
}

// getOrderHandler returns the order detail enriched with catalog data for
// every line. When the catalog is down the breaker serves the plain lines
// instead of failing the whole request.
func getOrderHandler(c *gin.Context) {
	orderUid := c.Param("orderUid")
	url := fmt.Sprintf("%s/api/v1/orders/%s", orderServiceURL, orderUid)
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	response, err := httpClient.Do(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform the request"})
		return
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		c.Data(response.StatusCode, "application/json", body)
		return
	}

	var order map[string]interface{}
	if err := json.NewDecoder(response.Body).Decode(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode the response"})
		return
	}

	lines, ok := order["items"].([]interface{})
	if ok {
		for _, raw := range lines {
			line, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			itemUid, _ := line["itemUid"].(string)
			if iteminfo := getItemInfo(itemUid); iteminfo != nil {
				line["image"] = iteminfo["image"]
				line["averageRating"] = iteminfo["averageRating"]
			}
		}
	}
	c.JSON(http.StatusOK, order)
}

// updateOrderStatusHandler proxies status changes. A cancellation that cannot
// reach the order service is queued and replayed in the background instead of
// being lost.
func updateOrderStatusHandler(c *gin.Context) {
	orderUid := c.Param("orderUid")
	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	body, err := json.Marshal(map[string]string{"status": request.Status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request body"})
		return
	}
	url := fmt.Sprintf("%s/api/v1/orders/%s/status", orderServiceURL, orderUid)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create the request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		if request.Status == lifecycle.StatusCancelled {
			retryQueue.Enqueue(&queue.RetryRequest{
				ID:         orderUid,
				Method:     "POST",
				URL:        url,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       body,
				RetryAt:    time.Now().Add(5 * time.Second),
				MaxRetries: 5,
			})
			c.JSON(http.StatusAccepted, gin.H{"message": "cancellation accepted, will be retried"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform the request"})
		return
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(resp.StatusCode, "application/json", data)
}

func createPaymentHandler(c *gin.Context) {
	orderUid := c.Param("orderUid")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	url := fmt.Sprintf("%s/api/v1/orders/%s/payment", orderServiceURL, orderUid)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create the request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to perform the request"})
		return
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the response"})
		return
	}
	c.Data(resp.StatusCode, "application/json", data)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Host localhost:8080 is active",
	})
}

// getItemInfo fetches an item view from the catalog behind the circuit
// breaker. A missing item and an open breaker both come back as nil.
func getItemInfo(itemUid string) map[string]interface{} {
	var item map[string]interface{}
	err := catalogBreaker.Execute(func() error {
		url := fmt.Sprintf("%s/api/v1/items/%s", catalogServiceURL, itemUid)
		response, err := httpClient.Get(url)
		if err != nil {
			return err
		}
		defer response.Body.Close()
		if response.StatusCode != http.StatusOK {
			item = nil
			return nil
		}
		return json.NewDecoder(response.Body).Decode(&item)
	}, func() error {
		item = nil
		return nil
	})
	if err != nil {
		return nil
	}
	return item
}

func retryWorker() {
	for {
		req := retryQueue.Dequeue()
		if req == nil {
			time.Sleep(time.Second)
			continue
		}
		if err := performRetry(req); err != nil {
			if !retryQueue.Requeue(req, 10*time.Second) {
				log.Printf("Dropping retry request %s after %d attempts: %v", req.ID, req.RetryCount, err)
			}
		}
	}
}

func performRetry(req *queue.RetryRequest) error {
	request, err := http.NewRequest(req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return err
	}
	for key, value := range req.Headers {
		request.Header.Set(key, value)
	}
	response, err := httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("retry target returned status %d", response.StatusCode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
