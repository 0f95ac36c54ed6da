package ocr

import (
	"StockScan-Backend/internal/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configureOCR(t *testing.T, apiURL string) {
	t.Helper()

	dir := t.TempDir()
	cfg := fmt.Sprintf(
		"OCR_API_URL: %s\nOCR_CLIENT_ID: test-client\nOCR_USERNAME: test-user\nOCR_API_KEY: test-key\n",
		apiURL,
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	utils.LoadConfig()
}

func TestProcessReceipt(t *testing.T) {
	quantity := 2.0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-client", r.Header.Get("Client-Id"))
		assert.Equal(t, "apikey test-user:test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com/receipt.jpg", body["file_url"])

		_ = json.NewEncoder(w).Encode(Document{
			Vendor: Vendor{Name: "Corner Store"},
			Total:  12.5,
			LineItems: []LineItem{
				{Description: "Whole Milk 1L", SKU: "M-1", Quantity: &quantity},
			},
		})
	}))
	defer server.Close()

	configureOCR(t, server.URL)

	document, err := NewOCRService().ProcessReceipt(context.Background(), "https://example.com/receipt.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Corner Store", document.Vendor.Name)
	require.Len(t, document.LineItems, 1)
	assert.Equal(t, "Whole Milk 1L", document.LineItems[0].Description)
	require.NotNil(t, document.LineItems[0].Quantity)
	assert.Equal(t, 2.0, *document.LineItems[0].Quantity)
}

func TestProcessReceiptUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad image", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	configureOCR(t, server.URL)

	_, err := NewOCRService().ProcessReceipt(context.Background(), "https://example.com/receipt.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR API error")
}
