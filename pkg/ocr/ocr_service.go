package ocr

import (
	"StockScan-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// Document is the structured result of processing one receipt image.
	Document struct {
		Vendor    Vendor     `json:"vendor"`
		Total     float64    `json:"total"`
		LineItems []LineItem `json:"line_items"`
	}

	Vendor struct {
		Name string `json:"name"`
	}

	LineItem struct {
		Description string   `json:"description"`
		SKU         string   `json:"sku"`
		UPC         string   `json:"upc"`
		HSN         string   `json:"hsn"`
		Reference   string   `json:"reference"`
		Quantity    *float64 `json:"quantity"`
	}

	OCRService interface {
		ProcessReceipt(ctx context.Context, imageURL string) (*Document, error)
	}

	ocrService struct {
		httpClient *http.Client
	}
)

func NewOCRService() OCRService {
	return &ocrService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ProcessReceipt submits the stored receipt image to the document OCR API and
// returns the parsed line-item document.
func (s *ocrService) ProcessReceipt(ctx context.Context, imageURL string) (*Document, error) {
	apiURL := utils.GetConfig("OCR_API_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("OCR_API_URL not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"file_url": imageURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("CLIENT-ID", utils.GetConfig("OCR_CLIENT_ID"))
	req.Header.Set("AUTHORIZATION", fmt.Sprintf(
		"apikey %s:%s",
		utils.GetConfig("OCR_USERNAME"),
		utils.GetConfig("OCR_API_KEY"),
	))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OCR API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var document Document
	if err := json.NewDecoder(resp.Body).Decode(&document); err != nil {
		return nil, err
	}

	return &document, nil
}
