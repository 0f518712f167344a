package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"expenseflow.backend/internal/config"
	"expenseflow.backend/internal/domain/entities"
	"expenseflow.backend/pkg/logger"
	"go.uber.org/zap"
)

// HTTPReceiptExtractor sends receipt images to an external OCR service
// and maps the response onto suggested expense fields. Extraction is
// advisory: the submitter reviews the fields before the expense is
// created, so failures return empty fields rather than an error.
type HTTPReceiptExtractor struct {
	cfg        config.OCRConfig
	httpClient *http.Client
}

// NewHTTPReceiptExtractor creates a receipt extractor from config
func NewHTTPReceiptExtractor(cfg config.OCRConfig) *HTTPReceiptExtractor {
	return &HTTPReceiptExtractor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type extractResponse struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Extract uploads the receipt image and returns suggested fields.
// Fields the service could not read come back empty.
func (e *HTTPReceiptExtractor) Extract(ctx context.Context, image []byte, filename string) (*entities.ReceiptFields, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := e.cfg.BaseURL + "/extract"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		logger.Warn(ctx, "receipt extraction failed", zap.Error(err))
		return &entities.ReceiptFields{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "receipt extraction rejected", zap.Int("status", resp.StatusCode))
		return &entities.ReceiptFields{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entities.ReceiptFields{}, nil
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.Warn(ctx, "receipt extraction returned malformed body", zap.Error(err))
		return &entities.ReceiptFields{}, nil
	}

	return &entities.ReceiptFields{
		Amount:      parsed.Amount,
		Currency:    parsed.Currency,
		Date:        parsed.Date,
		Description: parsed.Description,
		Category:    parsed.Category,
	}, nil
}
