package handlers

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/internal/api/presenters"
	"StockScan-Backend/pkg/receipt"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReceiptHandler interface {
		UploadReceipt(c *fiber.Ctx) error
		GetCurrentScan(c *fiber.Ctx) error
		CancelScan(c *fiber.Ctx) error
		ConfirmScan(c *fiber.Ctx) error
		ConfirmLine(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

func (h *receiptHandler) UploadReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadReceiptRequest)

	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	res, err := h.receiptService.UploadReceipt(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrScanQuotaExceeded) {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageFailedUploadReceipt, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadReceipt)
}

func (h *receiptHandler) GetCurrentScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.receiptService.GetCurrentScan(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCurrentScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCurrentScan)
}

func (h *receiptHandler) CancelScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")

	if err := h.receiptService.CancelScan(c.Context(), scanID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrScanNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCancelScan, err)
		case errors.Is(err, domain.ErrScanNotPending):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCancelScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelScan)
}

func (h *receiptHandler) ConfirmScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")

	res, err := h.receiptService.ConfirmScan(c.Context(), scanID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrScanNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedConfirmScan, err)
		case errors.Is(err, domain.ErrScanNotPending):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedConfirmScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConfirmScan)
}

func (h *receiptHandler) ConfirmLine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")
	req := new(domain.ConfirmLineRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmLine, err)
	}

	res, err := h.receiptService.ConfirmLine(c.Context(), scanID, userID, *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrScanNotFound), errors.Is(err, domain.ErrLineNotFound), errors.Is(err, domain.ErrItemNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedConfirmLine, err)
		case errors.Is(err, domain.ErrScanNotPending):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedConfirmLine, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmLine, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConfirmLine)
}
