package midtrans

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"StockScan-Backend/internal/utils"
	"StockScan-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

const (
	PremiumPriceIDR     int64 = 49000
	PremiumDurationDays       = 30
)

type (
	MidtransService interface {
		CreateTransaction(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error
	}

	midtransService struct {
		midtransRepository MidtransRepository
		userRepository     user.UserRepository
		snapClient         snap.Client
	}
)

func NewMidtransService(midtransRepository MidtransRepository, userRepository user.UserRepository) MidtransService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(utils.GetConfig("SERVER_KEY"), env)

	return &midtransService{
		midtransRepository: midtransRepository,
		userRepository:     userRepository,
		snapClient:         snapClient,
	}
}

// CreateTransaction opens a snap payment page for the premium subscription
// and records the pending transaction.
func (s *midtransService) CreateTransaction(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscribeResponse{}, domain.ErrParseUUID
	}

	orderID := fmt.Sprintf("premium-%s", uuid.New().String())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: PremiumPriceIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	transaction := &entities.Transaction{
		ID:      uuid.New(),
		UserID:  userUUID,
		OrderID: orderID,
		Amount:  PremiumPriceIDR,
		Status:  "pending",
	}
	if err := s.midtransRepository.CreateTransaction(ctx, transaction); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		OrderID:    orderID,
		InvoiceURL: snapResp.RedirectURL,
	}, nil
}

// HandleNotification processes the midtrans webhook. Settlement upgrades the
// payer to premium for 30 days.
func (s *midtransService) HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error {
	transaction, err := s.midtransRepository.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		return err
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if req.TransactionStatus == "capture" && req.FraudStatus != "accept" {
			return nil
		}
		transaction.Status = "settlement"
		if err := s.midtransRepository.UpdateTransaction(ctx, transaction); err != nil {
			return err
		}
		return s.activatePremium(ctx, transaction.UserID.String())
	case "expire", "cancel", "deny":
		transaction.Status = req.TransactionStatus
		return s.midtransRepository.UpdateTransaction(ctx, transaction)
	default:
		return nil
	}
}

func (s *midtransService) activatePremium(ctx context.Context, userID string) error {
	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	until := time.Now().AddDate(0, 0, PremiumDurationDays)
	owner.IsPremium = true
	owner.PremiumUntil = &until
	return s.userRepository.UpdateUser(ctx, owner)
}
