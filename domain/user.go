package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister  = "user registered successfully"
	MessageSuccessLogin     = "login successful"
	MessageSuccessGetMe     = "user profile retrieved successfully"
	MessageSuccessSubscribe = "subscription transaction created successfully"

	MessageFailedRegister  = "failed to register user"
	MessageFailedLogin     = "failed to login"
	MessageFailedGetMe     = "failed to retrieve user profile"
	MessageFailedSubscribe = "failed to create subscription transaction"

	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrPaymentFailed       = errors.New("payment processing failed")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	MeResponse struct {
		ID           string     `json:"id"`
		Name         string     `json:"name"`
		Email        string     `json:"email"`
		IsPremium    bool       `json:"is_premium"`
		PremiumUntil *time.Time `json:"premium_until,omitempty"`
	}

	SubscribeRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SubscribeResponse struct {
		OrderID    string `json:"order_id"`
		InvoiceURL string `json:"invoice_url"`
	}

	MidtransNotificationRequest struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status" validate:"required"`
		FraudStatus       string `json:"fraud_status"`
	}
)
