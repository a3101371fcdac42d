package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/skyfare/internal/service/wallet"
)

type WalletHandler struct {
	service wallet.LedgerUseCase
}

type deductRequest struct {
	UserID string `json:"userId" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

type deductResponse struct {
	NewBalance    int64  `json:"newBalance"`
	TransactionID string `json:"transactionId"`
}

func NewWalletHandler(service wallet.LedgerUseCase) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.balance)
	router.POST("/deduct", h.deduct)
}

func (h *WalletHandler) balance(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	w, err := h.service.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": w.Balance, "currency": w.Currency})
}

func (h *WalletHandler) deduct(c *gin.Context) {
	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Deduct(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deductResponse{NewBalance: result.NewBalance, TransactionID: result.TransactionID})
}
