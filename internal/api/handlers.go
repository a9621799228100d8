package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tower-climb/internal/checkout"
	"tower-climb/internal/game"
	"tower-climb/internal/ledger"
	"tower-climb/internal/minigame"
	"tower-climb/internal/session"
	"tower-climb/pkg"
)

// CodeIssuer mints and parses purchase redemption codes.
type CodeIssuer interface {
	Mint(sessionID string, goldAmount int) (string, error)
	Parse(code string) (checkout.RedemptionCode, error)
}

type Handlers struct {
	Sessions *session.Manager
	Checkout *checkout.Initiator
	Verifier *checkout.Verifier
	Codes    CodeIssuer
	Logger   pkg.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PowerUpView struct {
	ID             int64        `json:"id"`
	Kind           game.Kind    `json:"kind"`
	X              float64      `json:"x"`
	Y              float64      `json:"y"`
	RemainingTicks int          `json:"remainingTicks"`
	Display        game.Display `json:"display"`
}

type StateResponse struct {
	Gold     int           `json:"gold"`
	PowerUps []PowerUpView `json:"powerUps"`
}

type CollectRequest struct {
	PowerUpID int64 `json:"powerUpId"`
}

type GuessRequest struct {
	Value int `json:"value"`
}

type GuessResponse struct {
	Won      bool   `json:"won"`
	Hint     string `json:"hint,omitempty"`
	Attempts int    `json:"attempts"`
	Reward   int    `json:"reward,omitempty"`
	Gold     int    `json:"gold"`
}

type CheckoutRequest struct {
	PriceID    string `json:"priceId"`
	GoldAmount int    `json:"goldAmount"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type RedeemRequest struct {
	CheckoutSessionID string `json:"checkoutSessionId"`
}

type RedeemCodeRequest struct {
	Code string `json:"code"`
}

func RegisterHandlers(e *echo.Echo, h *Handlers) {
	e.POST("/api/session", h.CreateSession)
	e.DELETE("/api/session/:id", h.DeleteSession)
	e.GET("/api/session/:id/state", h.GetState)
	e.POST("/api/session/:id/collect", h.Collect)
	e.POST("/api/session/:id/guess", h.Guess)
	e.POST("/api/session/:id/guess/reset", h.ResetGuess)
	e.POST("/api/session/:id/redeem", h.Redeem)
	e.POST("/api/session/:id/redeem/code", h.RedeemCode)
	e.POST("/api/checkout", h.CreateCheckout)
}

func (h *Handlers) CreateSession(ctx echo.Context) error {
	s := h.Sessions.Create()
	h.Logger.Info("session created", zap.String("code", s.Code))
	return ctx.JSON(http.StatusCreated, map[string]string{"id": s.Code})
}

func (h *Handlers) DeleteSession(ctx echo.Context) error {
	h.Sessions.Remove(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (h *Handlers) GetState(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}

	live := s.Engine.Snapshot()
	views := make([]PowerUpView, 0, len(live))
	for _, p := range live {
		views = append(views, PowerUpView{
			ID:             p.ID,
			Kind:           p.Kind,
			X:              p.X,
			Y:              p.Y,
			RemainingTicks: p.RemainingLifetime,
			Display:        game.DisplayFor(p.Kind),
		})
	}
	return ctx.JSON(http.StatusOK, StateResponse{
		Gold:     s.Ledger.Balance(),
		PowerUps: views,
	})
}

func (h *Handlers) Collect(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}

	var req CollectRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if _, err := s.Collect(req.PowerUpID); err != nil {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "power-up not found"})
	}
	return ctx.JSON(http.StatusOK, map[string]int{"gold": s.Ledger.Balance()})
}

func (h *Handlers) Guess(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}

	var req GuessRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	res, err := s.Guess(req.Value)
	if err != nil {
		if errors.Is(err, minigame.ErrOutOfRange) {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "guess must be between 1 and 100"})
		}
		if errors.Is(err, minigame.ErrFinished) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{Error: "round already won"})
		}
		h.Logger.Error("failed to submit guess", zap.String("session", s.Code), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, GuessResponse{
		Won:      res.Won,
		Hint:     res.Hint,
		Attempts: res.Attempts,
		Reward:   res.Reward,
		Gold:     s.Ledger.Balance(),
	})
}

func (h *Handlers) ResetGuess(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}
	s.ResetGuess()
	return ctx.NoContent(http.StatusNoContent)
}

func (h *Handlers) CreateCheckout(ctx echo.Context) error {
	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	url, err := h.Checkout.CreateCheckout(ctx.Request().Context(), requestOrigin(ctx), req.PriceID, req.GoldAmount)
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidGoldAmount) {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "gold amount must be positive"})
		}
		h.Logger.Error("failed to create checkout", zap.String("priceID", req.PriceID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, CheckoutResponse{URL: url})
}

func (h *Handlers) Redeem(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}

	var req RedeemRequest
	if err := ctx.Bind(&req); err != nil || req.CheckoutSessionID == "" {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	gold, err := h.Verifier.Verify(ctx.Request().Context(), req.CheckoutSessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrUnpaid) {
			return ctx.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "payment not completed"})
		}
		h.Logger.Error("failed to verify checkout session",
			zap.String("checkoutSessionID", req.CheckoutSessionID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	// Mint before granting so a minting failure leaves the purchase
	// unredeemed and the client can simply retry.
	code, err := h.Codes.Mint(req.CheckoutSessionID, gold)
	if err != nil {
		h.Logger.Error("failed to mint redemption code", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}

	balance, err := s.Ledger.GrantFromPurchase(gold, req.CheckoutSessionID)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateToken) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{Error: "purchase already redeemed"})
		}
		h.Logger.Error("failed to grant purchase", zap.String("token", req.CheckoutSessionID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{"gold": balance, "code": code})
}

func (h *Handlers) RedeemCode(ctx echo.Context) error {
	s, ok := h.Sessions.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}

	var req RedeemCodeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	code, err := h.Codes.Parse(req.Code)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid redemption code"})
	}

	balance, err := s.Ledger.GrantFromPurchase(code.GoldAmount, code.SessionID)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateToken) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{Error: "purchase already redeemed"})
		}
		h.Logger.Error("failed to grant purchase from code", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
	return ctx.JSON(http.StatusOK, map[string]int{"gold": balance})
}

// requestOrigin reconstructs the caller's origin for the success/cancel
// redirect targets.
func requestOrigin(ctx echo.Context) string {
	if origin := ctx.Request().Header.Get("Origin"); origin != "" {
		return origin
	}
	scheme := ctx.Scheme()
	return scheme + "://" + ctx.Request().Host
}
