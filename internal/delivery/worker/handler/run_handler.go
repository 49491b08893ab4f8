// Package handler contains the worker server's HTTP handlers.
package handler

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	deliverycontext "github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery/context"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// RunHandler exposes the batch passes and recipient management over HTTP so
// a scheduler (Cloud Scheduler push, cron with curl) can drive them.
type RunHandler struct {
	verifyOIDC   bool
	passRunning  atomic.Bool
	logger       *slog.Logger
	ingestSvc    usecase.IngestUsecase
	digestSvc    usecase.DigestUsecase
	recipientSvc usecase.RecipientUsecase
}

// RunHandlerParams holds dependencies for the RunHandler
type RunHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	IngestSvc    usecase.IngestUsecase
	DigestSvc    usecase.DigestUsecase
	RecipientSvc usecase.RecipientUsecase
}

// NewRunHandler creates a new run handler
func NewRunHandler(params RunHandlerParams) *RunHandler {
	verifyOIDC := params.Config.Scheduler != nil && params.Config.Scheduler.VerifyOIDC

	return &RunHandler{
		verifyOIDC:   verifyOIDC,
		logger:       params.Logger,
		ingestSvc:    params.IngestSvc,
		digestSvc:    params.DigestSvc,
		recipientSvc: params.RecipientSvc,
	}
}

// HandleRunIngest triggers one ingestion pass.
func (h *RunHandler) HandleRunIngest(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyOIDC {
		if err := verifySchedulerToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid scheduler token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Passes run one at a time; a retriggered scheduler waits for the next
	// slot instead of stacking overlapping runs.
	if !h.passRunning.CompareAndSwap(false, true) {
		return h.errorResponse(c, domainerrors.ErrPassAlreadyRunning)
	}
	defer h.passRunning.Store(false)

	summary, err := h.ingestSvc.RunIngestPass(ctx)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &domainerrors.SuccessResponse{
		Data: summary,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// HandleRunSend triggers one digest send pass.
func (h *RunHandler) HandleRunSend(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyOIDC {
		if err := verifySchedulerToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid scheduler token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	if !h.passRunning.CompareAndSwap(false, true) {
		return h.errorResponse(c, domainerrors.ErrPassAlreadyRunning)
	}
	defer h.passRunning.Store(false)

	summary, err := h.digestSvc.RunSendPass(ctx)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &domainerrors.SuccessResponse{
		Data: summary,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// upsertRecipientRequest is the request body for recipient upserts.
type upsertRecipientRequest struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	PreferredRetailers []string `json:"preferred_retailers"`
}

// recipientView is the JSON shape recipients are returned in.
type recipientView struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PreferredRetailers []string  `json:"preferred_retailers"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HandleUpsertRecipient creates or replaces a recipient by email.
func (h *RunHandler) HandleUpsertRecipient(c echo.Context) error {
	ctx := c.Request().Context()

	var req upsertRecipientRequest
	if err := c.Bind(&req); err != nil {
		return h.errorResponse(c, domainerrors.ErrRecipientUpsertFailed.Wrap(err))
	}

	recipient, err := h.recipientSvc.UpsertRecipient(ctx, req.Name, req.Email, req.PreferredRetailers)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &domainerrors.SuccessResponse{
		Data: toRecipientView(recipient),
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// HandleListRecipients returns the recipient roster ordered by email.
func (h *RunHandler) HandleListRecipients(c echo.Context) error {
	recipients, err := h.recipientSvc.ListRecipients(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}

	views := make([]*recipientView, 0, len(recipients))
	for _, recipient := range recipients {
		views = append(views, toRecipientView(recipient))
	}

	return c.JSON(http.StatusOK, &domainerrors.SuccessResponse{
		Data: views,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

func toRecipientView(recipient *entity.Recipient) *recipientView {
	return &recipientView{
		ID:                 recipient.ID.String(),
		Name:               recipient.Name,
		Email:              recipient.Email,
		PreferredRetailers: recipient.PreferredRetailers,
		UpdatedAt:          recipient.UpdatedAt,
	}
}

// errorResponse maps an error to the shared error envelope, using the
// domain error's HTTP status and code when available.
func (h *RunHandler) errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	info := &domainerrors.ErrorInfo{
		Code:    domainerrors.ErrInternalError.ErrorCode(),
		Message: domainerrors.ErrInternalError.Message(),
	}

	var appErr domainerrors.AppError
	if stderrors.As(err, &appErr) {
		status = appErr.HTTPCode()
		info.Code = appErr.ErrorCode()
		info.Message = appErr.Message()
		if details := appErr.Details(); details != "" {
			info.Details = details
		}
	}

	h.logger.Error("[Worker] Request failed",
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.Any("error", err),
	)

	return c.JSON(status, &domainerrors.ErrorResponse{
		Error: info,
		Meta:  &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// verifySchedulerToken verifies the OIDC token Cloud Scheduler attaches to
// push requests.
// Reference: https://cloud.google.com/scheduler/docs/http-target-auth
func verifySchedulerToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
