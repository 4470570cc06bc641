package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	notifier  domain.Notifier
}

// ValidateFieldRequest is the body of a single-field validation call.
type ValidateFieldRequest struct {
	Field string `json:"field" binding:"required" example:"phone"`
	Value string `json:"value" example:"1234"`
}

// ValidateFieldResponse reports the message for one field; Error is empty when valid.
type ValidateFieldResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ContactOptionsResponse lists what the form offers.
type ContactOptionsResponse struct {
	Services    []string             `json:"services"`
	ContactInfo []domain.ContactInfo `json:"contact_info"`
}

// NewContactHandler registers the contact routes (public, no auth required).
// submitLimit guards the submit route only; validation calls are cheap.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, notifier domain.Notifier, submitLimit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		notifier:  notifier,
	}

	contact := public.Group("/contact")
	contact.GET("/services", handler.GetOptions)
	contact.POST("/validate", handler.ValidateField)
	if submitLimit != nil {
		contact.POST("", submitLimit, handler.SubmitContact)
	} else {
		contact.POST("", handler.SubmitContact)
	}
}

// GetOptions godoc
// @Summary      Contact form options
// @Description  Offered services for the service selector and the direct contact channels.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response{data=ContactOptionsResponse}
// @Router       /contact/services [get]
func (h *ContactHandler) GetOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, "Contact options retrieved", ContactOptionsResponse{
		Services:    h.contactUC.Services(),
		ContactInfo: h.contactUC.ContactInfo(),
	})
}

// ValidateField godoc
// @Summary      Validate one field
// @Description  Validate-on-change for a single contact form field.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        field  body      ValidateFieldRequest  true  "Field and value"
// @Success      200    {object}  response.Response{data=ValidateFieldResponse}
// @Failure      400    {object}  response.Response
// @Router       /contact/validate [post]
func (h *ContactHandler) ValidateField(c *gin.Context) {
	var req ValidateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	field, err := domain.ParseField(req.Field)
	if err != nil {
		c.Error(apperror.BadRequest("Unknown field"))
		return
	}

	msg, err := h.contactUC.ValidateField(field, req.Value)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Field validated", ValidateFieldResponse{
		Field: string(field),
		Valid: msg == "",
		Error: msg,
	})
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate the form and send it to the site owner. One delivery attempt per call, never retried.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact          body      domain.ContactRequest  true   "Contact Form Data"
// @Param        Idempotency-Key  header    string                 false  "Scopes duplicate-submit detection for this client"
// @Success      200              {object}  response.Response{data=domain.SubmitResult}
// @Failure      400              {object}  response.Response
// @Failure      409              {object}  response.Response
// @Failure      429              {object}  response.Response
// @Failure      502              {object}  response.Response{data=domain.SubmitResult}
// @Failure      503              {object}  response.Response{data=domain.SubmitResult}
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	res, err := h.contactUC.Submit(c.Request.Context(), domain.SubmitRequest{
		Values:   req.Values(),
		GuardKey: middleware.SubmitGuardKey(c),
		Notifier: h.notifier,
	})

	var verr *domain.ValidationError
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, res.Notification.Message, res)
	case errors.As(err, &verr):
		c.Error(apperror.Validation("Please correct the highlighted fields", verr.Fields.Wire()))
	case errors.Is(err, domain.ErrSubmissionInFlight):
		c.Error(apperror.Conflict("Your message is already being sent"))
	case errors.Is(err, domain.ErrDeliveryNotConfigured):
		response.Failure(c, http.StatusServiceUnavailable, domain.MessageSendFailed, nil, res)
	case errors.Is(err, domain.ErrDeliveryFailed):
		response.Failure(c, http.StatusBadGateway, domain.MessageSendFailed, nil, res)
	default:
		c.Error(apperror.Internal(err))
	}
}
