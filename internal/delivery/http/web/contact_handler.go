package web

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	notifier  domain.Notifier
}

// NewContactHandler registers the server-rendered contact page. The group must run
// the FormSession and CSRF middleware.
func NewContactHandler(pages *gin.RouterGroup, contactUC domain.ContactUsecase, notifier domain.Notifier, submitLimit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		notifier:  notifier,
	}

	pages.GET("/contact", handler.Show)
	pages.POST("/contact/validate/:field", handler.ValidateField)
	if submitLimit != nil {
		pages.POST("/contact", submitLimit, handler.Submit)
	} else {
		pages.POST("/contact", handler.Submit)
	}
}

func (h *ContactHandler) view(c *gin.Context, values domain.FieldValues, errs domain.FieldErrors) ContactView {
	return ContactView{
		Values:      values,
		Errors:      errs,
		Services:    h.contactUC.Services(),
		ContactInfo: h.contactUC.ContactInfo(),
		CSRFToken:   middleware.CSRFToken(c),
	}
}

func render(c *gin.Context, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}

// Show renders an empty form.
func (h *ContactHandler) Show(c *gin.Context) {
	render(c, http.StatusOK, ContactPage(h.view(c, domain.FieldValues{}, nil)))
}

// ValidateField re-validates one field and returns its error slot.
func (h *ContactHandler) ValidateField(c *gin.Context) {
	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	value, ok := c.GetPostForm("value")
	if !ok {
		value = c.PostForm(string(field))
	}

	msg, err := h.contactUC.ValidateField(field, value)
	if err != nil {
		logger.Log.Error("Field validation failed", "field", field, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	render(c, http.StatusOK, FieldError(field, msg))
}

// Submit validates and sends the posted form, then re-renders the page.
func (h *ContactHandler) Submit(c *gin.Context) {
	values := domain.FieldValues{}
	for _, field := range domain.AllFields {
		values[field] = c.PostForm(string(field))
	}

	res, err := h.contactUC.Submit(c.Request.Context(), domain.SubmitRequest{
		Values:   values,
		GuardKey: middleware.SubmitGuardKey(c),
		Notifier: h.notifier,
	})

	var verr *domain.ValidationError
	switch {
	case err == nil:
		view := h.view(c, res.Values, nil)
		view.Notification = &res.Notification
		render(c, http.StatusOK, ContactPage(view))
	case errors.As(err, &verr):
		render(c, http.StatusUnprocessableEntity, ContactPage(h.view(c, values, verr.Fields)))
	case errors.Is(err, domain.ErrSubmissionInFlight):
		view := h.view(c, values, nil)
		view.Sending = true
		render(c, http.StatusConflict, ContactPage(view))
	case res != nil:
		// Delivery failed or is not configured: keep the input for a manual retry.
		view := h.view(c, res.Values, nil)
		view.Notification = &res.Notification
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrDeliveryNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		render(c, status, ContactPage(view))
	default:
		logger.Log.Error("Contact submit failed", "request_id", middleware.GetRequestID(c), "error", err)
		view := h.view(c, values, nil)
		view.Notification = &domain.Notification{Message: domain.MessageSendFailed, Severity: domain.SeverityError}
		render(c, http.StatusInternalServerError, ContactPage(view))
	}
}
