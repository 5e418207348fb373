package handlers

import (
	"net/http"

	"member-portal/internal/middleware"
	"member-portal/internal/models"
	"member-portal/internal/notifier"
	"member-portal/internal/realtime"
	"member-portal/internal/repository"
	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const contactSubject = "New Contact Message"

// Enqueuer accepts notifications for background delivery
type Enqueuer interface {
	Enqueue(msg notifier.Message) error
}

// Publisher broadcasts dashboard feed events
type Publisher interface {
	Publish(evt realtime.Event)
}

// ContactHandler serves the contact form
type ContactHandler struct {
	contacts   repository.ContactRepository
	notifier   Enqueuer
	events     Publisher
	adminEmail string
	logger     *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts repository.ContactRepository, n Enqueuer, events Publisher, adminEmail string, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contacts:   contacts,
		notifier:   n,
		events:     events,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// ContactPage handles GET /contact
func (h *ContactHandler) ContactPage(c *gin.Context) {
	render(c, http.StatusOK, "contact.html", "Contact", gin.H{"Form": ContactForm{}})
}

// Submit handles POST /contact.
// The message is stored first; the administrator email is queued afterwards
// and a queueing failure never undoes the save.
func (h *ContactHandler) Submit(c *gin.Context) {
	s := middleware.GetSession(c)
	requestID := middleware.GetRequestID(c)

	var form ContactForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		s.AddFlash(session.FlashDanger, validationMessage(err))
		render(c, http.StatusBadRequest, "contact.html", "Contact", gin.H{"Form": form})
		return
	}

	msg := models.ContactMessage{
		Name:          form.Name,
		Email:         form.Email,
		ContactNumber: form.Contact,
		Message:       form.Message,
	}
	if err := h.contacts.Create(c.Request.Context(), &msg); err != nil {
		h.logger.Error("failed to store contact message", zap.String("request_id", requestID), zap.Error(err))
		renderError(c, err)
		return
	}

	err := h.notifier.Enqueue(notifier.Message{
		To:        h.adminEmail,
		Subject:   contactSubject,
		Body:      msg.NotificationBody(),
		ContactID: msg.ID,
	})
	if err != nil {
		h.logger.Warn("contact message stored but notification not queued",
			zap.String("request_id", requestID),
			zap.Uint("contact_id", msg.ID),
			zap.Error(err),
		)
		s.AddFlash(session.FlashWarning, "Your message was saved, but the administrator could not be notified right now.")
	} else {
		s.AddFlash(session.FlashSuccess, "Your message has been sent successfully!")
	}

	h.events.Publish(realtime.Event{Type: realtime.EventContactReceived, ContactID: msg.ID})
	redirectAfterPost(c, "/contact")
}
