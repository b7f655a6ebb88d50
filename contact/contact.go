// Package contact implements the submission pipeline behind POST /api/contact:
// validate the payload, verify the human-interaction token, persist the
// submission to the content store, and notify. Persistence is best-effort;
// validation, verification and notification decide the response.
package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sipin/cafesite/models"
	"sipin/cafesite/notify"
	"sipin/cafesite/turnstile"
)

// Request is the inbound form payload.
type Request struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
	UseFallback    bool   `json:"useFallback,omitempty"`
}

// Meta is what the server observes about the caller, independent of the body.
type Meta struct {
	IPAddress string
	UserAgent string
}

type Result struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId,omitempty"`
}

type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindVerificationFailed Kind = "verification_failed"
	KindNotificationFailed Kind = "notification_failed"
)

// Error is a pipeline rejection. Message is safe to show the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	if e.Kind == KindNotificationFailed {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Email, validation.Required, validation.Match(emailPattern)),
		validation.Field(&r.Subject, validation.Required),
		validation.Field(&r.Message, validation.Required),
	)
}

// validationMessage collapses field errors into the short client-facing copy
// the form has always shown: one message for anything missing, one for a
// malformed email.
func validationMessage(err error) string {
	var fields validation.Errors
	if errors.As(err, &fields) {
		for _, fieldErr := range fields {
			var ev validation.Error
			if errors.As(fieldErr, &ev) && ev.Code() == "validation_required" {
				return "All fields are required"
			}
		}
		if _, ok := fields["email"]; ok {
			return "Invalid email format"
		}
	}
	return "Invalid request"
}

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Store is the content-store write surface; *sanity.Client satisfies it.
type Store interface {
	Create(ctx context.Context, doc any) (string, error)
}

// Archiver parks submissions the Store refused. Optional.
type Archiver interface {
	Park(ctx context.Context, sub *models.ContactSubmission, cause string)
}

type Pipeline struct {
	Verifier Verifier
	Store    Store
	Archive  Archiver
	Notifier notify.Notifier
	Log      *slog.Logger

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewPipeline(verifier Verifier, store Store, archiver Archiver, notifier notify.Notifier, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		Verifier: verifier,
		Store:    store,
		Archive:  archiver,
		Notifier: notifier,
		Log:      log.With("component", "contact"),
		Now:      time.Now,
	}
}

// Process runs one submission through the pipeline. The stages are strictly
// sequential; validation and verification short-circuit, a persistence
// failure does not.
func (p *Pipeline) Process(ctx context.Context, req Request, meta Meta) (*Result, *Error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: validationMessage(err), Err: err}
	}

	if req.UseFallback {
		// The widget failed to load client-side; this is the documented
		// degraded-trust path, the verification service is not consulted.
		p.Log.Info("processing contact submission in fallback mode", "ip", meta.IPAddress)
	} else {
		if req.TurnstileToken == "" {
			return nil, &Error{Kind: KindVerificationFailed, Message: "Security verification token is required"}
		}
		if err := p.Verifier.Verify(ctx, req.TurnstileToken, meta.IPAddress); err != nil {
			p.Log.Warn("turnstile verification rejected submission", "ip", meta.IPAddress, "error", err)
			// The wrapped error carries transport detail (URLs, dial
			// targets); only the short copy goes to the client.
			message := err.Error()
			if errors.Is(err, turnstile.ErrUnavailable) {
				message = turnstile.ErrUnavailable.Error()
			}
			return nil, &Error{Kind: KindVerificationFailed, Message: message, Err: err}
		}
	}

	sub := &models.ContactSubmission{
		Type:           "contactSubmission",
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Subject:        req.Subject,
		Message:        req.Message,
		SubmittedAt:    p.now().UTC().Format(time.RFC3339),
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		TurnstileToken: req.TurnstileToken,
		IsProcessed:    false,
	}

	submissionID, err := p.Store.Create(ctx, sub)
	if err != nil {
		// Durability is a side channel here; the user-visible promise is the
		// notification, so the request keeps going.
		p.Log.Warn("failed to save contact submission to content store", "error", err)
		if p.Archive != nil {
			p.Archive.Park(ctx, sub, err.Error())
		}
		submissionID = ""
	}

	if err := p.Notifier.Notify(ctx, sub); err != nil {
		p.Log.Error("contact notification failed", "error", err)
		return nil, &Error{Kind: KindNotificationFailed, Message: "Failed to send message", Err: err}
	}

	return &Result{
		Message:      "Message sent successfully and saved to our system",
		SubmissionID: submissionID,
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
