package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListContacts returns submissions for the admin inbox.
func (a *API) ListContacts(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 20)

	submissions, total, err := a.contacts.List(c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load submissions")
		return
	}
	respondOK(c, gin.H{"submissions": submissions, "total": total, "page": page})
}

// UpdateContactStatus moves a submission through its lifecycle.
func (a *API) UpdateContactStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &input, "invalid status payload") {
		return
	}

	submission, err := a.contacts.UpdateStatus(id, input.Status)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			respondError(c, http.StatusNotFound, "submission not found")
		case errors.As(err, &verr):
			respondErrorDetails(c, http.StatusBadRequest, "invalid status", verr.Details)
		default:
			respondError(c, http.StatusInternalServerError, "failed to update submission")
		}
		return
	}
	respondOK(c, gin.H{"submission": submission})
}

// DeleteContact removes a submission.
func (a *API) DeleteContact(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.contacts.Delete(id); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			respondError(c, http.StatusNotFound, "submission not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete submission")
		return
	}
	respondOK(c, nil)
}
