package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListFundsAdmin returns every fund with translations.
func (a *API) ListFundsAdmin(c *gin.Context) {
	funds, err := a.funds.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load funds")
		return
	}
	respondOK(c, gin.H{"funds": funds})
}

type fundRequest struct {
	Slug     string `json:"slug"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
	Info     string `json:"info"`
}

// CreateFund registers a fund.
func (a *API) CreateFund(c *gin.Context) {
	var input fundRequest
	if !bindJSON(c, &input, "invalid fund payload") {
		return
	}

	fund, err := a.funds.Create(service.FundInput(input))
	if err != nil {
		if errors.Is(err, service.ErrFundSlugConflict) {
			respondError(c, http.StatusConflict, "fund slug already exists")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"fund": fund})
}

// UpdateFund edits a fund.
func (a *API) UpdateFund(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input fundRequest
	if !bindJSON(c, &input, "invalid fund payload") {
		return
	}

	fund, err := a.funds.Update(id, service.FundInput(input))
	if err != nil {
		if errors.Is(err, service.ErrFundNotFound) {
			respondError(c, http.StatusNotFound, "fund not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"fund": fund})
}

// DeleteFund removes a fund and its translations.
func (a *API) DeleteFund(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.funds.Delete(id); err != nil {
		if errors.Is(err, service.ErrFundNotFound) {
			respondError(c, http.StatusNotFound, "fund not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete fund")
		return
	}
	respondOK(c, nil)
}

// SaveFundTranslation creates or updates a fund's localized text.
func (a *API) SaveFundTranslation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Language    string `json:"language"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &input, "invalid translation payload") {
		return
	}

	translation, err := a.funds.SaveTranslation(id, service.FundTranslationInput{
		Language:    input.Language,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrFundNotFound) {
			respondError(c, http.StatusNotFound, "fund not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"translation": translation})
}
