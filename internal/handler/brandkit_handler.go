package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/brandkit"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListBrandkits returns brandkits for the admin library.
func (a *API) ListBrandkits(c *gin.Context) {
	kits, err := a.brandkits.List(c.Query("public") == "true")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load brandkits")
		return
	}
	respondOK(c, gin.H{"brandkits": kits})
}

// GetBrandkit returns one brandkit.
func (a *API) GetBrandkit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	kit, err := a.brandkits.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrBrandkitNotFound) {
			respondError(c, http.StatusNotFound, "brandkit not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load brandkit")
		return
	}
	respondOK(c, gin.H{"brandkit": kit})
}

type brandkitRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsPublic      bool   `json:"isPublic"`
	IsDefault     bool   `json:"isDefault"`
	SchemaVersion string `json:"schemaVersion"`
	Colors        string `json:"colors"`
	Typography    string `json:"typography"`
	Spacing       string `json:"spacing"`
	Assets        string `json:"assets"`
}

// CreateBrandkit registers a brandkit.
func (a *API) CreateBrandkit(c *gin.Context) {
	var input brandkitRequest
	if !bindJSON(c, &input, "invalid brandkit payload") {
		return
	}

	kit, err := a.brandkits.Create(service.BrandkitInput{
		Name:          input.Name,
		Description:   input.Description,
		AuthorID:      sessionUserID(c),
		IsPublic:      input.IsPublic,
		IsDefault:     input.IsDefault,
		SchemaVersion: input.SchemaVersion,
		Colors:        input.Colors,
		Typography:    input.Typography,
		Spacing:       input.Spacing,
		Assets:        input.Assets,
	})
	if err != nil {
		if errors.Is(err, service.ErrBrandkitNameMissing) {
			respondError(c, http.StatusBadRequest, "brandkit name is required")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"brandkit": kit})
}

// UpdateBrandkit edits a brandkit.
func (a *API) UpdateBrandkit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input brandkitRequest
	if !bindJSON(c, &input, "invalid brandkit payload") {
		return
	}

	kit, err := a.brandkits.Update(id, service.BrandkitInput{
		Name:          input.Name,
		Description:   input.Description,
		IsPublic:      input.IsPublic,
		IsDefault:     input.IsDefault,
		SchemaVersion: input.SchemaVersion,
		Colors:        input.Colors,
		Typography:    input.Typography,
		Spacing:       input.Spacing,
		Assets:        input.Assets,
	})
	if err != nil {
		if errors.Is(err, service.ErrBrandkitNotFound) {
			respondError(c, http.StatusNotFound, "brandkit not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"brandkit": kit})
}

// DeleteBrandkit removes a brandkit.
func (a *API) DeleteBrandkit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.brandkits.Delete(id); err != nil {
		if errors.Is(err, service.ErrBrandkitNotFound) {
			respondError(c, http.StatusNotFound, "brandkit not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete brandkit")
		return
	}
	respondOK(c, nil)
}

type applyRequest struct {
	TargetKind  string   `json:"targetKind"`
	TargetID    uint     `json:"targetId"`
	SectionRefs []string `json:"sectionRefs"`
	DryRun      bool     `json:"dryRun"`
}

// ApplyBrandkit applies a kit to a template or page. With dryRun the diff
// is returned without persisting anything.
func (a *API) ApplyBrandkit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input applyRequest
	if !bindJSON(c, &input, "invalid apply payload") {
		return
	}

	opts := brandkit.Options{SectionRefs: input.SectionRefs, DryRun: input.DryRun}

	var result *service.ApplyResult
	switch input.TargetKind {
	case "TEMPLATE":
		result, err = a.brandkits.ApplyToTemplate(id, input.TargetID, opts)
	case "PAGE":
		result, err = a.brandkits.ApplyToPage(id, input.TargetID, opts)
	default:
		respondError(c, http.StatusBadRequest, "targetKind must be TEMPLATE or PAGE")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandkitNotFound):
			respondError(c, http.StatusNotFound, "brandkit not found")
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, http.StatusNotFound, "template not found")
		case errors.Is(err, service.ErrPageNotFound):
			respondError(c, http.StatusNotFound, "page not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to apply brandkit")
		}
		return
	}

	if !result.Compat.Compatible {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "brandkit schema is not compatible with the target",
			"compat": result.Compat,
		})
		return
	}
	respondOK(c, gin.H{"result": result})
}
