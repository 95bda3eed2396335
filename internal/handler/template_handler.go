package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// maxArchiveUploadSize bounds how much of an uploaded archive is read.
const maxArchiveUploadSize = 64 << 20

// ListTemplates returns templates matching the admin library filters.
func (a *API) ListTemplates(c *gin.Context) {
	var authorID uint
	if c.Query("mine") == "true" {
		authorID = sessionUserID(c)
	}

	templates, err := a.templates.List(
		c.Query("public") == "true",
		c.Query("featured") == "true",
		authorID,
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load templates")
		return
	}
	respondOK(c, gin.H{"templates": templates})
}

// GetTemplate returns one template.
func (a *API) GetTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := a.templates.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, "template not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load template")
		return
	}
	respondOK(c, gin.H{"template": template})
}

type templateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsPublic      bool   `json:"isPublic"`
	IsFeatured    bool   `json:"isFeatured"`
	Version       string `json:"version"`
	SchemaVersion string `json:"schemaVersion"`
	Sections      string `json:"sections"`
	GlobalStyles  string `json:"globalStyles"`
}

// CreateTemplate registers a template.
func (a *API) CreateTemplate(c *gin.Context) {
	var input templateRequest
	if !bindJSON(c, &input, "invalid template payload") {
		return
	}

	template, err := a.templates.Create(service.TemplateInput{
		Name:          input.Name,
		Description:   input.Description,
		AuthorID:      sessionUserID(c),
		IsPublic:      input.IsPublic,
		IsFeatured:    input.IsFeatured,
		Version:       input.Version,
		SchemaVersion: input.SchemaVersion,
		Sections:      input.Sections,
		GlobalStyles:  input.GlobalStyles,
	})
	if err != nil {
		if errors.Is(err, service.ErrTemplateNameMissing) {
			respondError(c, http.StatusBadRequest, "template name is required")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"template": template})
}

// UpdateTemplate edits a template.
func (a *API) UpdateTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input templateRequest
	if !bindJSON(c, &input, "invalid template payload") {
		return
	}

	template, err := a.templates.Update(id, service.TemplateInput{
		Name:          input.Name,
		Description:   input.Description,
		IsPublic:      input.IsPublic,
		IsFeatured:    input.IsFeatured,
		Version:       input.Version,
		SchemaVersion: input.SchemaVersion,
		Sections:      input.Sections,
		GlobalStyles:  input.GlobalStyles,
	})
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, "template not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"template": template})
}

// DeleteTemplate removes a template.
func (a *API) DeleteTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.templates.Delete(id); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, "template not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete template")
		return
	}
	respondOK(c, nil)
}

// CloneTemplate copies a template under a new name.
func (a *API) CloneTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &input, "invalid clone payload") {
		return
	}

	clone, err := a.templates.Clone(id, input.Name, sessionUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, http.StatusNotFound, "template not found")
		case errors.Is(err, service.ErrTemplateNameMissing):
			respondError(c, http.StatusBadRequest, "clone name is required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to clone template")
		}
		return
	}
	respondCreated(c, gin.H{"template": clone})
}

// ExportTemplate streams a template archive download.
func (a *API) ExportTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	session := sessions.Default(c)
	author, _ := session.Get(sessionUsernameKey).(string)
	if author == "" {
		author = "admin"
	}

	data, err := a.templates.Export(id, author, nil)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, "template not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to export template")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="template-%d.zip"`, id))
	c.Data(http.StatusOK, "application/zip", data)
}

// ImportTemplate validates an uploaded archive and stores the template.
// Validation failures return every problem found in one response.
func (a *API) ImportTemplate(c *gin.Context) {
	data, ok := a.readArchiveUpload(c)
	if !ok {
		return
	}

	outcome, validation, err := a.templates.Import(bytes.NewReader(data), int64(len(data)), sessionUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrImportRejected) {
			a.countImport("rejected")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "template archive failed validation",
				"details":        validation.Errors,
				"securityIssues": validation.SecurityIssues,
				"warnings":       validation.Warnings,
			})
			return
		}
		a.countImport("error")
		respondError(c, http.StatusBadRequest, "failed to read template archive")
		return
	}

	a.countImport("accepted")
	respondCreated(c, gin.H{
		"template": outcome.Template,
		"warnings": outcome.Warnings,
	})
}

// PreviewTemplateImport extracts the manifest and screenshot list without
// committing anything.
func (a *API) PreviewTemplateImport(c *gin.Context) {
	data, ok := a.readArchiveUpload(c)
	if !ok {
		return
	}

	preview, err := a.templates.Preview(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read template archive")
		return
	}
	respondOK(c, gin.H{
		"manifest":    preview.Manifest,
		"screenshots": preview.Screenshots,
	})
}

func (a *API) readArchiveUpload(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("archive")
	if err != nil {
		respondError(c, http.StatusBadRequest, "archive file is required")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxArchiveUploadSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return nil, false
	}
	if len(data) > maxArchiveUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "archive exceeds the upload limit")
		return nil, false
	}
	return data, true
}
