package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// GetMenuAdmin returns the menu tree for editing.
func (a *API) GetMenuAdmin(c *gin.Context) {
	key := c.Param("key")
	language := c.DefaultQuery("lang", a.languages.Default())

	tree, err := a.menus.Tree(key, language)
	if err != nil {
		if errors.Is(err, service.ErrMenuKeyMissing) {
			respondError(c, http.StatusBadRequest, "menu key is required")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load menu")
		return
	}
	respondOK(c, gin.H{"menu": key, "items": tree})
}

// RebuildMenu destructively replaces a menu's items. The whole rebuild is
// transactional, so a failure leaves the previous menu in place.
func (a *API) RebuildMenu(c *gin.Context) {
	key := c.Param("key")

	var input struct {
		Items []service.MenuItemInput `json:"items"`
	}
	if !bindJSON(c, &input, "invalid menu payload") {
		return
	}

	if err := a.menus.Rebuild(key, input.Items); err != nil {
		switch {
		case errors.Is(err, service.ErrMenuKeyMissing):
			respondError(c, http.StatusBadRequest, "menu key is required")
		case errors.Is(err, service.ErrMenuTargetInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to rebuild menu")
		}
		return
	}
	respondOK(c, gin.H{"menu": key})
}
