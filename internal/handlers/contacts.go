package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"farmtech_irrigation/internal/repository"
	"farmtech_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListContacts    = "failed to load contacts"
	errCreateContact   = "failed to create contact"
	errDeleteContact   = "failed to deactivate contact"
	errContactNotFound = "contact not found"
	errInvalidBodyPref = "invalid body: "
)

// CreateContactRequest is the payload of POST /api/v1/contacts.
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required" example:"Ana Souza"`
	Email string `json:"email" binding:"required" example:"ana@farm.test"`
	Phone string `json:"phone,omitempty" example:"+55 11 99999-0000"`
}

// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, contacts"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	cs, err := h.services.Contacts.ListContacts(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListContacts, "contacts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(cs),
		"contacts": cs,
	})
}

// @Summary      Add contact
// @Description  New contacts are active and receive alert notifications
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body  CreateContactRequest  true  "Contact payload"
// @Success      201  {object}  models.Contact
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/contacts [post]
func (h *Handler) createContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ct, err := h.services.Contacts.AddContact(c.Request.Context(), service.ContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if errors.Is(err, service.ErrInvalidContact) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateContact, "contact_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, ct)
}

// @Summary      Deactivate contact
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/contacts/{id} [delete]
func (h *Handler) deactivateContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	err = h.services.Contacts.DeactivateContact(c.Request.Context(), id)
	if errors.Is(err, repository.ErrContactNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
		return
	}
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteContact, "contact_deactivate_failed", err, "contact_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated", "id": id})
}
