package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/pkg/response"
)

type ContactHandler struct {
	Dir          *application.Directory
	Logger       *logrus.Logger
	BirthdayDays int
}

func NewContactHandler(dir *application.Directory, logger *logrus.Logger, birthdayDays int) *ContactHandler {
	return &ContactHandler{Dir: dir, Logger: logger, BirthdayDays: birthdayDays}
}

type listQuery struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`
	Limit int `form:"limit,default=100" binding:"gte=0"`
}

type birthdaysQuery struct {
	Days     *int `form:"days" binding:"omitempty,gte=0,lte=366"`
	Calendar bool `form:"calendar"`
}

type lookupQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size"`
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

// List GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	out, err := h.Dir.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toContactList(out), "contacts", map[string]any{"skip": q.Skip, "limit": q.Limit})
}

// Get GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	ct, err := h.Dir.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if ct == nil {
		notFound(c, "contact")
		return
	}
	response.Success(c, http.StatusOK, toContactResponse(ct), "contact", nil)
}

// Create POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	f, err := req.fields()
	if err != nil {
		invalid(c, err)
		return
	}
	ct, err := h.Dir.Create(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toContactResponse(ct), "contact created", nil)
}

// Update PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	f, err := req.fields()
	if err != nil {
		invalid(c, err)
		return
	}
	ct, err := h.Dir.Update(c.Request.Context(), id, f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if ct == nil {
		notFound(c, "contact")
		return
	}
	response.Success(c, http.StatusOK, toContactResponse(ct), "contact updated", nil)
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	ct, err := h.Dir.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if ct == nil {
		notFound(c, "contact")
		return
	}
	response.Success(c, http.StatusOK, toContactResponse(ct), "contact deleted", nil)
}

// Birthdays GET /api/contacts/birthdays
func (h *ContactHandler) Birthdays(c *gin.Context) {
	var q birthdaysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	days := h.BirthdayDays
	if q.Days != nil {
		days = *q.Days
	}
	out, err := h.Dir.UpcomingBirthdays(c.Request.Context(), days, q.Calendar)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if out == nil {
		notFound(c, "contacts")
		return
	}
	response.Success(c, http.StatusOK, toContactList(out), "upcoming birthdays", map[string]any{"days": days})
}

// Search GET /api/contacts/search?firstName=&lastName=&email=
func (h *ContactHandler) Search(c *gin.Context) {
	out, err := h.Dir.Search(c.Request.Context(), queryPtr(c, "firstName"), queryPtr(c, "lastName"), queryPtr(c, "email"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if out == nil {
		notFound(c, "contacts")
		return
	}
	response.Success(c, http.StatusOK, toContactList(out), "search results", nil)
}

// Lookup GET /api/contacts/lookup?q=
func (h *ContactHandler) Lookup(c *gin.Context) {
	var q lookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	out, err := h.Dir.Lookup(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toContactList(out), "lookup results", nil)
}

func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}
