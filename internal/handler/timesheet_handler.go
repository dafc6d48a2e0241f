package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TimesheetHandler struct {
	timesheetService service.TimesheetService
}

func NewTimesheetHandler(timesheetService service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetService: timesheetService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *TimesheetHandler) RegisterRoutes(router *gin.RouterGroup) {
	timeclock := router.Group("/api/timeclock", middleware.RequireAuth())
	{
		timeclock.POST("/clock-in", h.ClockIn)
		timeclock.POST("/clock-out", h.ClockOut)
	}

	entries := router.Group("/api/time-entries", middleware.RequireAuth())
	{
		entries.GET("", h.ListEntries)
		entries.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateEntry)
		entries.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteEntry)
		entries.POST("/:id/approve", middleware.RequireRole("admin", "manager"), h.Approve)
		entries.POST("/:id/unapprove", middleware.RequireRole("admin", "manager"), h.Unapprove)
		entries.POST("/bulk-approve", middleware.RequireRole("admin", "manager"), h.BulkApprove)
	}

	router.GET("/api/timesheets/weekly", middleware.RequireAuth(), h.WeeklyTimesheet)
}

// ClockIn opens a shift for an employee
// @Summary      Clock in
// @Description  Opens a new shift for the employee at the given or current time
// @Tags         timeclock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ClockInRequest  true  "Clock-in payload"
// @Success      201      {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/timeclock/clock-in [post]
func (h *TimesheetHandler) ClockIn(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.ClockIn(c.Request.Context(), sess.TenantID, sess.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ClockOut closes the employee's open shift
// @Summary      Clock out
// @Description  Closes the open shift, computing hours worked and salary
// @Tags         timeclock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ClockOutRequest  true  "Clock-out payload"
// @Success      200      {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/timeclock/clock-out [post]
func (h *TimesheetHandler) ClockOut(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.ClockOut(c.Request.Context(), sess.TenantID, sess.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ListEntries returns filtered, paginated time entries
// @Summary      List time entries
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        approved     query     bool    false  "Filter by approval state"
// @Param        from         query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to           query     string  false  "End date (YYYY-MM-DD)"
// @Param        page         query     int     false  "Page number (default: 1)"
// @Param        limit        query     int     false  "Items per page (default: 20)"
// @Success      200          {object}  response.Response
// @Router       /api/time-entries [get]
func (h *TimesheetHandler) ListEntries(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)
	p := pagination.Parse(c)

	filter := service.TimeEntryFilterRequest{
		EmployeeID: c.Query("employee_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Page:       p.Page,
		Limit:      p.Limit,
	}
	if raw := c.Query("approved"); raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			filter.Approved = &approved
		}
	}

	entries, total, err := h.timesheetService.ListEntries(c.Request.Context(), sess.TenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, p.Page, p.Limit, total))
}

// UpdateEntry manually edits a pending entry's times
// @Summary      Update time entry
// @Description  Edits clock times on a pending entry, recomputing hours and salary
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Entry ID"
// @Param        payload  body      service.UpdateTimeEntryRequest  true  "Update payload"
// @Success      200      {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/time-entries/{id} [put]
func (h *TimesheetHandler) UpdateEntry(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.UpdateEntry(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// DeleteEntry removes a pending time entry
// @Summary      Delete time entry
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/time-entries/{id} [delete]
func (h *TimesheetHandler) DeleteEntry(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	if err := h.timesheetService.DeleteEntry(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "entry deleted"}))
}

// Approve marks a completed entry as approved
// @Summary      Approve time entry
// @Description  Marks a completed entry approved. Re-approving is a no-op
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/time-entries/{id}/approve [post]
func (h *TimesheetHandler) Approve(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	entry, err := h.timesheetService.Approve(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Unapprove returns an approved entry to the pending state
// @Summary      Unapprove time entry
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/time-entries/{id}/unapprove [post]
func (h *TimesheetHandler) Unapprove(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	entry, err := h.timesheetService.Unapprove(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// BulkApprove approves many entries, reporting success per entry
// @Summary      Bulk approve time entries
// @Description  Each entry is approved independently; failures do not abort the rest
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BulkApproveRequest  true  "Entry IDs"
// @Success      200      {object}  response.Response{data=[]service.BulkApprovalResult}
// @Failure      400      {object}  response.Response
// @Router       /api/time-entries/bulk-approve [post]
func (h *TimesheetHandler) BulkApprove(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	results := h.timesheetService.BulkApprove(c.Request.Context(), sess.TenantID, sess.UserID, req)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// WeeklyTimesheet returns the Monday-anchored weekly summary for an employee
// @Summary      Weekly timesheet
// @Tags         timesheets
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  query     string  true   "Employee ID"
// @Param        date         query     string  false  "Any date inside the target week (YYYY-MM-DD, default: today)"
// @Success      200          {object}  response.Response{data=service.WeeklyTimesheetResponse}
// @Failure      400          {object}  response.Response
// @Router       /api/timesheets/weekly [get]
func (h *TimesheetHandler) WeeklyTimesheet(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	employeeID := c.Query("employee_id")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "employee_id is required"))
		return
	}

	sheet, err := h.timesheetService.WeeklyTimesheet(c.Request.Context(), sess.TenantID, employeeID, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sheet))
}
