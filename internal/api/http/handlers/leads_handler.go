package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/service"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// LeadsHandler serves lead ingestion and queries.
type LeadsHandler struct {
	service *service.LeadService
	loc     *time.Location
}

// NewLeadsHandler constructs handler. Timestamps are rendered in loc, or time.Local when nil.
func NewLeadsHandler(leadService *service.LeadService, loc *time.Location) *LeadsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &LeadsHandler{service: leadService, loc: loc}
}

// CreateLead POST /lead.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	_, err := h.service.Submit(c.UserContext(), service.LeadInput{
		Name:         req.Name,
		Company:      req.Company,
		Phone:        req.Phone,
		Email:        req.Email,
		Volume:       req.Volume,
		UsagePurpose: req.Usage,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListLeads GET /admin/leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	period := domain.ParsePeriod(c.Query("period"))
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 0
	}

	leads, err := h.service.List(c.UserContext(), period, limit)
	if err != nil {
		return err
	}

	items := make([]dto.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, dto.NewLeadResponse(lead, h.loc))
	}
	return c.JSON(dto.LeadListResponse{Success: true, Leads: items})
}

// Index GET /.
func (h *LeadsHandler) Index(c *fiber.Ctx) error {
	return c.SendString("Backend is running")
}
