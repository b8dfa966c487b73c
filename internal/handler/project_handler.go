package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"projecthub/internal/auth"
	"projecthub/internal/errors"
	"projecthub/internal/model"
	"projecthub/internal/service"
)

const attachmentsField = "attachments"

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
	log            *zap.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, log: log.Named("projects")}
}

// CreateProjectRequest is a project submission, sent as JSON or as a
// multipart form with optional "attachments" files. List fields accept JSON
// arrays or JSON-encoded strings.
type CreateProjectRequest struct {
	Topic                   string    `json:"topic" form:"topic"`
	ProjectName             string    `json:"project_name" form:"project_name"`
	Description             string    `json:"description" form:"description"`
	TeamMembers             jsonParam `json:"team_members" form:"team_members" swaggertype:"string"`
	SearchKeywords          string    `json:"search_keywords" form:"search_keywords"`
	IPAddress               string    `json:"ip_address" form:"ip_address"`
	BrowserInfo             string    `json:"browser_info" form:"browser_info"`
	GeoInfo                 jsonParam `json:"geo_info" form:"geo_info" swaggertype:"string"`
	Status                  string    `json:"status" form:"status"`
	SourceProcessTemplate   string    `json:"source_process_template" form:"source_process_template"`
	GoLiveDate              string    `json:"go_live_date" form:"go_live_date" validate:"omitempty,datetime=2006-01-02"`
	AgileProject            flagParam `json:"agile_project" form:"agile_project" swaggertype:"boolean"`
	TaskActualsTrackingMode string    `json:"task_actuals_tracking_mode" form:"task_actuals_tracking_mode"`
	ProductVersion          string    `json:"product_version" form:"product_version"`
	IncidentalBudgetAmount  string    `json:"incidental_budget_amount" form:"incidental_budget_amount" validate:"omitempty,numeric"`
	SalesPerson1            string    `json:"sales_person_1" form:"sales_person_1"`
	SalesPerson2            string    `json:"sales_person_2" form:"sales_person_2"`
	SalesPerson3            string    `json:"sales_person_3" form:"sales_person_3"`
	DeliveryMilestone       string    `json:"delivery_milestone" form:"delivery_milestone"`
	ModulesImplemented      jsonParam `json:"modules_implemented" form:"modules_implemented" swaggertype:"string"`
	CustomerName            string    `json:"customer_name" form:"customer_name"`
	CustomerAddress         string    `json:"customer_address" form:"customer_address"`
	CustomerContactDetails  string    `json:"customer_contact_details" form:"customer_contact_details"`
	CustomerDesignation     string    `json:"customer_designation" form:"customer_designation"`
	Entity                  string    `json:"entity" form:"entity"`
	Region                  string    `json:"region" form:"region"`
	Division                string    `json:"division" form:"division"`
	PIDCategory             string    `json:"pid_category" form:"pid_category"`
	BusinessUnit            string    `json:"business_unit" form:"business_unit"`
	SubLOB                  string    `json:"sub_lob" form:"sub_lob"`
	InterCompanyPID         string    `json:"inter_company_pid" form:"inter_company_pid"`
	EMDBGRequired           flagParam `json:"emd_bg_required" form:"emd_bg_required" swaggertype:"boolean"`
	Geography               string    `json:"geography" form:"geography"`
	Group                   string    `json:"group" form:"group"`
	SubProduct              string    `json:"sub_product" form:"sub_product"`
	PlannedStartDate        string    `json:"planned_start_date" form:"planned_start_date" validate:"omitempty,datetime=2006-01-02"`
	PlannedEndDate          string    `json:"planned_end_date" form:"planned_end_date" validate:"omitempty,datetime=2006-01-02"`
	ProjectFinancialStatus  string    `json:"project_financial_status" form:"project_financial_status"`
}

// UserProfileResponse is a user with the projects they own or work on.
type UserProfileResponse struct {
	User     *model.User     `json:"user"`
	Projects []model.Project `json:"projects"`
}

// ListProjects godoc
// @Summary List or search projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive search over topic, description and keywords"
// @Success 200 {array} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// MyProjects godoc
// @Summary Projects owned by the authenticated user
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects/me [get]
func (h *ProjectHandler) MyProjects(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return httpError(errors.ErrUnauthorized)
	}
	projects, err := h.projectService.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// UserProjects godoc
// @Summary Projects owned by a user
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects/user/{id} [get]
func (h *ProjectHandler) UserProjects(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	projects, err := h.projectService.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// UserProfile godoc
// @Summary A user with the projects they own or are a team member of
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} UserProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/user/{id}/profile [get]
func (h *ProjectHandler) UserProfile(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, projects, err := h.projectService.UserProfile(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserProfileResponse{User: user, Projects: projects})
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	id, err := pathID(c, "project")
	if err != nil {
		return err
	}
	project, err := h.projectService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, project)
}

// CreateProject godoc
// @Summary Submit a project
// @Tags projects
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Param attachments formData file false "Attachment files"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return httpError(errors.ErrUnauthorized)
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	project, err := h.toProject(c, &req)
	if err != nil {
		return badRequest(err.Error())
	}

	files, err := attachmentFiles(c)
	if err != nil {
		return badRequest("invalid multipart form")
	}
	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return httpError(fmt.Errorf("open upload %q: %w", fh.Filename, err))
		}
		defer f.Close()
		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Body:        f,
		})
	}

	created, err := h.projectService.Create(c.Request().Context(), user.ID, project, uploads)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, created)
}

func attachmentFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return form.File[attachmentsField], nil
}

func (h *ProjectHandler) toProject(c echo.Context, req *CreateProjectRequest) (*model.Project, error) {
	topic := req.Topic
	if strings.TrimSpace(topic) == "" {
		topic = req.ProjectName
	}

	p := &model.Project{
		Topic:                   topic,
		Description:             optional(req.Description),
		SearchKeywords:          optional(req.SearchKeywords),
		IPAddress:               optional(req.IPAddress),
		BrowserInfo:             optional(req.BrowserInfo),
		Status:                  optional(req.Status),
		SourceProcessTemplate:   optional(req.SourceProcessTemplate),
		AgileProject:            bool(req.AgileProject),
		TaskActualsTrackingMode: optional(req.TaskActualsTrackingMode),
		ProductVersion:          optional(req.ProductVersion),
		SalesPerson1:            optional(req.SalesPerson1),
		SalesPerson2:            optional(req.SalesPerson2),
		SalesPerson3:            optional(req.SalesPerson3),
		DeliveryMilestone:       optional(req.DeliveryMilestone),
		CustomerName:            optional(req.CustomerName),
		CustomerAddress:         optional(req.CustomerAddress),
		CustomerContactDetails:  optional(req.CustomerContactDetails),
		CustomerDesignation:     optional(req.CustomerDesignation),
		Entity:                  optional(req.Entity),
		Region:                  optional(req.Region),
		Division:                optional(req.Division),
		PIDCategory:             optional(req.PIDCategory),
		BusinessUnit:            optional(req.BusinessUnit),
		SubLOB:                  optional(req.SubLOB),
		InterCompanyPID:         optional(req.InterCompanyPID),
		EMDBGRequired:           bool(req.EMDBGRequired),
		Geography:               optional(req.Geography),
		Group:                   optional(req.Group),
		SubProduct:              optional(req.SubProduct),
		ProjectFinancialStatus:  optional(req.ProjectFinancialStatus),
	}

	if p.IPAddress == nil {
		p.IPAddress = optional(c.RealIP())
	}
	if p.BrowserInfo == nil {
		p.BrowserInfo = optional(c.Request().UserAgent())
	}

	var err error
	if p.GoLiveDate, err = optionalDate(req.GoLiveDate); err != nil {
		return nil, fmt.Errorf("invalid go_live_date")
	}
	if p.PlannedStartDate, err = optionalDate(req.PlannedStartDate); err != nil {
		return nil, fmt.Errorf("invalid planned_start_date")
	}
	if p.PlannedEndDate, err = optionalDate(req.PlannedEndDate); err != nil {
		return nil, fmt.Errorf("invalid planned_end_date")
	}
	if amount := strings.TrimSpace(req.IncidentalBudgetAmount); amount != "" {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid incidental_budget_amount")
		}
		p.IncidentalBudgetAmount = decimal.NewNullDecimal(d)
	}

	// Unparsable list and geo fields degrade to empty rather than failing
	// the submission.
	if ids, err := model.ParseIDs([]byte(strings.TrimSpace(string(req.TeamMembers)))); err != nil {
		h.log.Warn("ignoring unparsable team_members", zap.Error(err))
	} else {
		p.TeamMembers = ids
	}

	if raw := strings.TrimSpace(string(req.ModulesImplemented)); raw != "" && raw != "null" {
		var modules []string
		if err := json.Unmarshal([]byte(raw), &modules); err != nil {
			h.log.Warn("ignoring unparsable modules_implemented", zap.Error(err))
		} else if len(modules) > 0 {
			p.ModulesImplemented = modules
		}
	}

	if raw := strings.TrimSpace(string(req.GeoInfo)); raw != "" && raw != "null" {
		if json.Valid([]byte(raw)) {
			p.GeoInfo = datatypes.JSON(raw)
		} else {
			h.log.Warn("ignoring unparsable geo_info")
		}
	}

	return p, nil
}
