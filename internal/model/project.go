package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Project roles on the user profile listing.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Project is a project record. Columns beyond the minimal set only exist on
// stores migrated past the first schema stage and read back as zero values
// otherwise.
type Project struct {
	ID             int64      `json:"id" gorm:"column:id;primaryKey"`
	UserID         int64      `json:"user_id" gorm:"column:user_id"`
	Topic          string     `json:"topic" gorm:"column:topic"`
	Description    *string    `json:"description" gorm:"column:description"`
	Attachments    StringList `json:"attachments" gorm:"column:attachments"`
	TeamMembers    IDList     `json:"team_members" gorm:"column:team_members"`
	SearchKeywords *string    `json:"search_keywords" gorm:"column:search_keywords"`

	IPAddress   *string        `json:"ip_address,omitempty" gorm:"column:ip_address"`
	BrowserInfo *string        `json:"browser_info,omitempty" gorm:"column:browser_info"`
	GeoInfo     datatypes.JSON `json:"geo_info,omitempty" gorm:"column:geo_info"`

	Status                  *string             `json:"status,omitempty" gorm:"column:status"`
	SourceProcessTemplate   *string             `json:"source_process_template,omitempty" gorm:"column:source_process_template"`
	GoLiveDate              *time.Time          `json:"go_live_date,omitempty" gorm:"column:go_live_date"`
	AgileProject            bool                `json:"agile_project" gorm:"column:agile_project"`
	TaskActualsTrackingMode *string             `json:"task_actuals_tracking_mode,omitempty" gorm:"column:task_actuals_tracking_mode"`
	ProductVersion          *string             `json:"product_version,omitempty" gorm:"column:product_version"`
	IncidentalBudgetAmount  decimal.NullDecimal `json:"incidental_budget_amount" gorm:"column:incidental_budget_amount"`
	SalesPerson1            *string             `json:"sales_person_1,omitempty" gorm:"column:sales_person_1"`
	SalesPerson2            *string             `json:"sales_person_2,omitempty" gorm:"column:sales_person_2"`
	SalesPerson3            *string             `json:"sales_person_3,omitempty" gorm:"column:sales_person_3"`
	DeliveryMilestone       *string             `json:"delivery_milestone,omitempty" gorm:"column:delivery_milestone"`
	ModulesImplemented      StringList          `json:"modules_implemented" gorm:"column:modules_implemented"`
	CustomerName            *string             `json:"customer_name,omitempty" gorm:"column:customer_name"`
	CustomerAddress         *string             `json:"customer_address,omitempty" gorm:"column:customer_address"`
	CustomerContactDetails  *string             `json:"customer_contact_details,omitempty" gorm:"column:customer_contact_details"`
	CustomerDesignation     *string             `json:"customer_designation,omitempty" gorm:"column:customer_designation"`
	Entity                  *string             `json:"entity,omitempty" gorm:"column:entity"`
	Region                  *string             `json:"region,omitempty" gorm:"column:region"`
	Division                *string             `json:"division,omitempty" gorm:"column:division"`
	PIDCategory             *string             `json:"pid_category,omitempty" gorm:"column:pid_category"`
	BusinessUnit            *string             `json:"business_unit,omitempty" gorm:"column:business_unit"`
	SubLOB                  *string             `json:"sub_lob,omitempty" gorm:"column:sub_lob"`
	InterCompanyPID         *string             `json:"inter_company_pid,omitempty" gorm:"column:inter_company_pid"`
	EMDBGRequired           bool                `json:"emd_bg_required" gorm:"column:emd_bg_required"`
	Geography               *string             `json:"geography,omitempty" gorm:"column:geography"`
	Group                   *string             `json:"group,omitempty" gorm:"column:group"`
	SubProduct              *string             `json:"sub_product,omitempty" gorm:"column:sub_product"`
	PlannedStartDate        *time.Time          `json:"planned_start_date,omitempty" gorm:"column:planned_start_date"`
	PlannedEndDate          *time.Time          `json:"planned_end_date,omitempty" gorm:"column:planned_end_date"`
	ProjectFinancialStatus  *string             `json:"project_financial_status,omitempty" gorm:"column:project_financial_status"`

	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"column:created_at"`

	// Read-only projections filled by listing queries.
	OwnerUsername string `json:"owner_username,omitempty" gorm:"column:owner_username"`
	UserRole      string `json:"user_role,omitempty" gorm:"column:user_role"`
}

// ColumnValues returns the writable columns of p keyed by column name.
func (p *Project) ColumnValues() map[string]interface{} {
	return map[string]interface{}{
		"user_id":                    p.UserID,
		"topic":                      p.Topic,
		"description":                p.Description,
		"attachments":                p.Attachments,
		"team_members":               p.TeamMembers,
		"search_keywords":            p.SearchKeywords,
		"ip_address":                 p.IPAddress,
		"browser_info":               p.BrowserInfo,
		"geo_info":                   p.GeoInfo,
		"status":                     p.Status,
		"source_process_template":    p.SourceProcessTemplate,
		"go_live_date":               p.GoLiveDate,
		"agile_project":              p.AgileProject,
		"task_actuals_tracking_mode": p.TaskActualsTrackingMode,
		"product_version":            p.ProductVersion,
		"incidental_budget_amount":   p.IncidentalBudgetAmount,
		"sales_person_1":             p.SalesPerson1,
		"sales_person_2":             p.SalesPerson2,
		"sales_person_3":             p.SalesPerson3,
		"delivery_milestone":         p.DeliveryMilestone,
		"modules_implemented":        p.ModulesImplemented,
		"customer_name":              p.CustomerName,
		"customer_address":           p.CustomerAddress,
		"customer_contact_details":   p.CustomerContactDetails,
		"customer_designation":       p.CustomerDesignation,
		"entity":                     p.Entity,
		"region":                     p.Region,
		"division":                   p.Division,
		"pid_category":               p.PIDCategory,
		"business_unit":              p.BusinessUnit,
		"sub_lob":                    p.SubLOB,
		"inter_company_pid":          p.InterCompanyPID,
		"emd_bg_required":            p.EMDBGRequired,
		"geography":                  p.Geography,
		"group":                      p.Group,
		"sub_product":                p.SubProduct,
		"planned_start_date":         p.PlannedStartDate,
		"planned_end_date":           p.PlannedEndDate,
		"project_financial_status":   p.ProjectFinancialStatus,
	}
}
