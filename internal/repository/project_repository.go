package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "projecthub/internal/errors"
	"projecthub/internal/fallback"
	"projecthub/internal/model"
)

var minimalProjectColumns = []string{"user_id", "topic", "description", "attachments", "team_members", "search_keywords"}

var clientInfoColumns = []string{"ip_address", "browser_info", "geo_info"}

var metadataColumns = []string{
	"status", "source_process_template", "go_live_date", "agile_project",
	"task_actuals_tracking_mode", "product_version", "incidental_budget_amount",
	"sales_person_1", "sales_person_2", "sales_person_3", "delivery_milestone",
	"modules_implemented", "customer_name", "customer_address",
	"customer_contact_details", "customer_designation", "entity", "region",
	"division", "pid_category", "business_unit", "sub_lob", "inter_company_pid",
	"emd_bg_required", "geography", "group", "sub_product", "planned_start_date",
	"planned_end_date", "project_financial_status",
}

// ProjectCreateTiers are tried in order when inserting a project.
var ProjectCreateTiers = []fallback.FieldSet{
	{Name: "full", Columns: concat(minimalProjectColumns, metadataColumns, clientInfoColumns)},
	{Name: "client_info", Columns: concat(minimalProjectColumns, clientInfoColumns)},
	{Name: "minimal", Columns: minimalProjectColumns},
}

// ProjectSearchTiers are the columns matched by a search term.
var ProjectSearchTiers = []fallback.FieldSet{
	{Name: "full", Columns: []string{"topic", "description", "search_keywords"}},
	{Name: "topic", Columns: []string{"topic"}},
}

// ProjectMembershipTiers select projects a user owns or is a team member of,
// then owned projects only.
var ProjectMembershipTiers = []fallback.FieldSet{
	{Name: "membership", Columns: []string{"user_id", "team_members"}},
	{Name: "owner_only", Columns: []string{"user_id"}},
}

const projectSelect = `SELECT p.*, u.username AS owner_username FROM projects p JOIN users u ON u.id = p.user_id`

// ProjectRepository defines persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) (*model.Project, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	Search(ctx context.Context, term string) ([]model.Project, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Project, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Project, error)
}

type projectRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProjectRepository builds a GORM-backed repository.
func NewProjectRepository(db *gorm.DB, log *zap.Logger) ProjectRepository {
	return &projectRepository{db: db, log: log.Named("projects")}
}

// Create inserts project with every column the store accepts and returns
// the stored row.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	values := project.ColumnValues()
	created, err := fallback.Run(ctx, r.log, "create project", ProjectCreateTiers, func(ctx context.Context, fs fallback.FieldSet) (*model.Project, error) {
		var out model.Project
		if err := insertReturning(ctx, r.db, "projects", fs, values, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	res := r.db.WithContext(ctx).Raw(projectSelect+" WHERE p.id = ?", id).Scan(&project)
	if res.Error != nil {
		return nil, fmt.Errorf("find project %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrProjectNotFound
	}
	return &project, nil
}

// Search returns projects whose searchable text contains term, ignoring
// case, newest first. An empty term returns every project; whitespace is
// searched for like any other text.
func (r *projectRepository) Search(ctx context.Context, term string) ([]model.Project, error) {
	if term == "" {
		var projects []model.Project
		if err := r.db.WithContext(ctx).Raw(projectSelect + " ORDER BY p.id DESC").Scan(&projects).Error; err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		return projects, nil
	}

	pattern := likePattern(term)
	projects, err := fallback.Run(ctx, r.log, "search projects", ProjectSearchTiers, func(ctx context.Context, fs fallback.FieldSet) ([]model.Project, error) {
		conds := make([]string, len(fs.Columns))
		args := make([]interface{}, len(fs.Columns))
		for i, col := range fs.Columns {
			conds[i] = fmt.Sprintf(`LOWER(p."%s") LIKE ?`, col)
			args[i] = pattern
		}
		query := projectSelect + " WHERE " + strings.Join(conds, " OR ") + " ORDER BY p.id DESC"

		var out []model.Project
		if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error; err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	return projects, nil
}

// ListByOwner returns the projects owned by userID, newest first.
func (r *projectRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Raw(projectSelect+" WHERE p.user_id = ? ORDER BY p.id DESC", userID).Scan(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects of user %d: %w", userID, err)
	}
	return projects, nil
}

// ListForUser returns projects userID owns or is a team member of, each
// tagged with the user's role, newest first. team_members is cast to jsonb so
// jsonb and text columns both work; stores where the cast or the column fails
// yield owned projects only.
func (r *projectRepository) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	projects, err := fallback.Run(ctx, r.log, "list user projects", ProjectMembershipTiers, func(ctx context.Context, fs fallback.FieldSet) ([]model.Project, error) {
		var (
			query string
			args  []interface{}
		)
		switch fs.Name {
		case "membership":
			query = `SELECT p.*, u.username AS owner_username,
	CASE WHEN p.user_id = ? THEN 'owner' ELSE 'member' END AS user_role
FROM projects p JOIN users u ON u.id = p.user_id
WHERE p.user_id = ?
	OR CASE WHEN jsonb_typeof(p.team_members::jsonb) = 'array'
		THEN EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.team_members::jsonb) AS m(member_id) WHERE m.member_id = ?)
		ELSE FALSE END
ORDER BY p.id DESC`
			args = []interface{}{userID, userID, strconv.FormatInt(userID, 10)}
		default:
			query = `SELECT p.*, u.username AS owner_username, 'owner' AS user_role
FROM projects p JOIN users u ON u.id = p.user_id
WHERE p.user_id = ?
ORDER BY p.id DESC`
			args = []interface{}{userID}
		}

		var out []model.Project
		if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error; err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects for user %d: %w", userID, err)
	}
	return projects, nil
}
