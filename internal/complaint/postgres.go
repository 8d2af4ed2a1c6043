package complaint

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/civicdesk/platform/internal/account"
	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sortColumns whitelists API sort fields against real columns.
var sortColumns = map[string]string{
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
	"title":     "c.title",
	"category":  "c.category",
	"urgency":   "c.urgency",
	"status":    "c.status",
}

const complaintColumns = `
	c.id, c.user_id, c.title, c.description, c.category, c.urgency, c.status,
	c.location, c.latitude, c.longitude,
	c.severity_traffic_block, c.severity_water_leak, c.severity_electricity_risk, c.severity_fire_hazard,
	c.assigned_to, c.timeline, c.admin_notes, c.images,
	c.created_at, c.updated_at,
	u.name, u.email,
	s.name, s.email, s.role`

// PostgresStore implements Store on a pgx pool. The owning citizen and
// the assignee are joined in so listings carry populated references.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a complaint store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save inserts a new complaint
func (r *PostgresStore) Save(ctx context.Context, c *Complaint) error {
	timeline, notes, images, err := marshalDocuments(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO complaints (
			id, user_id, title, description, category, urgency, status,
			location, latitude, longitude,
			severity_traffic_block, severity_water_leak, severity_electricity_risk, severity_fire_hazard,
			assigned_to, timeline, admin_notes, images,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err = r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Title, c.Description, c.Category, c.Urgency, c.Status,
		c.Location, c.Latitude, c.Longitude,
		c.Severity.TrafficBlock, c.Severity.WaterLeak, c.Severity.ElectricityRisk, c.Severity.FireHazard,
		c.AssignedTo, timeline, notes, images,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save complaint")
	}

	return nil
}

// FindByID finds a complaint by ID with populated account references
func (r *PostgresStore) FindByID(ctx context.Context, id types.ID) (*Complaint, error) {
	query := `SELECT ` + complaintColumns + `
		FROM complaints c
		LEFT JOIN accounts u ON u.id = c.user_id
		LEFT JOIN accounts s ON s.id = c.assigned_to
		WHERE c.id = $1`

	c, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("complaint", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find complaint")
	}

	return c, nil
}

// Update persists the full entity in a single document write
func (r *PostgresStore) Update(ctx context.Context, c *Complaint) error {
	timeline, notes, images, err := marshalDocuments(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE complaints SET
			title = $2, description = $3, category = $4, urgency = $5, status = $6,
			location = $7, latitude = $8, longitude = $9,
			severity_traffic_block = $10, severity_water_leak = $11,
			severity_electricity_risk = $12, severity_fire_hazard = $13,
			assigned_to = $14, timeline = $15, admin_notes = $16, images = $17,
			updated_at = $18
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Urgency, c.Status,
		c.Location, c.Latitude, c.Longitude,
		c.Severity.TrafficBlock, c.Severity.WaterLeak, c.Severity.ElectricityRisk, c.Severity.FireHazard,
		c.AssignedTo, timeline, notes, images,
		c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update complaint")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("complaint", c.ID.String())
	}

	return nil
}

// Delete removes a complaint
func (r *PostgresStore) Delete(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete complaint")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("complaint", id.String())
	}

	return nil
}

// List returns a page of complaints and the unpaginated match count
func (r *PostgresStore) List(ctx context.Context, filter Filter, page Page, sort Sort) ([]Complaint, int, error) {
	page = page.Normalize()

	conditions := buildConditions(filter)

	countQuery := psql.Select("COUNT(*)").From("complaints c")
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build count query")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count complaints")
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = sortColumns[DefaultSort.Field]
		sort.Desc = DefaultSort.Desc
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	listQuery := psql.Select(complaintColumns).
		From("complaints c").
		LeftJoin("accounts u ON u.id = c.user_id").
		LeftJoin("accounts s ON s.id = c.assigned_to").
		OrderBy(column + " " + direction).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))
	if len(conditions) > 0 {
		listQuery = listQuery.Where(conditions)
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build list query")
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list complaints")
	}
	defer rows.Close()

	complaints := []Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan complaint")
		}
		complaints = append(complaints, *c)
	}

	return complaints, total, nil
}

// Analytics aggregates dashboard statistics over the whole collection
func (r *PostgresStore) Analytics(ctx context.Context) (*Analytics, error) {
	a := &Analytics{
		ByStatus:   map[Status]int{},
		ByCategory: map[classify.Category]int{},
		ByUrgency:  map[int]int{},
		GeoPoints:  []GeoPoint{},
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&a.Total); err != nil {
		return nil, errors.Wrap(err, "failed to count complaints")
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate by status")
	}
	defer rows.Close()
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan status histogram")
		}
		a.ByStatus[status] = count
	}

	rows, err = r.pool.Query(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate by category")
	}
	defer rows.Close()
	for rows.Next() {
		var category classify.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan category histogram")
		}
		a.ByCategory[category] = count
	}

	rows, err = r.pool.Query(ctx, `SELECT urgency, COUNT(*) FROM complaints GROUP BY urgency`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate by urgency")
	}
	defer rows.Close()
	for rows.Next() {
		var urgency, count int
		if err := rows.Scan(&urgency, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan urgency histogram")
		}
		a.ByUrgency[urgency] = count
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE severity_traffic_block),
			COUNT(*) FILTER (WHERE severity_water_leak),
			COUNT(*) FILTER (WHERE severity_electricity_risk),
			COUNT(*) FILTER (WHERE severity_fire_hazard)
		FROM complaints`,
	).Scan(&a.Severity.TrafficBlock, &a.Severity.WaterLeak, &a.Severity.ElectricityRisk, &a.Severity.FireHazard)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate severity")
	}

	rows, err = r.pool.Query(ctx, `
		SELECT latitude, longitude, category FROM complaints
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query geo points")
	}
	defer rows.Close()
	for rows.Next() {
		var p GeoPoint
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Category); err != nil {
			return nil, errors.Wrap(err, "failed to scan geo point")
		}
		a.GeoPoints = append(a.GeoPoints, p)
	}

	return a, nil
}

// buildConditions translates a Filter into SQL predicates. The search
// term matches title, description, or location case-insensitively.
func buildConditions(filter Filter) sq.And {
	conditions := sq.And{}

	if filter.Status != "" {
		conditions = append(conditions, sq.Eq{"c.status": filter.Status})
	}
	if filter.Category != "" {
		conditions = append(conditions, sq.Eq{"c.category": filter.Category})
	}
	if filter.Urgency != 0 {
		conditions = append(conditions, sq.Eq{"c.urgency": filter.Urgency})
	}
	if !filter.AssignedTo.IsZero() {
		conditions = append(conditions, sq.Eq{"c.assigned_to": filter.AssignedTo})
	}
	if !filter.UserID.IsZero() {
		conditions = append(conditions, sq.Eq{"c.user_id": filter.UserID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"c.title": pattern},
			sq.ILike{"c.description": pattern},
			sq.ILike{"c.location": pattern},
		})
	}

	return conditions
}

func marshalDocuments(c *Complaint) (timeline, notes, images []byte, err error) {
	if timeline, err = json.Marshal(c.Timeline); err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to marshal timeline")
	}
	if notes, err = json.Marshal(c.AdminNotes); err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to marshal admin notes")
	}
	if images, err = json.Marshal(c.Images); err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to marshal images")
	}
	return timeline, notes, images, nil
}

func scanComplaint(row pgx.Row) (*Complaint, error) {
	c := &Complaint{}
	var location *string
	var timeline, notes, images []byte
	var ownerName, ownerEmail *string
	var assigneeName, assigneeEmail, assigneeRole *string

	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.Category, &c.Urgency, &c.Status,
		&location, &c.Latitude, &c.Longitude,
		&c.Severity.TrafficBlock, &c.Severity.WaterLeak, &c.Severity.ElectricityRisk, &c.Severity.FireHazard,
		&c.AssignedTo, &timeline, &notes, &images,
		&c.CreatedAt, &c.UpdatedAt,
		&ownerName, &ownerEmail,
		&assigneeName, &assigneeEmail, &assigneeRole,
	)
	if err != nil {
		return nil, err
	}

	if location != nil {
		c.Location = *location
	}
	if err := json.Unmarshal(timeline, &c.Timeline); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(notes, &c.AdminNotes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &c.Images); err != nil {
		return nil, err
	}

	if ownerName != nil {
		c.User = &account.Ref{ID: c.UserID, Name: *ownerName, Email: *ownerEmail}
	}
	if c.AssignedTo != nil && assigneeName != nil {
		c.Assignee = &account.Ref{
			ID:    *c.AssignedTo,
			Name:  *assigneeName,
			Email: *assigneeEmail,
		}
		if assigneeRole != nil {
			c.Assignee.Role = auth.Role(*assigneeRole)
		}
	}

	return c, nil
}
