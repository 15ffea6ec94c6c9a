package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/blogem/object-log/models"
)

// LogItemRepository interface defines log item database operations
type LogItemRepository interface {
	Create(ctx context.Context, item *models.LogItem) error
	ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error)
	ListRecent(ctx context.Context, limit uint64) ([]*models.LogItem, error)
}

type logItemRepository struct {
	db *sql.DB
}

// NewLogItemRepository creates a new log item repository
func NewLogItemRepository(db *sql.DB) LogItemRepository {
	return &logItemRepository{db: db}
}

// Create inserts a log item, stamping it with the current time when unset
func (r *logItemRepository) Create(ctx context.Context, item *models.LogItem) error {
	if item.Action == nil || item.Action.ID == 0 {
		return fmt.Errorf("log item requires a stored action")
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	// stored as text, so a single zone keeps ORDER BY chronological
	item.Timestamp = item.Timestamp.UTC()

	data := item.Data
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode log item data: %w", err)
	}

	var userID sql.NullInt64
	if item.User != nil {
		userID = sql.NullInt64{Int64: item.User.ID, Valid: true}
	}

	columns := []string{"action_id", "timestamp", "user_id", "data"}
	values := []interface{}{item.Action.ID, item.Timestamp, userID, string(encoded)}
	for i, ref := range item.Objects {
		if ref == nil {
			continue
		}
		n := i + 1
		columns = append(columns,
			fmt.Sprintf("object_type%d_id", n),
			fmt.Sprintf("object_id%d", n),
			fmt.Sprintf("object_repr%d", n),
		)
		values = append(values, ref.ContentTypeID, ref.ObjectID, ref.Repr)
	}

	query, args, err := builder.Insert("log_items").
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build log item insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return fmt.Errorf("failed to create log item: %w", err)
	}

	return nil
}

// ListForUser retrieves the user's log items with the user row joined,
// ordered by timestamp descending when desc is set and ascending otherwise
func (r *logItemRepository) ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	q := selectLogItems().
		Where(squirrel.Eq{"log_items.user_id": userID}).
		OrderBy("log_items.timestamp "+direction, "log_items.id "+direction)

	return r.query(ctx, q)
}

// ListRecent retrieves the newest log items across all users
func (r *logItemRepository) ListRecent(ctx context.Context, limit uint64) ([]*models.LogItem, error) {
	q := selectLogItems().
		OrderBy("log_items.timestamp DESC", "log_items.id DESC").
		Limit(limit)

	return r.query(ctx, q)
}

func selectLogItems() squirrel.SelectBuilder {
	return builder.Select(
		"log_items.id", "log_items.timestamp", "log_items.data",
		"log_actions.id", "log_actions.name", "log_actions.template",
		"users.id", "users.subject", "users.email", "users.name", "users.date_joined",
		"log_items.object_type1_id", "log_items.object_id1", "log_items.object_repr1",
		"log_items.object_type2_id", "log_items.object_id2", "log_items.object_repr2",
		"log_items.object_type3_id", "log_items.object_id3", "log_items.object_repr3",
	).
		From("log_items").
		Join("log_actions ON log_actions.id = log_items.action_id").
		LeftJoin("users ON users.id = log_items.user_id")
}

// nullableRef holds the nullable columns of one generic object reference
type nullableRef struct {
	typeID sql.NullInt64
	id     sql.NullString
	repr   sql.NullString
}

func (n nullableRef) ref() *models.ObjectRef {
	if !n.typeID.Valid {
		return nil
	}
	return &models.ObjectRef{ContentTypeID: n.typeID.Int64, ObjectID: n.id.String, Repr: n.repr.String}
}

func (r *logItemRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]*models.LogItem, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build log item query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log items: %w", err)
	}
	defer rows.Close()

	var items []*models.LogItem
	for rows.Next() {
		var (
			item       models.LogItem
			action     models.LogAction
			data       string
			userID     sql.NullInt64
			subject    sql.NullString
			email      sql.NullString
			name       sql.NullString
			dateJoined sql.NullTime
			refs       [models.MaxObjectRefs]nullableRef
		)

		err := rows.Scan(
			&item.ID, &item.Timestamp, &data,
			&action.ID, &action.Name, &action.Template,
			&userID, &subject, &email, &name, &dateJoined,
			&refs[0].typeID, &refs[0].id, &refs[0].repr,
			&refs[1].typeID, &refs[1].id, &refs[1].repr,
			&refs[2].typeID, &refs[2].id, &refs[2].repr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log item: %w", err)
		}

		item.Action = &action
		if userID.Valid {
			item.User = &models.User{
				ID:         userID.Int64,
				Subject:    subject.String,
				Email:      email.String,
				Name:       name.String,
				DateJoined: dateJoined.Time,
			}
		}
		for i := range refs {
			item.Objects[i] = refs[i].ref()
		}
		if data != "" {
			if err := json.Unmarshal([]byte(data), &item.Data); err != nil {
				return nil, fmt.Errorf("failed to decode data of log item %d: %w", item.ID, err)
			}
		}

		items = append(items, &item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log items: %w", err)
	}

	return items, nil
}
